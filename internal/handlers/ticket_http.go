package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"propcare/internal/middleware"
	"propcare/internal/service"
	"propcare/internal/utils"
)

// TicketHTTP wires the ticket workflow to HTTP. Every rule lives in the
// service; handlers only decode, pass the actor along and encode.
type TicketHTTP struct {
	svc       *service.TicketService
	maxUpload int64
}

func NewTicketHTTP(s *service.TicketService, maxUpload int64) *TicketHTTP {
	return &TicketHTTP{svc: s, maxUpload: maxUpload}
}

// GET /api/tickets?q=&status=&priority=&assignee=&sort=&order=&limit=&offset=
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		q := service.TicketQuery{
			Q:        utils.QueryTrim(qv, "q"),
			Status:   utils.QueryTrim(qv, "status"),
			Priority: utils.QueryTrim(qv, "priority"),
			Assignee: utils.QueryTrim(qv, "assignee"),
			Sort:     qv.Get("sort"),
			Order:    qv.Get("order"),
			Limit:    utils.QueryInt(qv, "limit", 50),
			Offset:   utils.QueryInt(qv, "offset", 0),
		}

		items, total, err := h.svc.List(r.Context(), middleware.ActorFrom(r.Context()), q)
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
		utils.List(w, items, len(items))
	}
}

// GET /api/tickets/{id}
func (h *TicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := h.svc.Get(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, t)
	}
}

// POST /api/tickets
func (h *TicketHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Property    string `json:"property"`
		PropertyID  string `json:"propertyId"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		AssignedTo  string `json:"assignedTo"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := utils.DecodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		if in.PropertyID == "" {
			in.PropertyID = in.Property
		}

		t, err := h.svc.Create(r.Context(), middleware.ActorFrom(r.Context()), service.CreateTicketInput{
			PropertyID:  in.PropertyID,
			Title:       in.Title,
			Description: in.Description,
			Priority:    in.Priority,
			AssignedTo:  in.AssignedTo,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusCreated, t)
	}
}

// PUT|PATCH /api/tickets/{id}
// Both verbs are partial: absent fields stay as they are.
func (h *TicketHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		Status      *string `json:"status"`
		AssignedTo  *string `json:"assignedTo"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := utils.DecodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}

		t, err := h.svc.Update(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"), service.TicketPatch{
			Title:       in.Title,
			Description: in.Description,
			Priority:    in.Priority,
			Status:      in.Status,
			AssignedTo:  in.AssignedTo,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, t)
	}
}

// DELETE /api/tickets/{id}
func (h *TicketHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, map[string]any{})
	}
}

// POST /api/tickets/{id}/comments
func (h *TicketHTTP) AddComment() http.HandlerFunc {
	type inDTO struct {
		Text string `json:"text"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := utils.DecodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		t, err := h.svc.AddComment(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"), in.Text)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, t)
	}
}

// POST /api/tickets/{id}/image (multipart, field "image")
func (h *TicketHTTP) UploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := formImage(w, r, h.maxUpload)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer f.Close()

		t, err := h.svc.SetImage(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"), hdr.Filename, f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, t)
	}
}
