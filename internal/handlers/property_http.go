package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"propcare/internal/middleware"
	"propcare/internal/models"
	"propcare/internal/service"
	"propcare/internal/utils"
)

type PropertyHTTP struct {
	svc       *service.PropertyService
	maxUpload int64
}

func NewPropertyHTTP(s *service.PropertyService, maxUpload int64) *PropertyHTTP {
	return &PropertyHTTP{svc: s, maxUpload: maxUpload}
}

type propertyDTO struct {
	Name    *string         `json:"name"`
	Address *models.Address `json:"address"`
	Type    *string         `json:"type"`
	Size    *float64        `json:"size"`
	Status  *string         `json:"status"`
}

func (d propertyDTO) input() service.PropertyInput {
	return service.PropertyInput{Name: d.Name, Address: d.Address, Type: d.Type, Size: d.Size, Status: d.Status}
}

// GET /api/properties
func (h *PropertyHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.List(r.Context(), middleware.ActorFrom(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.List(w, items, len(items))
	}
}

// GET /api/properties/{id}
func (h *PropertyHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.svc.Get(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, p)
	}
}

// POST /api/properties
func (h *PropertyHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in propertyDTO
		if err := utils.DecodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		p, err := h.svc.Create(r.Context(), middleware.ActorFrom(r.Context()), in.input())
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusCreated, p)
	}
}

// PUT /api/properties/{id}
func (h *PropertyHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in propertyDTO
		if err := utils.DecodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		p, err := h.svc.Update(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"), in.input())
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, p)
	}
}

// DELETE /api/properties/{id}
func (h *PropertyHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, map[string]any{})
	}
}

// POST /api/properties/{id}/image (multipart, field "image")
func (h *PropertyHTTP) UploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := formImage(w, r, h.maxUpload)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer f.Close()

		p, err := h.svc.SetImage(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"), hdr.Filename, f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, p)
	}
}
