package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"propcare/internal/middleware"
	"propcare/internal/models"
	"propcare/internal/service"
	"propcare/internal/utils"
)

type TenantHTTP struct {
	svc *service.TenantService
}

func NewTenantHTTP(s *service.TenantService) *TenantHTTP {
	return &TenantHTTP{svc: s}
}

// leaseDate accepts plain dates from form inputs as well as RFC 3339.
type leaseDate struct{ time.Time }

func (d *leaseDate) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return utils.ErrInvalidJSON
}

func (d *leaseDate) ptr() *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

type tenantDTO struct {
	Property         *string                  `json:"property"`
	PropertyID       *string                  `json:"propertyId"`
	Name             *string                  `json:"name"`
	Email            *string                  `json:"email"`
	Phone            *string                  `json:"phone"`
	Unit             *string                  `json:"unit"`
	LeaseStart       *leaseDate               `json:"leaseStart"`
	LeaseEnd         *leaseDate               `json:"leaseEnd"`
	RentAmount       *float64                 `json:"rentAmount"`
	Status           *string                  `json:"status"`
	EmergencyContact *models.EmergencyContact `json:"emergencyContact"`
}

func (d tenantDTO) input() service.TenantInput {
	pid := d.PropertyID
	if pid == nil {
		pid = d.Property
	}
	return service.TenantInput{
		PropertyID:       pid,
		Name:             d.Name,
		Email:            d.Email,
		Phone:            d.Phone,
		Unit:             d.Unit,
		LeaseStart:       d.LeaseStart.ptr(),
		LeaseEnd:         d.LeaseEnd.ptr(),
		RentAmount:       d.RentAmount,
		Status:           d.Status,
		EmergencyContact: d.EmergencyContact,
	}
}

// GET /api/tenants?property=
func (h *TenantHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.List(r.Context(), middleware.ActorFrom(r.Context()), utils.QueryTrim(r.URL.Query(), "property"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.List(w, items, len(items))
	}
}

// GET /api/tenants/{id}
func (h *TenantHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := h.svc.Get(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, t)
	}
}

// POST /api/tenants
func (h *TenantHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in tenantDTO
		if err := utils.DecodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		t, err := h.svc.Create(r.Context(), middleware.ActorFrom(r.Context()), in.input())
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusCreated, t)
	}
}

// PUT /api/tenants/{id}
func (h *TenantHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in tenantDTO
		if err := utils.DecodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		t, err := h.svc.Update(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"), in.input())
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, t)
	}
}

// DELETE /api/tenants/{id}
func (h *TenantHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, map[string]any{})
	}
}
