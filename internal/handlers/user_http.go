package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"propcare/internal/middleware"
	"propcare/internal/service"
	"propcare/internal/utils"
)

type UserHTTP struct {
	svc *service.UserService
}

func NewUserHTTP(s *service.UserService) *UserHTTP {
	return &UserHTTP{svc: s}
}

// GET /api/users/maintenance-staff
func (h *UserHTTP) MaintenanceStaff() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staff, err := h.svc.MaintenanceStaff(r.Context(), middleware.ActorFrom(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.List(w, staff, len(staff))
	}
}

// PATCH /api/users/{id}
func (h *UserHTTP) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		}
		if err := utils.DecodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		u, err := h.svc.UpdateProfile(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"), req.Name, req.Phone)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, u)
	}
}

// PATCH /api/users/{id}/password
func (h *UserHTTP) ChangePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Current string `json:"currentPassword"`
			New     string `json:"newPassword"`
		}
		if err := utils.DecodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		a := middleware.ActorFrom(r.Context())
		if err := h.svc.ChangePassword(r.Context(), a, chi.URLParam(r, "id"), req.Current, req.New); err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
