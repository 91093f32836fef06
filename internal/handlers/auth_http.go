package handlers

import (
	"net/http"
	"time"

	"propcare/internal/middleware"
	"propcare/internal/service"
	"propcare/internal/utils"
)

type AuthHTTP struct {
	svc          *service.AuthService
	users        *service.UserService
	secureCookie bool
}

func NewAuthHTTP(s *service.AuthService, users *service.UserService, secureCookie bool) *AuthHTTP {
	return &AuthHTTP{svc: s, users: users, secureCookie: secureCookie}
}

// POST /api/auth/register
func (h *AuthHTTP) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
			Phone    string `json:"phone"`
		}
		if err := utils.DecodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		u, err := h.svc.Register(r.Context(), service.RegisterInput{
			Name: in.Name, Email: in.Email, Password: in.Password, Role: in.Role, Phone: in.Phone,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusCreated, u)
	}
}

// POST /api/auth/login
func (h *AuthHTTP) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := utils.DecodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}

		token, u, err := h.svc.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   h.secureCookie,
			Expires:  time.Now().Add(h.svc.TTL()),
		})
		utils.OK(w, http.StatusOK, map[string]any{"user": u, "token": token})
	}
}

// POST /api/auth/logout
func (h *AuthHTTP) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.ClearSession(w)
		utils.OK(w, http.StatusOK, nil)
	}
}

// GET /api/auth/me
func (h *AuthHTTP) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := h.users.Me(r.Context(), middleware.ActorFrom(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, u)
	}
}
