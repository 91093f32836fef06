package middleware

import (
	"net/http"

	"propcare/internal/models"
	"propcare/internal/utils"
)

// RequireAuth blocks when no active user is present in context (set by WithAuth).
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a := ActorFrom(r.Context())
		if a.ID == "" {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if a.Status != models.StatusActive {
			utils.Error(w, http.StatusForbidden, "account is inactive")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles allows request only if the current role is in the allowed list.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[ActorFrom(r.Context()).Role]; !ok {
				utils.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
