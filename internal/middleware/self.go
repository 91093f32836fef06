package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"propcare/internal/utils"
)

// RequireSelf allows the request only when {id} is the caller's own user id.
func RequireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := ActorFrom(r.Context()).ID
		if uid == "" || chi.URLParam(r, "id") != uid {
			utils.Error(w, http.StatusForbidden, "you may only change your own account")
			return
		}
		next.ServeHTTP(w, r)
	})
}
