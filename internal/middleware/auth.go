package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"propcare/internal/policy"
)

type ctxKey string

const ctxActor ctxKey = "actor"

// SessionCookie is the httpOnly cookie carrying the session JWT.
const SessionCookie = "session"

// TokenVerifier turns a session token into the identity it was issued for.
type TokenVerifier interface {
	Actor(token string) (policy.Actor, error)
}

func WithAuth(log zerolog.Logger, auth TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Read JWT from cookie "session" or Authorization: Bearer
			var tok string
			if c, err := r.Cookie(SessionCookie); err == nil {
				tok = c.Value
			} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tok = strings.TrimPrefix(h, "Bearer ")
			}

			if tok == "" {
				next.ServeHTTP(w, r) // unauthenticated; routes decide
				return
			}

			a, err := auth.Actor(tok)
			if err != nil {
				log.Debug().Err(err).Msg("rejected session token")
				// clear broken/expired cookie so it stops being sent
				ClearSession(w)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), a)))
		})
	}
}

// WithActor attaches a to ctx.
func WithActor(ctx context.Context, a policy.Actor) context.Context {
	return context.WithValue(ctx, ctxActor, a)
}

// ActorFrom returns the request's actor; the zero Actor when anonymous.
func ActorFrom(ctx context.Context) policy.Actor {
	a, _ := ctx.Value(ctxActor).(policy.Actor)
	return a
}

func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
