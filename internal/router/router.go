package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"propcare/internal/config"
	"propcare/internal/handlers"
	"propcare/internal/middleware"
	"propcare/internal/models"
	"propcare/internal/service"
)

// Deps are the services the HTTP surface exposes. Uploads, when set, serves
// stored images under cfg.UploadURL.
type Deps struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Properties *service.PropertyService
	Tenants    *service.TenantService
	Tickets    *service.TicketService
	Uploads    http.Handler
}

func New(log zerolog.Logger, d Deps, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Total-Count", "X-Request-Id"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.WithAuth(log, d.Auth))

	// Health
	r.Get("/healthz", handlers.Health())

	if d.Uploads != nil {
		r.Handle(cfg.UploadURL+"/*", d.Uploads)
	}

	ah := handlers.NewAuthHTTP(d.Auth, d.Users, cfg.CookieSecure)
	uh := handlers.NewUserHTTP(d.Users)
	ph := handlers.NewPropertyHTTP(d.Properties, cfg.UploadMaxBytes)
	tnh := handlers.NewTenantHTTP(d.Tenants)
	th := handlers.NewTicketHTTP(d.Tickets, cfg.UploadMaxBytes)
	rh := handlers.NewReportsHTTP(d.Tickets)

	manager := middleware.RequireRoles(models.RoleManager)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(httprate.LimitByIP(20, time.Minute))
				r.Post("/register", ah.Register())
				r.Post("/login", ah.Login())
			})
			r.Post("/logout", ah.Logout())
			r.With(middleware.RequireAuth).Get("/me", ah.Me())
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Route("/users", func(r chi.Router) {
				r.With(manager).Get("/maintenance-staff", uh.MaintenanceStaff())
				r.With(middleware.RequireSelf).Patch("/{id}", uh.UpdateProfile())
				r.With(middleware.RequireSelf).Patch("/{id}/password", uh.ChangePassword())
			})

			r.Route("/properties", func(r chi.Router) {
				r.Use(manager)
				r.Get("/", ph.List())
				r.Post("/", ph.Create())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", ph.Get())
					r.Put("/", ph.Update())
					r.Delete("/", ph.Delete())
					r.Post("/image", ph.UploadImage())
				})
			})

			r.Route("/tenants", func(r chi.Router) {
				r.Use(manager)
				r.Get("/", tnh.List())
				r.Post("/", tnh.Create())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", tnh.Get())
					r.Put("/", tnh.Update())
					r.Delete("/", tnh.Delete())
				})
			})

			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", th.List())
				r.Post("/", th.Create())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", th.Get())
					r.Put("/", th.Update())
					r.Patch("/", th.Update())
					r.With(manager).Delete("/", th.Delete())
					r.Post("/comments", th.AddComment())
					r.With(manager).Post("/image", th.UploadImage())
				})
			})

			r.Get("/reports/summary", rh.Summary())
		})
	})

	return r
}
