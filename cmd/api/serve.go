package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"propcare/internal/config"
	"propcare/internal/database"
	"propcare/internal/imagestore"
	"propcare/internal/router"
	"propcare/internal/service"
	"propcare/pkg/logger"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	// config + logger
	cfg := config.Load()
	l := logger.New(cfg.Env)

	st, err := openStores(parent, cfg, l)
	if err != nil {
		return err
	}
	defer st.Close()
	if st.pool != nil {
		applied, err := database.Migrate(parent, st.pool)
		if err != nil {
			return err
		}
		for _, m := range applied {
			l.Info().Str("migration", m).Msg("applied")
		}
	}

	images, err := imagestore.NewLocal(cfg.UploadDir, cfg.UploadURL, cfg.UploadMaxBytes)
	if err != nil {
		return err
	}

	auth := service.NewAuthService(st.users, cfg.SessionSecret, cfg.SessionTTL)
	r := router.New(l, router.Deps{
		Auth:       auth,
		Users:      service.NewUserService(st.users),
		Properties: service.NewPropertyService(st.properties, st.tenants, st.tickets, images, l),
		Tenants:    service.NewTenantService(st.tenants, st.properties),
		Tickets:    service.NewTicketService(st.tickets, st.properties, st.users, images, l),
		Uploads:    images.Handler(),
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		l.Info().Str("addr", srv.Addr).Str("store", cfg.Store).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	// graceful shutdown
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		l.Error().Err(err).Msg("shutdown")
	}
	l.Info().Msg("shutdown complete")
	return nil
}
