package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"propcare/internal/config"
	"propcare/internal/database"
	"propcare/internal/repository"
	"propcare/internal/repository/memory"
	"propcare/internal/repository/postgres"
)

type stores struct {
	users      repository.UserRepository
	properties repository.PropertyRepository
	tenants    repository.TenantRepository
	tickets    repository.TicketRepository
	pool       *pgxpool.Pool
}

func (s *stores) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// openStores picks the persistence backend from cfg.Store.
func openStores(ctx context.Context, cfg config.Config, l zerolog.Logger) (*stores, error) {
	switch cfg.Store {
	case "memory":
		l.Warn().Msg("using in-memory store; data is lost on exit")
		return &stores{
			users:      memory.NewUserRepo(),
			properties: memory.NewPropertyRepo(),
			tenants:    memory.NewTenantRepo(),
			tickets:    memory.NewTicketRepo(),
		}, nil
	case "postgres", "":
		pool, err := database.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		return &stores{
			users:      postgres.NewUserRepo(pool),
			properties: postgres.NewPropertyRepo(pool),
			tenants:    postgres.NewTenantRepo(pool),
			tickets:    postgres.NewTicketRepo(pool),
			pool:       pool,
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE %q (want postgres or memory)", cfg.Store)
	}
}
