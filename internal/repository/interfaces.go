package repository

import (
	"context"

	"propcare/internal/models"
)

// Lookups return (nil, nil) when the record does not exist. Mutations on a
// missing id return ErrNotFound; uniqueness violations return ErrDuplicate.

type UserRepository interface {
	Create(ctx context.Context, u *models.User, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (*models.User, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	PasswordHash(ctx context.Context, id string) (string, error)
	Names(ctx context.Context, ids []string) (map[string]string, error)
	ListByRole(ctx context.Context, role, status string) ([]models.User, error)
	UpdateBasic(ctx context.Context, id, name, phone string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	SetStatus(ctx context.Context, id, status string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	Get(ctx context.Context, id string) (*models.Property, error)
	GetMany(ctx context.Context, ids []string) (map[string]models.Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error)
	IDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	Update(ctx context.Context, p *models.Property) error
	Delete(ctx context.Context, id string) error
}

type TenantRepository interface {
	Create(ctx context.Context, t *models.Tenant) error
	Get(ctx context.Context, id string) (*models.Tenant, error)
	ListByProperties(ctx context.Context, propertyIDs []string) ([]models.Tenant, error)
	CountByProperty(ctx context.Context, propertyID string) (int, error)
	Update(ctx context.Context, t *models.Tenant) error
	Delete(ctx context.Context, id string) error
}

type TicketRepository interface {
	List(ctx context.Context, f TicketFilter) ([]models.Ticket, error)
	Count(ctx context.Context, f TicketFilter) (int, error)
	CountByStatus(ctx context.Context, f TicketFilter) (map[string]int, error)
	CountByProperty(ctx context.Context, propertyID string) (int, error)
	Get(ctx context.Context, id string) (*models.Ticket, error)
	Create(ctx context.Context, t *models.Ticket) error
	Update(ctx context.Context, t *models.Ticket) error
	// AddComment appends c to the ticket's comment list in one write and
	// fills in c.ID and c.CreatedAt.
	AddComment(ctx context.Context, ticketID string, c *models.Comment) error
	Delete(ctx context.Context, id string) error
}
