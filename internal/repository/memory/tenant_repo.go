package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"propcare/internal/models"
	"propcare/internal/repository"

	"github.com/google/uuid"
)

type TenantRepo struct {
	mu   sync.RWMutex
	byID map[string]models.Tenant
}

func NewTenantRepo() *TenantRepo {
	return &TenantRepo{byID: map[string]models.Tenant{}}
}

var _ repository.TenantRepository = (*TenantRepo)(nil)

// emailTaken must be called with mu held.
func (r *TenantRepo) emailTaken(email, exceptID string) bool {
	for id, t := range r.byID {
		if id != exceptID && strings.EqualFold(t.Email, email) {
			return true
		}
	}
	return false
}

func (r *TenantRepo) Create(_ context.Context, t *models.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(t.Email, "") {
		return repository.ErrDuplicate
	}
	now := time.Now()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	stored := *t
	stored.Property = nil
	r.byID[t.ID] = stored
	return nil
}

func (r *TenantRepo) Get(_ context.Context, id string) (*models.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TenantRepo) ListByProperties(_ context.Context, propertyIDs []string) ([]models.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	in := make(map[string]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		in[id] = struct{}{}
	}
	var out []models.Tenant
	for _, t := range r.byID {
		if _, ok := in[t.PropertyID]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *TenantRepo) CountByProperty(_ context.Context, propertyID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, t := range r.byID {
		if t.PropertyID == propertyID {
			n++
		}
	}
	return n, nil
}

func (r *TenantRepo) Update(_ context.Context, t *models.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(t.Email, t.ID) {
		return repository.ErrDuplicate
	}
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = time.Now()
	stored := *t
	stored.Property = nil
	r.byID[t.ID] = stored
	return nil
}

func (r *TenantRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
