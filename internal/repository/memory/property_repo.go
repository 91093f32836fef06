package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"propcare/internal/models"
	"propcare/internal/repository"

	"github.com/google/uuid"
)

type PropertyRepo struct {
	mu   sync.RWMutex
	byID map[string]models.Property
}

func NewPropertyRepo() *PropertyRepo {
	return &PropertyRepo{byID: map[string]models.Property{}}
}

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

func (r *PropertyRepo) Create(_ context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now
	r.byID[p.ID] = *p
	return nil
}

func (r *PropertyRepo) Get(_ context.Context, id string) (*models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PropertyRepo) GetMany(_ context.Context, ids []string) (map[string]models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]models.Property, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *PropertyRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Property
	for _, p := range r.byID {
		if p.Owner == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *PropertyRepo) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	items, _ := r.ListByOwner(ctx, ownerID)
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (r *PropertyRepo) Update(_ context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Owner = cur.Owner
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = time.Now()
	r.byID[p.ID] = *p
	return nil
}

func (r *PropertyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
