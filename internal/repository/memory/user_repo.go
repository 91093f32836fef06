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

type userRecord struct {
	user models.User
	hash string
}

type UserRepo struct {
	mu    sync.RWMutex
	byID  map[string]*userRecord
	email map[string]string
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: map[string]*userRecord{}, email: map[string]string{}}
}

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *models.User, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := r.email[key]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	r.byID[u.ID] = &userRecord{user: *u, hash: passwordHash}
	r.email[key] = u.ID
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.email[strings.ToLower(email)]
	if !ok {
		return nil, "", nil
	}
	rec := r.byID[id]
	u := rec.user
	return &u, rec.hash, nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	u := rec.user
	return &u, nil
}

func (r *UserRepo) PasswordHash(_ context.Context, id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return rec.hash, nil
}

func (r *UserRepo) Names(_ context.Context, ids []string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if rec, ok := r.byID[id]; ok {
			out[id] = rec.user.Name
		}
	}
	return out, nil
}

func (r *UserRepo) ListByRole(_ context.Context, role, status string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.User
	for _, rec := range r.byID {
		if rec.user.Role != role || (status != "" && rec.user.Status != status) {
			continue
		}
		out = append(out, rec.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *UserRepo) mutate(id string, fn func(rec *userRecord)) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fn(rec)
	rec.user.UpdatedAt = time.Now()
	u := rec.user
	return &u, nil
}

func (r *UserRepo) UpdateBasic(_ context.Context, id, name, phone string) (*models.User, error) {
	return r.mutate(id, func(rec *userRecord) {
		rec.user.Name = name
		rec.user.Phone = phone
	})
}

func (r *UserRepo) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	_, err := r.mutate(id, func(rec *userRecord) { rec.hash = passwordHash })
	return err
}

func (r *UserRepo) SetStatus(_ context.Context, id, status string) (*models.User, error) {
	return r.mutate(id, func(rec *userRecord) { rec.user.Status = status })
}

func (r *UserRepo) TouchLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	rec.user.LastLogin = &now
	return nil
}
