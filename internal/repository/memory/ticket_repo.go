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

type TicketRepo struct {
	mu   sync.RWMutex
	byID map[string]models.Ticket
}

func NewTicketRepo() *TicketRepo {
	return &TicketRepo{byID: map[string]models.Ticket{}}
}

var _ repository.TicketRepository = (*TicketRepo)(nil)

// clone detaches the comment slice and drops populated fields.
func clone(t models.Ticket) models.Ticket {
	t.Property = nil
	t.CreatedByName, t.AssignedToName = "", ""
	comments := make([]models.Comment, len(t.Comments))
	for i, c := range t.Comments {
		c.CreatedByName = ""
		comments[i] = c
	}
	t.Comments = comments
	return t
}

func matches(t models.Ticket, f repository.TicketFilter, props map[string]struct{}) bool {
	if props != nil {
		if _, ok := props[t.PropertyID]; !ok {
			return false
		}
	}
	if a := strings.TrimSpace(f.AssignedTo); a != "" && t.AssignedTo != a {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Q)); q != "" &&
		!strings.Contains(strings.ToLower(t.Title), q) &&
		!strings.Contains(strings.ToLower(t.Description), q) {
		return false
	}
	if s := strings.TrimSpace(f.Status); s != "" && t.Status != s {
		return false
	}
	if p := strings.TrimSpace(f.Priority); p != "" && t.Priority != p {
		return false
	}
	return true
}

func (r *TicketRepo) filter(f repository.TicketFilter) []models.Ticket {
	var props map[string]struct{}
	if f.PropertyIDs != nil {
		props = make(map[string]struct{}, len(f.PropertyIDs))
		for _, id := range f.PropertyIDs {
			props[id] = struct{}{}
		}
	}
	var out []models.Ticket
	for _, t := range r.byID {
		if matches(t, f, props) {
			out = append(out, clone(t))
		}
	}
	return out
}

func (r *TicketRepo) List(_ context.Context, f repository.TicketFilter) ([]models.Ticket, error) {
	f = f.Normalize()
	r.mu.RLock()
	items := r.filter(f)
	r.mu.RUnlock()

	asc := strings.EqualFold(strings.TrimSpace(f.Order), "asc")
	less := func(a, b models.Ticket) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	switch strings.ToLower(strings.TrimSpace(f.Sort)) {
	case "created_at":
		less = func(a, b models.Ticket) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "priority":
		less = func(a, b models.Ticket) bool { return a.Priority < b.Priority }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if asc {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})

	if f.Offset >= len(items) {
		return nil, nil
	}
	end := f.Offset + f.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[f.Offset:end], nil
}

func (r *TicketRepo) Count(_ context.Context, f repository.TicketFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.filter(f)), nil
}

func (r *TicketRepo) CountByStatus(_ context.Context, f repository.TicketFilter) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[string]int{}
	for _, t := range r.filter(f) {
		out[t.Status]++
		if t.Priority == models.PriorityHigh && t.Status != models.TicketCompleted {
			out["high"]++
		}
	}
	return out, nil
}

func (r *TicketRepo) CountByProperty(_ context.Context, propertyID string) (int, error) {
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

func (r *TicketRepo) Get(_ context.Context, id string) (*models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := clone(t)
	return &c, nil
}

func (r *TicketRepo) Create(_ context.Context, t *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	if t.Comments == nil {
		t.Comments = []models.Comment{}
	}
	r.byID[t.ID] = clone(*t)
	return nil
}

// Update keeps the stored comment list, mirroring the column-scoped SQL update.
func (r *TicketRepo) Update(_ context.Context, t *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	t.UpdatedAt = time.Now()
	cur.Title = t.Title
	cur.Description = t.Description
	cur.ImageURL = t.ImageURL
	cur.Status = t.Status
	cur.Priority = t.Priority
	cur.AssignedTo = t.AssignedTo
	cur.UpdatedAt = t.UpdatedAt
	r.byID[t.ID] = cur
	return nil
}

func (r *TicketRepo) AddComment(_ context.Context, ticketID string, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[ticketID]
	if !ok {
		return repository.ErrNotFound
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	stored := *c
	stored.CreatedByName = ""
	cur.Comments = append(cur.Comments, stored)
	cur.UpdatedAt = time.Now()
	r.byID[ticketID] = cur
	return nil
}

func (r *TicketRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
