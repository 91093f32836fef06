package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"propcare/internal/imagestore"
	"propcare/internal/models"
	"propcare/internal/policy"
	"propcare/internal/repository"
)

// TicketService runs the ticket workflow. Every operation takes the acting
// identity explicitly and consults policy.For(actor) before touching storage.
type TicketService struct {
	tickets repository.TicketRepository
	props   repository.PropertyRepository
	users   repository.UserRepository
	images  imagestore.Store
	log     zerolog.Logger
}

func NewTicketService(
	tickets repository.TicketRepository,
	props repository.PropertyRepository,
	users repository.UserRepository,
	images imagestore.Store,
	log zerolog.Logger,
) *TicketService {
	return &TicketService{tickets: tickets, props: props, users: users, images: images, log: log}
}

// TicketQuery holds the caller-controlled list filters. Scope is never taken
// from here; it comes from the actor.
type TicketQuery struct {
	Q        string
	Status   string
	Priority string
	Assignee string // managers only
	Sort     string
	Order    string
	Limit    int
	Offset   int
}

type CreateTicketInput struct {
	PropertyID  string
	Title       string
	Description string
	Priority    string
	AssignedTo  string
}

// TicketPatch is a partial update; nil fields are left alone and an empty
// AssignedTo unassigns.
type TicketPatch struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	AssignedTo  *string
}

type TicketSummary struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Open       int `json:"open"`
	HighOpen   int `json:"highPriorityOpen"`
}

// scope turns the actor into repository restrictions. Managers are resolved
// through the set of properties they own; tickets carry no owner of their own.
func (s *TicketService) scope(ctx context.Context, a policy.Actor) (repository.TicketFilter, error) {
	var f repository.TicketFilter
	switch policy.For(a).ListScope() {
	case policy.ScopeAssigned:
		f.AssignedTo = a.ID
	case policy.ScopeOwnedProperty:
		ids, err := s.props.IDsByOwner(ctx, a.ID)
		if err != nil {
			return f, err
		}
		if ids == nil {
			ids = []string{}
		}
		f.PropertyIDs = ids
	default:
		return f, forbidden("list tickets")
	}
	return f, nil
}

func (s *TicketService) List(ctx context.Context, a policy.Actor, q TicketQuery) ([]models.Ticket, int, error) {
	f, err := s.scope(ctx, a)
	if err != nil {
		return nil, 0, err
	}
	if f.AssignedTo == "" {
		f.AssignedTo = strings.TrimSpace(q.Assignee)
	}
	f.Q, f.Status, f.Priority = q.Q, q.Status, q.Priority
	f.Sort, f.Order, f.Limit, f.Offset = q.Sort, q.Order, q.Limit, q.Offset

	items, err := s.tickets.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tickets.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []models.Ticket{}
	}
	if err := s.populate(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *TicketService) Summary(ctx context.Context, a policy.Actor) (TicketSummary, error) {
	f, err := s.scope(ctx, a)
	if err != nil {
		return TicketSummary{}, err
	}
	counts, err := s.tickets.CountByStatus(ctx, f)
	if err != nil {
		return TicketSummary{}, err
	}
	sum := TicketSummary{
		New:        counts[models.TicketNew],
		InProgress: counts[models.TicketInProgress],
		Completed:  counts[models.TicketCompleted],
		HighOpen:   counts["high"],
	}
	sum.Open = sum.New + sum.InProgress
	sum.Total = sum.Open + sum.Completed
	return sum, nil
}

// ref resolves the transitive owner of t.
func (s *TicketService) ref(ctx context.Context, t *models.Ticket) (policy.TicketRef, error) {
	r := policy.TicketRef{AssignedTo: t.AssignedTo}
	p, err := s.props.Get(ctx, t.PropertyID)
	if err != nil {
		return r, err
	}
	if p != nil {
		r.PropertyOwner = p.Owner
	}
	return r, nil
}

// loadVisible returns NotFound for a missing ticket and Forbidden for one the
// actor cannot see.
func (s *TicketService) loadVisible(ctx context.Context, a policy.Actor, id, action string) (*models.Ticket, policy.TicketRef, error) {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, policy.TicketRef{}, err
	}
	if t == nil {
		return nil, policy.TicketRef{}, notFound("ticket")
	}
	ref, err := s.ref(ctx, t)
	if err != nil {
		return nil, ref, err
	}
	if !policy.For(a).CanView(a, ref) {
		return nil, ref, forbidden(action + " this ticket")
	}
	return t, ref, nil
}

func (s *TicketService) Get(ctx context.Context, a policy.Actor, id string) (*models.Ticket, error) {
	t, _, err := s.loadVisible(ctx, a, id, "access")
	if err != nil {
		return nil, err
	}
	return s.populated(ctx, t)
}

func (s *TicketService) checkAssignee(ctx context.Context, id string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsActiveStaff() {
		return ErrInvalidAssignment
	}
	return nil
}

func validateTicket(t *models.Ticket) error {
	v := validator{}
	v.check(t.Title != "", "title", "please add a ticket title")
	v.check(len(t.Title) <= 100, "title", "title cannot be more than 100 characters")
	v.check(t.Description != "", "description", "please add a description")
	v.check(oneOf(t.Status, models.TicketNew, models.TicketInProgress, models.TicketCompleted),
		"status", "status must be new, inProgress or completed")
	v.check(oneOf(t.Priority, models.PriorityLow, models.PriorityMedium, models.PriorityHigh),
		"priority", "priority must be low, medium or high")
	return v.err()
}

func (s *TicketService) Create(ctx context.Context, a policy.Actor, in CreateTicketInput) (*models.Ticket, error) {
	t := &models.Ticket{
		PropertyID:  strings.TrimSpace(in.PropertyID),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Priority:    strings.TrimSpace(in.Priority),
		AssignedTo:  strings.TrimSpace(in.AssignedTo),
		Status:      models.TicketNew,
		CreatedBy:   a.ID,
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.PropertyID == "" {
		return nil, &ValidationError{Fields: map[string]string{"property": "please add a property"}}
	}
	if err := validateTicket(t); err != nil {
		return nil, err
	}

	p, err := s.props.Get(ctx, t.PropertyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("property")
	}
	pol := policy.For(a)
	if !pol.CanCreate(a, p.Owner) {
		return nil, forbidden("file tickets on this property")
	}

	// Creators who may not assign keep the ticket for themselves.
	if !pol.EditableFields(a, policy.TicketRef{PropertyOwner: p.Owner, AssignedTo: a.ID}).Has(policy.FieldAssignedTo) {
		if t.AssignedTo != "" && t.AssignedTo != a.ID {
			return nil, forbidden("assign tickets")
		}
		t.AssignedTo = a.ID
	} else if t.AssignedTo != "" {
		if err := s.checkAssignee(ctx, t.AssignedTo); err != nil {
			return nil, err
		}
	}

	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.populated(ctx, t)
}

func (s *TicketService) Update(ctx context.Context, a policy.Actor, id string, patch TicketPatch) (*models.Ticket, error) {
	t, ref, err := s.loadVisible(ctx, a, id, "update")
	if err != nil {
		return nil, err
	}

	allowed := policy.For(a).EditableFields(a, ref)
	requested := []struct {
		field policy.Field
		val   *string
		dst   *string
	}{
		{policy.FieldTitle, patch.Title, &t.Title},
		{policy.FieldDescription, patch.Description, &t.Description},
		{policy.FieldPriority, patch.Priority, &t.Priority},
		{policy.FieldStatus, patch.Status, &t.Status},
		{policy.FieldAssignedTo, patch.AssignedTo, &t.AssignedTo},
	}
	for _, r := range requested {
		if r.val != nil && !allowed.Has(r.field) {
			return nil, forbidden("change " + string(r.field) + " on this ticket")
		}
	}

	prevAssignee := t.AssignedTo
	for _, r := range requested {
		if r.val != nil {
			*r.dst = strings.TrimSpace(*r.val)
		}
	}
	if err := validateTicket(t); err != nil {
		return nil, err
	}
	if t.AssignedTo != "" && t.AssignedTo != prevAssignee {
		if err := s.checkAssignee(ctx, t.AssignedTo); err != nil {
			return nil, err
		}
	}

	if err := s.tickets.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("ticket")
		}
		return nil, err
	}
	return s.populated(ctx, t)
}

// AddComment appends one comment attributed to the actor and returns the
// ticket with every comment author resolved.
func (s *TicketService) AddComment(ctx context.Context, a policy.Actor, id, text string) (*models.Ticket, error) {
	t, ref, err := s.loadVisible(ctx, a, id, "comment on")
	if err != nil {
		return nil, err
	}
	if !policy.For(a).CanComment(a, ref) {
		return nil, forbidden("comment on this ticket")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Fields: map[string]string{"text": "comment text is required"}}
	}

	c := &models.Comment{Text: text, CreatedBy: a.ID}
	if err := s.tickets.AddComment(ctx, t.ID, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("ticket")
		}
		return nil, err
	}

	fresh, err := s.tickets.Get(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, notFound("ticket")
	}
	return s.populated(ctx, fresh)
}

func (s *TicketService) Delete(ctx context.Context, a policy.Actor, id string) error {
	t, ref, err := s.loadVisible(ctx, a, id, "delete")
	if err != nil {
		return err
	}
	if !policy.For(a).CanDelete(a, ref) {
		return forbidden("delete this ticket")
	}
	if err := s.tickets.Delete(ctx, t.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("ticket")
		}
		return err
	}
	dropImage(ctx, s.images, s.log, t.ImageURL, "ticket", t.ID)
	return nil
}

func (s *TicketService) SetImage(ctx context.Context, a policy.Actor, id, filename string, r io.Reader) (*models.Ticket, error) {
	t, ref, err := s.loadVisible(ctx, a, id, "update")
	if err != nil {
		return nil, err
	}
	if !policy.For(a).EditableFields(a, ref).Has(policy.FieldImage) {
		return nil, forbidden("change image on this ticket")
	}
	url, err := saveImage(ctx, s.images, filename, r)
	if err != nil {
		return nil, err
	}
	old := t.ImageURL
	t.ImageURL = url
	if err := s.tickets.Update(ctx, t); err != nil {
		dropImage(ctx, s.images, s.log, url, "ticket", t.ID)
		return nil, err
	}
	dropImage(ctx, s.images, s.log, old, "ticket", t.ID)
	return s.populated(ctx, t)
}

func (s *TicketService) populated(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	one := []models.Ticket{*t}
	if err := s.populate(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// populate fills property summaries and user names in place with one batch
// lookup per collection.
func (s *TicketService) populate(ctx context.Context, items []models.Ticket) error {
	if len(items) == 0 {
		return nil
	}
	propIDs := make([]string, 0, len(items))
	userSet := map[string]struct{}{}
	for _, t := range items {
		propIDs = append(propIDs, t.PropertyID)
		userSet[t.CreatedBy] = struct{}{}
		if t.AssignedTo != "" {
			userSet[t.AssignedTo] = struct{}{}
		}
		for _, c := range t.Comments {
			userSet[c.CreatedBy] = struct{}{}
		}
	}
	userIDs := make([]string, 0, len(userSet))
	for id := range userSet {
		userIDs = append(userIDs, id)
	}

	props, err := s.props.GetMany(ctx, propIDs)
	if err != nil {
		return err
	}
	names, err := s.users.Names(ctx, userIDs)
	if err != nil {
		return err
	}

	for i := range items {
		t := &items[i]
		if p, ok := props[t.PropertyID]; ok {
			t.Property = p.Summary()
		}
		t.CreatedByName = names[t.CreatedBy]
		t.AssignedToName = names[t.AssignedTo]
		if t.Comments == nil {
			t.Comments = []models.Comment{}
		}
		for j := range t.Comments {
			t.Comments[j].CreatedByName = names[t.Comments[j].CreatedBy]
		}
	}
	return nil
}
