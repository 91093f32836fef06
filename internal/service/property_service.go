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

type PropertyService struct {
	props   repository.PropertyRepository
	tenants repository.TenantRepository
	tickets repository.TicketRepository
	images  imagestore.Store
	log     zerolog.Logger
}

func NewPropertyService(
	props repository.PropertyRepository,
	tenants repository.TenantRepository,
	tickets repository.TicketRepository,
	images imagestore.Store,
	log zerolog.Logger,
) *PropertyService {
	return &PropertyService{props: props, tenants: tenants, tickets: tickets, images: images, log: log}
}

// PropertyInput carries create and update payloads; nil means "not supplied".
type PropertyInput struct {
	Name    *string
	Address *models.Address
	Type    *string
	Size    *float64
	Status  *string
}

func (in PropertyInput) apply(p *models.Property) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		p.Address = models.Address{
			Street:  strings.TrimSpace(in.Address.Street),
			City:    strings.TrimSpace(in.Address.City),
			State:   strings.TrimSpace(in.Address.State),
			ZipCode: strings.TrimSpace(in.Address.ZipCode),
		}
	}
	if in.Type != nil {
		p.Type = strings.TrimSpace(*in.Type)
	}
	if in.Size != nil {
		p.Size = *in.Size
	}
	if in.Status != nil {
		p.Status = strings.TrimSpace(*in.Status)
	}
}

func validateProperty(p *models.Property) error {
	v := validator{}
	v.check(p.Name != "", "name", "please add a property name")
	v.check(len(p.Name) <= 100, "name", "name cannot be more than 100 characters")
	v.check(p.Address.Street != "", "address.street", "please add a street address")
	v.check(p.Address.City != "", "address.city", "please add a city")
	v.check(p.Address.State != "", "address.state", "please add a state")
	v.check(p.Address.ZipCode != "", "address.zipCode", "please add a zip code")
	v.check(oneOf(p.Type, models.PropertyResidential, models.PropertyCommercial), "type", "type must be residential or commercial")
	v.check(p.Size > 0, "size", "size must be greater than zero")
	v.check(oneOf(p.Status, models.StatusActive, models.StatusInactive), "status", "status must be active or inactive")
	return v.err()
}

// loadOwned fetches a property and checks the actor may manage it.
func (s *PropertyService) loadOwned(ctx context.Context, a policy.Actor, id, action string) (*models.Property, error) {
	p, err := s.props.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("property")
	}
	if !policy.For(a).CanManageProperty(a, p.Owner) {
		return nil, forbidden(action + " this property")
	}
	return p, nil
}

func (s *PropertyService) List(ctx context.Context, a policy.Actor) ([]models.Property, error) {
	if !a.IsManager() || policy.For(a).ListScope() == policy.ScopeNone {
		return nil, forbidden("list properties")
	}
	items, err := s.props.ListByOwner(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Property{}
	}
	return items, nil
}

func (s *PropertyService) Get(ctx context.Context, a policy.Actor, id string) (*models.Property, error) {
	return s.loadOwned(ctx, a, id, "access")
}

// Create stamps the acting manager as owner whatever the payload says.
func (s *PropertyService) Create(ctx context.Context, a policy.Actor, in PropertyInput) (*models.Property, error) {
	if !policy.For(a).CanManageProperty(a, a.ID) {
		return nil, forbidden("create properties")
	}
	p := &models.Property{Status: models.StatusActive}
	in.apply(p)
	p.Owner = a.ID
	if err := validateProperty(p); err != nil {
		return nil, err
	}
	if err := s.props.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("duplicate property")
		}
		return nil, err
	}
	return p, nil
}

func (s *PropertyService) Update(ctx context.Context, a policy.Actor, id string, in PropertyInput) (*models.Property, error) {
	p, err := s.loadOwned(ctx, a, id, "update")
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := validateProperty(p); err != nil {
		return nil, err
	}
	if err := s.props.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("property")
		}
		return nil, err
	}
	return p, nil
}

// Delete refuses while tickets or tenants still point at the property.
func (s *PropertyService) Delete(ctx context.Context, a policy.Actor, id string) error {
	p, err := s.loadOwned(ctx, a, id, "delete")
	if err != nil {
		return err
	}
	nTickets, err := s.tickets.CountByProperty(ctx, p.ID)
	if err != nil {
		return err
	}
	nTenants, err := s.tenants.CountByProperty(ctx, p.ID)
	if err != nil {
		return err
	}
	if nTickets > 0 || nTenants > 0 {
		return conflict("property still has tickets or tenants")
	}

	if err := s.props.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("property")
		}
		return err
	}
	s.dropImage(ctx, p.ImageURL, "property", p.ID)
	return nil
}

// SetImage stores a new image and replaces the previous one.
func (s *PropertyService) SetImage(ctx context.Context, a policy.Actor, id, filename string, r io.Reader) (*models.Property, error) {
	p, err := s.loadOwned(ctx, a, id, "update")
	if err != nil {
		return nil, err
	}
	ref, err := saveImage(ctx, s.images, filename, r)
	if err != nil {
		return nil, err
	}
	old := p.ImageURL
	p.ImageURL = ref
	if err := s.props.Update(ctx, p); err != nil {
		s.dropImage(ctx, ref, "property", p.ID)
		return nil, err
	}
	s.dropImage(ctx, old, "property", p.ID)
	return p, nil
}

func (s *PropertyService) dropImage(ctx context.Context, ref, kind, id string) {
	dropImage(ctx, s.images, s.log, ref, kind, id)
}

// saveImage maps image store rejections to validation errors.
func saveImage(ctx context.Context, store imagestore.Store, filename string, r io.Reader) (string, error) {
	ref, err := store.Save(ctx, filename, r)
	if errors.Is(err, imagestore.ErrUnsupportedType) || errors.Is(err, imagestore.ErrTooLarge) {
		return "", &ValidationError{Fields: map[string]string{"image": err.Error()}}
	}
	return ref, err
}

// dropImage deletes ref and only logs failures; the record mutation that
// triggered it has already happened.
func dropImage(ctx context.Context, store imagestore.Store, log zerolog.Logger, ref, kind, id string) {
	if ref == "" {
		return
	}
	if err := store.Delete(ctx, ref); err != nil {
		log.Warn().Err(err).Str(kind, id).Str("image", ref).Msg("image cleanup failed")
	}
}
