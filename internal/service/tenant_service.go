package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"propcare/internal/models"
	"propcare/internal/policy"
	"propcare/internal/repository"
)

type TenantService struct {
	tenants repository.TenantRepository
	props   repository.PropertyRepository
}

func NewTenantService(tenants repository.TenantRepository, props repository.PropertyRepository) *TenantService {
	return &TenantService{tenants: tenants, props: props}
}

type TenantInput struct {
	PropertyID       *string
	Name             *string
	Email            *string
	Phone            *string
	Unit             *string
	LeaseStart       *time.Time
	LeaseEnd         *time.Time
	RentAmount       *float64
	Status           *string
	EmergencyContact *models.EmergencyContact
}

func trimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func (in TenantInput) apply(t *models.Tenant) {
	trimmed(&t.PropertyID, in.PropertyID)
	trimmed(&t.Name, in.Name)
	trimmed(&t.Phone, in.Phone)
	trimmed(&t.Unit, in.Unit)
	trimmed(&t.Status, in.Status)
	if in.Email != nil {
		t.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.LeaseStart != nil {
		t.LeaseStart = *in.LeaseStart
	}
	if in.LeaseEnd != nil {
		t.LeaseEnd = *in.LeaseEnd
	}
	if in.RentAmount != nil {
		t.RentAmount = *in.RentAmount
	}
	if ec := in.EmergencyContact; ec != nil {
		t.EmergencyContact = models.EmergencyContact{
			Name:         strings.TrimSpace(ec.Name),
			Phone:        strings.TrimSpace(ec.Phone),
			Relationship: strings.TrimSpace(ec.Relationship),
		}
	}
}

func validateTenant(t *models.Tenant) error {
	v := validator{}
	v.check(t.PropertyID != "", "property", "please add a property")
	v.check(t.Name != "", "name", "please add a name")
	v.check(emailRe.MatchString(t.Email), "email", "please add a valid email")
	v.check(t.Phone != "", "phone", "please add a phone number")
	v.check(t.Unit != "", "unit", "please add a unit number")
	v.check(!t.LeaseStart.IsZero(), "leaseStart", "please add lease start date")
	v.check(!t.LeaseEnd.IsZero(), "leaseEnd", "please add lease end date")
	if !t.LeaseStart.IsZero() && !t.LeaseEnd.IsZero() {
		v.check(t.LeaseStart.Before(t.LeaseEnd), "leaseEnd", "lease end must be after lease start")
	}
	v.check(t.RentAmount >= 0, "rentAmount", "rent amount cannot be negative")
	v.check(oneOf(t.Status, models.StatusActive, models.TenantPending, models.StatusInactive), "status", "status must be active, pending or inactive")
	v.check(t.EmergencyContact.Name != "", "emergencyContact.name", "please add emergency contact name")
	v.check(t.EmergencyContact.Phone != "", "emergencyContact.phone", "please add emergency contact phone")
	v.check(t.EmergencyContact.Relationship != "", "emergencyContact.relationship", "please add emergency contact relationship")
	return v.err()
}

// ownedProperty resolves a tenant's property and checks the actor owns it.
func (s *TenantService) ownedProperty(ctx context.Context, a policy.Actor, propertyID, action string) (*models.Property, error) {
	p, err := s.props.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("property")
	}
	if !policy.For(a).CanManageProperty(a, p.Owner) {
		return nil, forbidden(action)
	}
	return p, nil
}

func (s *TenantService) loadOwned(ctx context.Context, a policy.Actor, id, action string) (*models.Tenant, *models.Property, error) {
	t, err := s.tenants.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, notFound("tenant")
	}
	p, err := s.ownedProperty(ctx, a, t.PropertyID, action+" this tenant")
	if errors.Is(err, ErrNotFound) {
		// Dangling tenant: nobody owns it any more.
		return nil, nil, forbidden(action + " this tenant")
	}
	if err != nil {
		return nil, nil, err
	}
	return t, p, nil
}

// List returns tenants on the actor's properties, optionally narrowed to one.
func (s *TenantService) List(ctx context.Context, a policy.Actor, propertyID string) ([]models.Tenant, error) {
	if !a.IsManager() || policy.For(a).ListScope() == policy.ScopeNone {
		return nil, forbidden("list tenants")
	}
	props, err := s.props.ListByOwner(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Property, len(props))
	ids := make([]string, 0, len(props))
	for _, p := range props {
		if propertyID != "" && p.ID != propertyID {
			continue
		}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	if propertyID != "" && len(ids) == 0 {
		if _, err := s.ownedProperty(ctx, a, propertyID, "list tenants of this property"); err != nil {
			return nil, err
		}
	}

	out := []models.Tenant{}
	if len(ids) == 0 {
		return out, nil
	}
	items, err := s.tenants.ListByProperties(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range items {
		p := byID[t.PropertyID]
		t.Property = p.Summary()
		out = append(out, t)
	}
	return out, nil
}

func (s *TenantService) Get(ctx context.Context, a policy.Actor, id string) (*models.Tenant, error) {
	t, p, err := s.loadOwned(ctx, a, id, "access")
	if err != nil {
		return nil, err
	}
	t.Property = p.Summary()
	return t, nil
}

func (s *TenantService) Create(ctx context.Context, a policy.Actor, in TenantInput) (*models.Tenant, error) {
	t := &models.Tenant{Status: models.StatusActive}
	in.apply(t)
	if err := validateTenant(t); err != nil {
		return nil, err
	}
	p, err := s.ownedProperty(ctx, a, t.PropertyID, "add tenants to this property")
	if err != nil {
		return nil, err
	}
	if err := s.tenants.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("tenant email already exists")
		}
		return nil, err
	}
	t.Property = p.Summary()
	return t, nil
}

// Update re-checks ownership of the current property and, when the tenant
// moves, of the destination property as well.
func (s *TenantService) Update(ctx context.Context, a policy.Actor, id string, in TenantInput) (*models.Tenant, error) {
	t, p, err := s.loadOwned(ctx, a, id, "update")
	if err != nil {
		return nil, err
	}
	in.apply(t)
	if err := validateTenant(t); err != nil {
		return nil, err
	}
	if t.PropertyID != p.ID {
		if p, err = s.ownedProperty(ctx, a, t.PropertyID, "move tenants to this property"); err != nil {
			return nil, err
		}
	}
	if err := s.tenants.Update(ctx, t); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, conflict("tenant email already exists")
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("tenant")
		}
		return nil, err
	}
	t.Property = p.Summary()
	return t, nil
}

func (s *TenantService) Delete(ctx context.Context, a policy.Actor, id string) error {
	t, _, err := s.loadOwned(ctx, a, id, "delete")
	if err != nil {
		return err
	}
	if err := s.tenants.Delete(ctx, t.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("tenant")
		}
		return err
	}
	return nil
}
