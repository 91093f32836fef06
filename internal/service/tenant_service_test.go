package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propcare/internal/models"
	"propcare/internal/policy"
)

func tenantInput(propertyID, email string) TenantInput {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return TenantInput{
		PropertyID: ptr(propertyID),
		Name:       ptr("Ann Renter"),
		Email:      ptr(email),
		Phone:      ptr("5551234567"),
		Unit:       ptr("4B"),
		LeaseStart: &start,
		LeaseEnd:   &end,
		RentAmount: ptr(1450.0),
		EmergencyContact: &models.EmergencyContact{
			Name: "Sam Renter", Phone: "5557654321", Relationship: "sibling",
		},
	}
}

func (w *world) tenant(t *testing.T, by policy.Actor, propertyID, email string) *models.Tenant {
	t.Helper()
	tn, err := w.tenantSvc.Create(w.ctx, by, tenantInput(propertyID, email))
	require.NoError(t, err)
	return tn
}

func TestCreateTenant(t *testing.T) {
	w := newWorld(t)
	tn := w.tenant(t, w.m1, w.p1.ID, "Ann@Example.com")
	assert.Equal(t, "ann@example.com", tn.Email)
	assert.Equal(t, models.StatusActive, tn.Status)
	require.NotNil(t, tn.Property)
	assert.Equal(t, "Elm Court", tn.Property.Name)

	_, err := w.tenantSvc.Create(w.ctx, w.m2, tenantInput(w.p1.ID, "bo@example.com"))
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = w.tenantSvc.Create(w.ctx, w.m1, tenantInput("missing", "bo@example.com"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = w.tenantSvc.Create(w.ctx, w.m1, tenantInput(w.p1.ID, "ann@example.com"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateTenantValidation(t *testing.T) {
	w := newWorld(t)
	in := tenantInput(w.p1.ID, "not-an-email")
	in.LeaseEnd = ptr(in.LeaseStart.AddDate(0, 0, -1))
	in.RentAmount = ptr(-1.0)
	in.EmergencyContact = &models.EmergencyContact{Name: "Sam"}

	_, err := w.tenantSvc.Create(w.ctx, w.m1, in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	for _, f := range []string{"email", "leaseEnd", "rentAmount", "emergencyContact.phone", "emergencyContact.relationship"} {
		assert.Contains(t, ve.Fields, f)
	}
}

func TestTenantScoping(t *testing.T) {
	w := newWorld(t)
	mine := w.tenant(t, w.m1, w.p1.ID, "ann@example.com")
	theirs := w.tenant(t, w.m2, w.p2.ID, "bo@example.com")

	items, err := w.tenantSvc.List(w.ctx, w.m1, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID, items[0].ID)

	_, err = w.tenantSvc.List(w.ctx, w.m1, w.p2.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = w.tenantSvc.List(w.ctx, w.alice, "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = w.tenantSvc.Get(w.ctx, w.m1, theirs.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = w.tenantSvc.Update(w.ctx, w.m1, theirs.ID, TenantInput{Unit: ptr("9Z")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, w.tenantSvc.Delete(w.ctx, w.m1, theirs.ID), ErrForbidden)
	_, err = w.tenantSvc.Get(w.ctx, w.m1, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveTenantRechecksOwnership(t *testing.T) {
	w := newWorld(t)
	tn := w.tenant(t, w.m1, w.p1.ID, "ann@example.com")

	_, err := w.tenantSvc.Update(w.ctx, w.m1, tn.ID, TenantInput{PropertyID: ptr(w.p2.ID)})
	assert.ErrorIs(t, err, ErrForbidden)

	stored, err := w.tenants.Get(w.ctx, tn.ID)
	require.NoError(t, err)
	assert.Equal(t, w.p1.ID, stored.PropertyID)

	p3 := w.property(t, w.m1, "Birch House")
	moved, err := w.tenantSvc.Update(w.ctx, w.m1, tn.ID, TenantInput{PropertyID: ptr(p3.ID), Status: ptr(models.TenantPending)})
	require.NoError(t, err)
	assert.Equal(t, p3.ID, moved.PropertyID)
	assert.Equal(t, "Birch House", moved.Property.Name)
	assert.Equal(t, models.TenantPending, moved.Status)
}
