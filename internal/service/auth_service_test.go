package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propcare/internal/models"
	"propcare/internal/policy"
)

func TestRegisterDefaultsAndDuplicates(t *testing.T) {
	w := newWorld(t)

	u, err := w.auth.Register(w.ctx, RegisterInput{Name: "Dana", Email: " Dana@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, u.Role)
	assert.Equal(t, models.StatusActive, u.Status)
	assert.Equal(t, "dana@example.com", u.Email)

	_, err = w.auth.Register(w.ctx, RegisterInput{Name: "Dana 2", Email: "dana@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = w.auth.Register(w.ctx, RegisterInput{Name: "", Email: "bad", Password: "123", Role: "admin", Phone: "12"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 5)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	w := newWorld(t)

	token, u, err := w.auth.Login(w.ctx, "ALICE@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, w.alice.ID, u.ID)
	assert.NotNil(t, u.LastLogin)

	a, err := w.auth.Actor(token)
	require.NoError(t, err)
	assert.Equal(t, policy.Actor{ID: w.alice.ID, Role: models.RoleStaff, Status: models.StatusActive}, a)

	_, err = w.auth.Actor(token + "x")
	assert.Error(t, err)
}

func TestLoginRejects(t *testing.T) {
	w := newWorld(t)

	_, _, err := w.auth.Login(w.ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = w.auth.Login(w.ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = w.auth.Login(w.ctx, "carol@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "inactive users cannot log in")
}

func TestMaintenanceStaff(t *testing.T) {
	w := newWorld(t)

	staff, err := w.userSvc.MaintenanceStaff(w.ctx, w.m1)
	require.NoError(t, err)
	var names []string
	for _, u := range staff {
		names = append(names, u.Name)
	}
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, names)

	_, err = w.userSvc.MaintenanceStaff(w.ctx, w.alice)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestProfileAndPassword(t *testing.T) {
	w := newWorld(t)

	u, err := w.userSvc.UpdateProfile(w.ctx, w.alice, w.alice.ID, "Alice Smith", "5550001111")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", u.Name)
	assert.Equal(t, "5550001111", u.Phone)

	_, err = w.userSvc.UpdateProfile(w.ctx, w.alice, w.bob.ID, "Bob?", "")
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, w.userSvc.ChangePassword(w.ctx, w.alice, w.alice.ID, "wrong", "newsecret"), ErrInvalidCredentials)
	require.NoError(t, w.userSvc.ChangePassword(w.ctx, w.alice, w.alice.ID, "secret123", "newsecret"))

	_, _, err = w.auth.Login(w.ctx, "alice@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestSetStatusDeactivatesAssignee(t *testing.T) {
	w := newWorld(t)

	_, err := w.userSvc.SetStatus(w.ctx, w.bob.ID, "gone")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	u, err := w.userSvc.SetStatus(w.ctx, w.bob.ID, models.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, u.Status)

	_, err = w.ticketSvc.Create(w.ctx, w.m1, CreateTicketInput{
		PropertyID: w.p1.ID, Title: "x", Description: "y", AssignedTo: w.bob.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidAssignment)
}
