package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"propcare/internal/models"
)

var (
	m1    = Actor{ID: "m1", Role: models.RoleManager, Status: models.StatusActive}
	m2    = Actor{ID: "m2", Role: models.RoleManager, Status: models.StatusActive}
	alice = Actor{ID: "alice", Role: models.RoleStaff, Status: models.StatusActive}
	bob   = Actor{ID: "bob", Role: models.RoleStaff, Status: models.StatusActive}
)

func TestManagerSeesOnlyOwnedPropertyTickets(t *testing.T) {
	tk := TicketRef{PropertyOwner: "m1", AssignedTo: "alice"}

	assert.True(t, For(m1).CanView(m1, tk))
	assert.True(t, For(m1).CanDelete(m1, tk))
	assert.True(t, For(m1).CanComment(m1, tk))
	assert.False(t, For(m2).CanView(m2, tk))
	assert.False(t, For(m2).CanDelete(m2, tk))
	assert.Empty(t, For(m2).EditableFields(m2, tk))
	assert.Equal(t, ScopeOwnedProperty, For(m1).ListScope())
}

func TestManagerEditsEveryField(t *testing.T) {
	fields := For(m1).EditableFields(m1, TicketRef{PropertyOwner: "m1"})
	for _, f := range []Field{FieldTitle, FieldDescription, FieldPriority, FieldStatus, FieldAssignedTo, FieldImage} {
		assert.True(t, fields.Has(f), "manager should edit %s", f)
	}
}

func TestStaffStatusOnlyOnAssigned(t *testing.T) {
	tk := TicketRef{PropertyOwner: "m1", AssignedTo: "alice"}

	p := For(alice)
	assert.Equal(t, ScopeAssigned, p.ListScope())
	assert.True(t, p.CanView(alice, tk))
	assert.True(t, p.CanComment(alice, tk))
	assert.False(t, p.CanDelete(alice, tk))

	fields := p.EditableFields(alice, tk)
	assert.True(t, fields.Has(FieldStatus))
	assert.False(t, fields.Has(FieldTitle))
	assert.False(t, fields.Has(FieldAssignedTo))

	assert.False(t, For(bob).CanView(bob, tk))
	assert.False(t, For(bob).CanComment(bob, tk))
	assert.Empty(t, For(bob).EditableFields(bob, tk))
}

func TestStaffUnassignedTicketInvisible(t *testing.T) {
	assert.False(t, For(alice).CanView(alice, TicketRef{PropertyOwner: "m1"}))
}

func TestPropertyManagement(t *testing.T) {
	assert.True(t, For(m1).CanManageProperty(m1, "m1"))
	assert.False(t, For(m2).CanManageProperty(m2, "m1"))
	assert.False(t, For(alice).CanManageProperty(alice, "m1"))
	assert.False(t, For(m1).CanManageProperty(m1, ""))
}

func TestDenyAll(t *testing.T) {
	cases := map[string]Actor{
		"inactive manager": {ID: "m1", Role: models.RoleManager, Status: models.StatusInactive},
		"unknown role":     {ID: "x", Role: "admin", Status: models.StatusActive},
		"anonymous":        {},
	}
	tk := TicketRef{PropertyOwner: "m1", AssignedTo: "x"}
	for name, a := range cases {
		t.Run(name, func(t *testing.T) {
			p := For(a)
			assert.Equal(t, ScopeNone, p.ListScope())
			assert.False(t, p.CanView(a, tk))
			assert.False(t, p.CanCreate(a, "m1"))
			assert.False(t, p.CanManageProperty(a, "m1"))
		})
	}
}
