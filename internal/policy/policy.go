// Package policy decides what an authenticated actor may see and change.
//
// Ticket ownership is transitive: a ticket belongs to whoever owns its
// property, so callers resolve the property owner and hand it in through
// TicketRef. Nothing here touches storage.
package policy

import "propcare/internal/models"

// Actor is the verified identity attached to a request.
type Actor struct {
	ID     string
	Role   string
	Status string
}

func (a Actor) IsManager() bool { return a.Role == models.RoleManager }

// TicketRef carries the fields the rules look at.
type TicketRef struct {
	PropertyOwner string
	AssignedTo    string
}

// Field names a mutable ticket attribute.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldPriority    Field = "priority"
	FieldStatus      Field = "status"
	FieldAssignedTo  Field = "assignedTo"
	FieldImage       Field = "image"
)

type FieldSet map[Field]struct{}

func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

// Scope tells the ticket list how to restrict itself for an actor.
type Scope int

const (
	// ScopeNone sees nothing.
	ScopeNone Scope = iota
	// ScopeOwnedProperty sees tickets on properties the actor owns.
	ScopeOwnedProperty
	// ScopeAssigned sees tickets assigned to the actor.
	ScopeAssigned
)

// Policy is the capability set of one role.
type Policy interface {
	ListScope() Scope
	CanView(a Actor, t TicketRef) bool
	EditableFields(a Actor, t TicketRef) FieldSet
	CanDelete(a Actor, t TicketRef) bool
	CanComment(a Actor, t TicketRef) bool
	// CanCreate reports whether a may file a ticket against a property owned
	// by propertyOwner.
	CanCreate(a Actor, propertyOwner string) bool
	// CanManageProperty covers properties and the tenants hanging off them.
	CanManageProperty(a Actor, propertyOwner string) bool
}

var byRole = map[string]Policy{
	models.RoleManager: managerPolicy{},
	models.RoleStaff:   staffPolicy{},
}

// For returns the policy for a. Unknown roles and inactive actors get a
// policy that denies everything.
func For(a Actor) Policy {
	if a.ID == "" || a.Status == models.StatusInactive {
		return denyAll{}
	}
	if p, ok := byRole[a.Role]; ok {
		return p
	}
	return denyAll{}
}

type managerPolicy struct{}

var managerFields = NewFieldSet(
	FieldTitle, FieldDescription, FieldPriority, FieldStatus, FieldAssignedTo, FieldImage,
)

func (managerPolicy) owns(a Actor, owner string) bool { return owner != "" && owner == a.ID }

func (managerPolicy) ListScope() Scope { return ScopeOwnedProperty }

func (p managerPolicy) CanView(a Actor, t TicketRef) bool { return p.owns(a, t.PropertyOwner) }

func (p managerPolicy) EditableFields(a Actor, t TicketRef) FieldSet {
	if !p.owns(a, t.PropertyOwner) {
		return FieldSet{}
	}
	return managerFields
}

func (p managerPolicy) CanDelete(a Actor, t TicketRef) bool  { return p.owns(a, t.PropertyOwner) }
func (p managerPolicy) CanComment(a Actor, t TicketRef) bool { return p.owns(a, t.PropertyOwner) }

func (p managerPolicy) CanCreate(a Actor, owner string) bool { return p.owns(a, owner) }

func (p managerPolicy) CanManageProperty(a Actor, owner string) bool { return p.owns(a, owner) }

// staffPolicy: assigned tickets only, status-only edits, never deletes.
type staffPolicy struct{}

var staffFields = NewFieldSet(FieldStatus)

func (staffPolicy) assigned(a Actor, t TicketRef) bool {
	return t.AssignedTo != "" && t.AssignedTo == a.ID
}

func (staffPolicy) ListScope() Scope { return ScopeAssigned }

func (p staffPolicy) CanView(a Actor, t TicketRef) bool { return p.assigned(a, t) }

func (p staffPolicy) EditableFields(a Actor, t TicketRef) FieldSet {
	if !p.assigned(a, t) {
		return FieldSet{}
	}
	return staffFields
}

func (staffPolicy) CanDelete(Actor, TicketRef) bool { return false }

func (p staffPolicy) CanComment(a Actor, t TicketRef) bool { return p.assigned(a, t) }

// Staff may report problems on any property; the ticket is assigned to them.
func (staffPolicy) CanCreate(Actor, string) bool { return true }

func (staffPolicy) CanManageProperty(Actor, string) bool { return false }

type denyAll struct{}

func (denyAll) ListScope() Scope                         { return ScopeNone }
func (denyAll) CanView(Actor, TicketRef) bool            { return false }
func (denyAll) EditableFields(Actor, TicketRef) FieldSet { return FieldSet{} }
func (denyAll) CanDelete(Actor, TicketRef) bool          { return false }
func (denyAll) CanComment(Actor, TicketRef) bool         { return false }
func (denyAll) CanCreate(Actor, string) bool             { return false }
func (denyAll) CanManageProperty(Actor, string) bool     { return false }
