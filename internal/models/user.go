package models

import "time"

const (
	RoleManager = "manager"
	RoleStaff   = "staff"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is the public profile. The password hash never leaves the repository
// layer except through the dedicated hash lookups.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`   // manager | staff
	Phone     string     `json:"phone,omitempty"`
	Status    string     `json:"status"` // active | inactive
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (u *User) IsActiveStaff() bool {
	return u != nil && u.Role == RoleStaff && u.Status == StatusActive
}
