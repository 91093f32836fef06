package models

import "time"

const TenantPending = "pending"

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type Tenant struct {
	ID               string           `json:"id"`
	PropertyID       string           `json:"propertyId"`
	Property         *PropertySummary `json:"property,omitempty"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Unit             string           `json:"unit"`
	LeaseStart       time.Time        `json:"leaseStart"`
	LeaseEnd         time.Time        `json:"leaseEnd"`
	RentAmount       float64          `json:"rentAmount"`
	Status           string           `json:"status"` // active | pending | inactive
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}
