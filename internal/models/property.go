package models

import "time"

const (
	PropertyResidential = "residential"
	PropertyCommercial  = "commercial"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type Property struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	Address   Address   `json:"address"`
	Type      string    `json:"type"` // residential | commercial
	Size      float64   `json:"size"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Status    string    `json:"status"` // active | inactive
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PropertySummary is the populated form embedded in tickets and tenants.
type PropertySummary struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

func (p *Property) Summary() *PropertySummary {
	return &PropertySummary{ID: p.ID, Name: p.Name, Address: p.Address}
}
