package models

import "time"

const (
	TicketNew        = "new"
	TicketInProgress = "inProgress"
	TicketCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Ticket struct {
	ID             string           `json:"id"`
	PropertyID     string           `json:"propertyId"`
	Property       *PropertySummary `json:"property,omitempty"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	ImageURL       string           `json:"imageUrl,omitempty"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	CreatedBy      string           `json:"createdBy"`
	CreatedByName  string           `json:"createdByName,omitempty"`
	AssignedTo     string           `json:"assignedTo,omitempty"`
	AssignedToName string           `json:"assignedToName,omitempty"`
	Comments       []Comment        `json:"comments"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Comment is stored embedded in its ticket. CreatedByName is resolved on read.
type Comment struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	CreatedBy     string    `json:"createdBy"`
	CreatedByName string    `json:"createdByName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
