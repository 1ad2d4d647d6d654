// Package event manages the events tourists register for and the public
// gate check that tells clients whether registration is open.
package event

import "time"

// Event is a registerable event. IDs are small integers so they can appear
// in shareable registration URLs.
type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Place       string    `json:"place"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateInput carries the fields an admin supplies when creating an event.
type CreateInput struct {
	Name        string    `json:"name"`
	Place       string    `json:"place"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
}
