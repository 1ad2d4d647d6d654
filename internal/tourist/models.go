// Package tourist implements visitor registration, the registration
// response, and token-gated delivery of visitor cards and profile photos.
package tourist

import (
	"io"
	"time"
)

// Tourist is a registered visitor for a single event.
type Tourist struct {
	ID         string    `json:"id"`
	EventID    int64     `json:"registered_event_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	IDType     string    `json:"unique_id_type"`
	IDNumber   string    `json:"unique_id"`
	IsGroup    bool      `json:"is_group"`
	GroupCount int       `json:"group_count"`
	CreatedAt  time.Time `json:"created_at"`

	PhotoPath string `json:"-"`
	CardPath  string `json:"-"`
}

// Meta is the registration metadata returned alongside the tourist and
// encoded into the card's QR code. ImagePath references the stored profile
// photo.
type Meta struct {
	TouristID    string    `json:"tourist_id"`
	QRPayload    string    `json:"qr_payload"`
	ImagePath    string    `json:"image_path"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegistrationInput is the parsed multipart registration form. Photo may be
// nil when no file part was sent.
type RegistrationInput struct {
	EventID    int64
	Name       string
	Email      string
	IDType     string
	IDNumber   string
	IsGroup    bool
	GroupCount int

	PhotoFilename string
	Photo         io.Reader
}

// RegistrationResult is the successful registration response body.
type RegistrationResult struct {
	Message        string   `json:"message"`
	Tourist        *Tourist `json:"tourist"`
	Meta           *Meta    `json:"meta"`
	VisitorCardURL *string  `json:"visitor_card_url"`
}
