package models

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// BookingType is the fixed set of services a client can book.
type BookingType string

const (
	TypeConsultation BookingType = "consultation"
	TypeStudio       BookingType = "studio"
	TypeProduction   BookingType = "production"
)

// Label returns the human-readable form used in event titles and emails.
func (t BookingType) Label() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (t BookingType) Valid() bool {
	switch t {
	case TypeConsultation, TypeStudio, TypeProduction:
		return true
	}
	return false
}

var (
	ErrMissingClientName  = errors.New("client name is required")
	ErrMissingClientEmail = errors.New("client email is required")
	ErrInvalidClientEmail = errors.New("client email is not a valid address")
	ErrMissingDate        = errors.New("booking date is required")
	ErrPastDate           = errors.New("booking date is in the past")
	ErrInvalidDuration    = errors.New("duration must be positive")
	ErrInvalidBookingType = errors.New("unknown booking type")
)

// BookingRequest is the input DTO for one booking attempt. It lives for a
// single request/response cycle and is never persisted.
type BookingRequest struct {
	ClientName  string      `json:"clientName"`
	ClientEmail string      `json:"clientEmail"`
	Company     string      `json:"company"`
	Date        time.Time   `json:"date"`
	Duration    int         `json:"duration"` // minutes
	Type        BookingType `json:"type"`
	Description string      `json:"description,omitempty"`
	Phone       string      `json:"phone,omitempty"`
}

// Validate enforces the request invariants. A non-nil error means no
// provider call has been made yet.
func (r *BookingRequest) Validate(now time.Time) error {
	if strings.TrimSpace(r.ClientName) == "" {
		return ErrMissingClientName
	}
	if strings.TrimSpace(r.ClientEmail) == "" {
		return ErrMissingClientEmail
	}
	if _, err := mail.ParseAddress(r.ClientEmail); err != nil {
		return ErrInvalidClientEmail
	}
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	if !r.Date.After(now) {
		return ErrPastDate
	}
	if r.Duration <= 0 {
		return ErrInvalidDuration
	}
	if !r.Type.Valid() {
		return ErrInvalidBookingType
	}
	return nil
}

// Window returns the half-open availability interval [start, start+duration).
func (r *BookingRequest) Window() (start, end time.Time) {
	return r.Date, r.Date.Add(time.Duration(r.Duration) * time.Minute)
}

// CalendarEvent is the transient reference the provider returns after an
// insert. The provider owns the event; these fields are only echoed back
// to the caller.
type CalendarEvent struct {
	ID       string `json:"id"`
	HTMLLink string `json:"html_link"`
	MeetLink string `json:"meet_link,omitempty"`
}

// BookingSummary is an upcoming event row as shown in listings and the
// Excel export.
type BookingSummary struct {
	EventID  string    `json:"event_id"`
	Summary  string    `json:"summary"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location,omitempty"`
	Status   string    `json:"status"`
	HTMLLink string    `json:"html_link,omitempty"`
}
