package domain

import (
	"context"
	"time"

	"w9booking/internal/models"
)

// Calendar is the provider-facing port for the business calendar. All
// state lives with the provider; implementations hold no local records.
type Calendar interface {
	CheckAvailability(ctx context.Context, start time.Time, duration time.Duration) (bool, error)
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.CalendarEvent, error)
	CancelBooking(ctx context.Context, eventID, reason string) error
	ListUpcoming(ctx context.Context, days int) ([]*models.BookingSummary, error)
}

// Mailer dispatches a single rendered message. Best-effort: there is no
// delivery tracking or retry behind this interface.
type Mailer interface {
	Send(ctx context.Context, msg *models.NotificationMessage) error
}

// Notifier renders and dispatches booking emails.
type Notifier interface {
	SendConfirmation(ctx context.Context, req *models.BookingRequest) error
	SendCancellation(ctx context.Context, to, clientName, reason string) error
}

// EventPublisher fans out domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// IdempotencyStore remembers which client-supplied tokens already
// produced an event, so a replayed create request returns the original
// reference instead of inserting a duplicate.
type IdempotencyStore interface {
	// Claim returns (existing event, false) when the token was seen
	// before, or (nil, true) after recording the claim.
	Claim(ctx context.Context, token string) (*models.CalendarEvent, bool, error)
	// Complete attaches the created event to a claimed token.
	Complete(ctx context.Context, token string, event *models.CalendarEvent) error
	// Release frees a claimed token after a failed create so the client
	// can retry with the same token.
	Release(ctx context.Context, token string) error
}
