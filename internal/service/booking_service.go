package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"w9booking/internal/domain"
	"w9booking/internal/events"
	"w9booking/internal/metrics"
	"w9booking/internal/models"

	"github.com/rs/zerolog"
)

var (
	// ErrSlotUnavailable means the free/busy check found an overlap.
	ErrSlotUnavailable = errors.New("requested time slot is not available")

	// ErrDuplicateInFlight means the same idempotency token is being
	// processed by a concurrent request.
	ErrDuplicateInFlight = errors.New("a booking with this idempotency token is already in progress")
)

// BookingResult is what a successful create hands back to the caller.
type BookingResult struct {
	Event    *models.CalendarEvent
	Replayed bool
}

// BookingService orchestrates the three provider calls of one booking:
// free/busy check, event insert, confirmation email. It holds no local
// booking state; the calendar is the sole source of truth. The email
// step is not transactional with the insert: when it fails, the overall
// operation fails but the event stays (documented inconsistency).
type BookingService struct {
	calendar domain.Calendar
	notifier domain.Notifier
	eventBus domain.EventPublisher
	idem     domain.IdempotencyStore // nil disables token handling
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(calendar domain.Calendar, notifier domain.Notifier, eventBus domain.EventPublisher, idem domain.IdempotencyStore, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		calendar: calendar,
		notifier: notifier,
		eventBus: eventBus,
		idem:     idem,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckAvailability validates the window and queries free/busy.
func (s *BookingService) CheckAvailability(ctx context.Context, start time.Time, durationMin int) (bool, error) {
	if start.IsZero() {
		return false, models.ErrMissingDate
	}
	if durationMin <= 0 {
		return false, models.ErrInvalidDuration
	}

	available, err := s.calendar.CheckAvailability(ctx, start, time.Duration(durationMin)*time.Minute)
	if err != nil {
		metrics.IncAvailabilityCheck("error")
		metrics.IncProviderError("freebusy")
		return false, err
	}

	if available {
		metrics.IncAvailabilityCheck("free")
	} else {
		metrics.IncAvailabilityCheck("busy")
	}
	return available, nil
}

// CreateBooking runs the full flow: validation, optional idempotency
// claim, availability re-check, insert, confirmation email. Validation
// failures happen before any provider call.
func (s *BookingService) CreateBooking(ctx context.Context, req *models.BookingRequest, idemToken string) (*BookingResult, error) {
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}

	claimed := false
	if idemToken != "" && s.idem != nil {
		existing, fresh, err := s.idem.Claim(ctx, idemToken)
		if err != nil {
			// The store is an optimization; a store outage must not block
			// bookings.
			s.logger.Warn().Err(err).Msg("idempotency store unavailable, continuing without it")
		} else if !fresh {
			if existing != nil {
				s.logger.Info().Str("event_id", existing.ID).Msg("replayed idempotency token, returning original event")
				return &BookingResult{Event: existing, Replayed: true}, nil
			}
			return nil, ErrDuplicateInFlight
		} else {
			claimed = true
		}
	}

	available, err := s.calendar.CheckAvailability(ctx, req.Date, time.Duration(req.Duration)*time.Minute)
	if err != nil {
		s.releaseToken(ctx, claimed, idemToken)
		metrics.IncProviderError("freebusy")
		return nil, err
	}
	if !available {
		s.releaseToken(ctx, claimed, idemToken)
		return nil, ErrSlotUnavailable
	}

	event, err := s.calendar.CreateBooking(ctx, req)
	if err != nil {
		s.releaseToken(ctx, claimed, idemToken)
		metrics.IncProviderError("insert")
		return nil, err
	}

	metrics.IncBookingCreated(string(req.Type))
	if claimed {
		if err := s.idem.Complete(ctx, idemToken, event); err != nil {
			s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to record idempotency token")
		}
	}

	s.publishCreated(req, event)

	if err := s.notifier.SendConfirmation(ctx, req); err != nil {
		// The event already exists and is not rolled back; the caller
		// still sees the operation fail.
		metrics.IncProviderError("send")
		s.logger.Error().Err(err).Str("event_id", event.ID).Msg("booking created but confirmation email failed")
		return nil, fmt.Errorf("booking %s created but confirmation failed: %w", event.ID, err)
	}
	metrics.IncEmailSent(models.NotificationConfirmation)

	return &BookingResult{Event: event}, nil
}

// CancelBooking removes the event and tells the client. The cancellation
// email is dispatched after the provider delete; its failure fails the
// operation without restoring the event.
func (s *BookingService) CancelBooking(ctx context.Context, eventID, clientEmail, clientName, reason string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}

	if err := s.calendar.CancelBooking(ctx, eventID, reason); err != nil {
		metrics.IncProviderError("cancel")
		return err
	}
	metrics.IncBookingCancelled()

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventBookingCancelled, events.BookingEventPayload{
			EventID: eventID,
			Reason:  reason,
		})
	}

	if clientEmail != "" {
		if err := s.notifier.SendCancellation(ctx, clientEmail, clientName, reason); err != nil {
			metrics.IncProviderError("send")
			return fmt.Errorf("booking %s cancelled but notification failed: %w", eventID, err)
		}
		metrics.IncEmailSent(models.NotificationCancellation)
	}

	return nil
}

// ListUpcoming returns bookings in the next N days.
func (s *BookingService) ListUpcoming(ctx context.Context, days int) ([]*models.BookingSummary, error) {
	summaries, err := s.calendar.ListUpcoming(ctx, days)
	if err != nil {
		metrics.IncProviderError("list")
		return nil, err
	}
	return summaries, nil
}

func (s *BookingService) publishCreated(req *models.BookingRequest, event *models.CalendarEvent) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		EventID:     event.ID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Company:     req.Company,
		BookingType: string(req.Type),
		Start:       req.Date,
		DurationMin: req.Duration,
		MeetLink:    event.MeetLink,
	})
}

func (s *BookingService) releaseToken(ctx context.Context, claimed bool, token string) {
	if !claimed || s.idem == nil {
		return
	}
	if err := s.idem.Release(ctx, token); err != nil {
		s.logger.Warn().Err(err).Msg("failed to release idempotency token")
	}
}
