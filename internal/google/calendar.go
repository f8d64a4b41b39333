package google

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"w9booking/internal/config"
	"w9booking/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Generic provider errors. The original provider message stays attached
// for diagnostics; callers match with errors.Is.
var (
	ErrAvailabilityCheck = errors.New("failed to check availability")
	ErrCreateBooking     = errors.New("failed to create booking")
	ErrCancelBooking     = errors.New("failed to cancel booking")
	ErrListBookings      = errors.New("failed to list bookings")
)

// CalendarService wraps the Google Calendar API for the single business
// calendar. It keeps no local state; the calendar is the sole source of
// truth for bookings.
type CalendarService struct {
	svc        *calendar.Service
	calendarID string
	business   string
	location   *time.Location
	studioAddr string
	logger     *zerolog.Logger
}

func NewCalendarService(ctx context.Context, gcfg config.GoogleConfig, bcfg *config.BookingConfig, logger *zerolog.Logger) (*CalendarService, error) {
	srv, err := calendar.NewService(ctx, option.WithTokenSource(TokenSource(ctx, gcfg)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return &CalendarService{
		svc:        srv,
		calendarID: gcfg.CalendarID,
		business:   gcfg.BusinessName,
		location:   bcfg.Location(),
		studioAddr: bcfg.StudioLocation,
		logger:     logger,
	}, nil
}

// CheckAvailability queries free/busy for [start, start+duration). Any
// overlapping busy interval marks the slot unavailable. Read-only, no
// retry, no caching.
func (s *CalendarService) CheckAvailability(ctx context.Context, start time.Time, duration time.Duration) (bool, error) {
	end := start.Add(duration)

	resp, err := s.svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin:  start.Format(time.RFC3339),
		TimeMax:  end.Format(time.RFC3339),
		TimeZone: s.location.String(),
		Items:    []*calendar.FreeBusyRequestItem{{Id: s.calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		s.logger.Error().Err(err).Time("start", start).Msg("freebusy query failed")
		return false, fmt.Errorf("%w: %v", ErrAvailabilityCheck, err)
	}

	cal, ok := resp.Calendars[s.calendarID]
	if !ok {
		return false, fmt.Errorf("%w: calendar %s missing from response", ErrAvailabilityCheck, s.calendarID)
	}

	return len(cal.Busy) == 0, nil
}

// CreateBooking inserts the event with attendee notifications enabled,
// so the provider sends the calendar invitations itself. No idempotency
// key: a duplicate request produces a duplicate event.
func (s *CalendarService) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.CalendarEvent, error) {
	event := s.buildEvent(req)

	call := s.svc.Events.Insert(s.calendarID, event).SendUpdates("all")
	if req.Type == models.TypeConsultation {
		call = call.ConferenceDataVersion(1)
	}

	created, err := call.Context(ctx).Do()
	if err != nil {
		s.logger.Error().Err(err).Str("client", req.ClientEmail).Msg("event insert failed")
		return nil, fmt.Errorf("%w: %v", ErrCreateBooking, err)
	}

	return &models.CalendarEvent{
		ID:       created.Id,
		HTMLLink: created.HtmlLink,
		MeetLink: created.HangoutLink,
	}, nil
}

func (s *CalendarService) buildEvent(req *models.BookingRequest) *calendar.Event {
	start, end := req.Window()

	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s - %s (%s)", req.Type.Label(), req.ClientName, req.Company),
		Description: buildDescription(req),
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: s.location.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: s.location.String(),
		},
		Attendees: []*calendar.EventAttendee{
			{Email: req.ClientEmail, DisplayName: req.ClientName},
			{Email: s.calendarID, DisplayName: s.business, Organizer: true},
		},
		Reminders: &calendar.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: models.ReminderEmailDayBefore},
				{Method: "email", Minutes: models.ReminderEmailHourBefore},
				{Method: "popup", Minutes: models.ReminderPopupBefore},
			},
		},
	}

	switch req.Type {
	case models.TypeConsultation:
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             "w9-" + uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
	case models.TypeStudio:
		event.Location = s.studioAddr
	}

	return event
}

func buildDescription(req *models.BookingRequest) string {
	phone := req.Phone
	if phone == "" {
		phone = "Not provided"
	}
	details := req.Description
	if details == "" {
		details = "No additional description provided"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Booking Type: %s\n", req.Type)
	fmt.Fprintf(&b, "Client: %s\n", req.ClientName)
	fmt.Fprintf(&b, "Company: %s\n", req.Company)
	fmt.Fprintf(&b, "Email: %s\n", req.ClientEmail)
	fmt.Fprintf(&b, "Phone: %s\n\n", phone)
	b.WriteString(details)
	return b.String()
}

// CancelBooking rewrites the event with a cancellation marker so the
// update notice reaches attendees, then deletes it.
func (s *CalendarService) CancelBooking(ctx context.Context, eventID, reason string) error {
	event, err := s.svc.Events.Get(s.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCancelBooking, err)
	}

	if reason != "" {
		event.Summary = "[CANCELLED] " + event.Summary
		event.Description = fmt.Sprintf("CANCELLED: %s\n\n%s", reason, event.Description)

		if _, err := s.svc.Events.Update(s.calendarID, eventID, event).SendUpdates("all").Context(ctx).Do(); err != nil {
			return fmt.Errorf("%w: %v", ErrCancelBooking, err)
		}
	}

	if err := s.svc.Events.Delete(s.calendarID, eventID).SendUpdates("all").Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: %v", ErrCancelBooking, err)
	}

	return nil
}

// ListUpcoming returns bookings between now and now+days, expanded to
// single events and ordered by start time.
func (s *CalendarService) ListUpcoming(ctx context.Context, days int) ([]*models.BookingSummary, error) {
	if days <= 0 {
		days = models.DefaultUpcomingDays
	}
	now := time.Now().In(s.location)

	resp, err := s.svc.Events.List(s.calendarID).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.AddDate(0, 0, days).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListBookings, err)
	}

	summaries := make([]*models.BookingSummary, 0, len(resp.Items))
	for _, item := range resp.Items {
		summaries = append(summaries, &models.BookingSummary{
			EventID:  item.Id,
			Summary:  item.Summary,
			Start:    parseEventTime(item.Start, s.location),
			End:      parseEventTime(item.End, s.location),
			Location: item.Location,
			Status:   item.Status,
			HTMLLink: item.HtmlLink,
		})
	}

	return summaries, nil
}

func parseEventTime(edt *calendar.EventDateTime, loc *time.Location) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t.In(loc)
		}
	}
	if edt.Date != "" {
		if t, err := time.ParseInLocation("2006-01-02", edt.Date, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}
