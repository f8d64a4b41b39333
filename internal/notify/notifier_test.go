package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"w9booking/internal/config"
	"w9booking/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	sent []*models.NotificationMessage
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg *models.NotificationMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testNotifier(mailer *captureMailer) *Notifier {
	logger := zerolog.Nop()
	booking := &config.BookingConfig{
		Timezone:       "Asia/Manila",
		StudioLocation: "W9 Studios, Makati CBD, Philippines",
		ContactPhone:   "+63 968 269 9265",
		Website:        "https://w9studio.net",
	}
	google := config.GoogleConfig{
		CalendarID:   "business@w9studio.net",
		BusinessName: "W9 Studios",
	}
	return NewNotifier(mailer, google, booking, &logger)
}

func consultationRequest() *models.BookingRequest {
	// 02:00 UTC is 10:00 in Manila.
	return &models.BookingRequest{
		ClientName:  "Juan Dela Cruz",
		ClientEmail: "juan@agency.com",
		Company:     "Agency Inc",
		Date:        time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC),
		Duration:    30,
		Type:        models.TypeConsultation,
	}
}

func TestSendConfirmation(t *testing.T) {
	mailer := &captureMailer{}
	n := testNotifier(mailer)

	require.NoError(t, n.SendConfirmation(context.Background(), consultationRequest()))
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, "juan@agency.com", msg.To)
	assert.Equal(t, "business@w9studio.net", msg.Cc)
	assert.Equal(t, "Booking Confirmation - Consultation with W9 Studios", msg.Subject)
	assert.Equal(t, models.NotificationConfirmation, msg.Kind)

	assert.Contains(t, msg.HTMLBody, "Dear Juan Dela Cruz,")
	assert.Contains(t, msg.HTMLBody, "Agency Inc")
	assert.Contains(t, msg.HTMLBody, "30 minutes")
	assert.Contains(t, msg.HTMLBody, "Consultation Details")
	assert.Contains(t, msg.HTMLBody, "Google Meet link will be sent separately")
}

// The rendered date/time must be in the business timezone no matter what
// zone the request or server uses.
func TestConfirmationUsesBusinessTimezone(t *testing.T) {
	mailer := &captureMailer{}
	n := testNotifier(mailer)

	require.NoError(t, n.SendConfirmation(context.Background(), consultationRequest()))
	require.Len(t, mailer.sent, 1)

	assert.Contains(t, mailer.sent[0].HTMLBody, "Saturday, March 1, 2025 at 10:00 AM")
}

func TestConfirmationLocationByType(t *testing.T) {
	tests := []struct {
		bookingType models.BookingType
		want        string
		heading     string
	}{
		{models.TypeStudio, "W9 Studios, Makati CBD, Philippines", "Studio Rental Details"},
		{models.TypeConsultation, "Google Meet link will be sent separately", "Consultation Details"},
		{models.TypeProduction, "To be confirmed", "Production Planning Details"},
	}

	for _, tt := range tests {
		t.Run(string(tt.bookingType), func(t *testing.T) {
			mailer := &captureMailer{}
			n := testNotifier(mailer)

			req := consultationRequest()
			req.Type = tt.bookingType
			require.NoError(t, n.SendConfirmation(context.Background(), req))
			require.Len(t, mailer.sent, 1)

			assert.Contains(t, mailer.sent[0].HTMLBody, tt.want)
			assert.Contains(t, mailer.sent[0].HTMLBody, tt.heading)
		})
	}
}

func TestSendCancellation(t *testing.T) {
	mailer := &captureMailer{}
	n := testNotifier(mailer)

	require.NoError(t, n.SendCancellation(context.Background(), "juan@agency.com", "Juan Dela Cruz", "equipment failure"))
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, "juan@agency.com", msg.To)
	assert.Empty(t, msg.Cc)
	assert.Equal(t, "Booking Cancellation - W9 Studios", msg.Subject)
	assert.Equal(t, models.NotificationCancellation, msg.Kind)
	assert.Contains(t, msg.HTMLBody, "equipment failure")
	assert.Contains(t, msg.HTMLBody, "Booking Cancelled")
}

func TestSendCancellationWithoutReason(t *testing.T) {
	mailer := &captureMailer{}
	n := testNotifier(mailer)

	require.NoError(t, n.SendCancellation(context.Background(), "juan@agency.com", "Juan Dela Cruz", ""))
	require.Len(t, mailer.sent, 1)
	assert.NotContains(t, mailer.sent[0].HTMLBody, "Reason:")
}

func TestSendConfirmationMailerError(t *testing.T) {
	mailer := &captureMailer{err: errors.New("smtp down")}
	n := testNotifier(mailer)

	err := n.SendConfirmation(context.Background(), consultationRequest())
	require.Error(t, err)
	assert.Empty(t, mailer.sent)
}
