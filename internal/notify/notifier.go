package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"w9booking/internal/config"
	"w9booking/internal/domain"
	"w9booking/internal/models"

	"github.com/rs/zerolog"
)

// dateTimeLayout renders booking times for clients, always in the
// business timezone regardless of where the server runs.
const dateTimeLayout = "Monday, January 2, 2006 at 3:04 PM"

// Notifier composes the confirmation and cancellation emails and
// dispatches them through the mail provider. Confirmations carry a copy
// to the business inbox.
type Notifier struct {
	mailer  domain.Mailer
	google  config.GoogleConfig
	booking *config.BookingConfig
	logger  *zerolog.Logger
}

func NewNotifier(mailer domain.Mailer, google config.GoogleConfig, booking *config.BookingConfig, logger *zerolog.Logger) *Notifier {
	return &Notifier{mailer: mailer, google: google, booking: booking, logger: logger}
}

// SendConfirmation renders and dispatches the booking confirmation,
// cc'ing the business inbox.
func (n *Notifier) SendConfirmation(ctx context.Context, req *models.BookingRequest) error {
	body, err := n.renderConfirmation(req)
	if err != nil {
		return err
	}

	msg := &models.NotificationMessage{
		To:       req.ClientEmail,
		Cc:       n.google.CalendarID,
		Subject:  fmt.Sprintf("Booking Confirmation - %s with %s", req.Type.Label(), n.google.BusinessName),
		HTMLBody: body,
		Kind:     models.NotificationConfirmation,
	}

	if err := n.mailer.Send(ctx, msg); err != nil {
		return err
	}

	n.logger.Info().Str("to", req.ClientEmail).Str("type", string(req.Type)).Msg("confirmation email sent")
	return nil
}

// SendCancellation tells the client their booking was cancelled. No copy
// to the business inbox.
func (n *Notifier) SendCancellation(ctx context.Context, to, clientName, reason string) error {
	var buf bytes.Buffer
	err := cancellationTmpl.Execute(&buf, cancellationData{
		ClientName:    clientName,
		Reason:        reason,
		BusinessName:  n.google.BusinessName,
		BusinessEmail: n.google.CalendarID,
	})
	if err != nil {
		return fmt.Errorf("render cancellation email: %w", err)
	}

	msg := &models.NotificationMessage{
		To:       to,
		Subject:  fmt.Sprintf("Booking Cancellation - %s", n.google.BusinessName),
		HTMLBody: buf.String(),
		Kind:     models.NotificationCancellation,
	}

	if err := n.mailer.Send(ctx, msg); err != nil {
		return err
	}

	n.logger.Info().Str("to", to).Msg("cancellation email sent")
	return nil
}

func (n *Notifier) renderConfirmation(req *models.BookingRequest) (string, error) {
	data := confirmationData{
		ClientName:    req.ClientName,
		Company:       req.Company,
		TypeLabel:     req.Type.Label(),
		HeadingLabel:  headingFor(req.Type),
		DateTime:      req.Date.In(n.booking.Location()).Format(dateTimeLayout),
		Duration:      req.Duration,
		LocationInfo:  n.locationInfo(req.Type),
		IsConsult:     req.Type == models.TypeConsultation,
		IsStudio:      req.Type == models.TypeStudio,
		BusinessName:  n.google.BusinessName,
		BusinessEmail: n.google.CalendarID,
		ContactPhone:  n.booking.ContactPhone,
		Website:       n.booking.Website,
	}

	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render confirmation email: %w", err)
	}
	return buf.String(), nil
}

func headingFor(t models.BookingType) string {
	switch t {
	case models.TypeConsultation:
		return "Consultation Details"
	case models.TypeStudio:
		return "Studio Rental Details"
	default:
		return "Production Planning Details"
	}
}

func (n *Notifier) locationInfo(t models.BookingType) template.HTML {
	switch t {
	case models.TypeStudio:
		return template.HTML(fmt.Sprintf("<p><strong>Location:</strong> %s</p>", template.HTMLEscapeString(n.booking.StudioLocation)))
	case models.TypeConsultation:
		return template.HTML("<p><strong>Meeting:</strong> Google Meet link will be sent separately</p>")
	default:
		return template.HTML("<p><strong>Location:</strong> To be confirmed</p>")
	}
}
