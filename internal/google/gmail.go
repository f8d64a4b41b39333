package google

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"w9booking/internal/config"
	"w9booking/internal/models"

	"github.com/rs/zerolog"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

var ErrSendEmail = errors.New("failed to send email")

// GmailMailer sends notification emails through the business mailbox.
// Dispatch is best-effort: no delivery confirmation, bounce handling, or
// retry.
type GmailMailer struct {
	svc    *gmail.Service
	from   string
	logger *zerolog.Logger
}

func NewGmailMailer(ctx context.Context, cfg config.GoogleConfig, logger *zerolog.Logger) (*GmailMailer, error) {
	srv, err := gmail.NewService(ctx, option.WithTokenSource(TokenSource(ctx, cfg)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	from := cfg.CalendarID
	if cfg.BusinessName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.BusinessName, cfg.CalendarID)
	}

	return &GmailMailer{svc: srv, from: from, logger: logger}, nil
}

// Send encodes the message as a raw RFC 2822 payload and dispatches it
// from the business mailbox.
func (m *GmailMailer) Send(ctx context.Context, msg *models.NotificationMessage) error {
	raw := EncodeMessage(m.from, msg)

	_, err := m.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		m.logger.Error().Err(err).Str("to", msg.To).Str("kind", msg.Kind).Msg("gmail send failed")
		return fmt.Errorf("%w: %v", ErrSendEmail, err)
	}

	return nil
}

// EncodeMessage builds the MIME message and base64url-encodes it the way
// the Gmail API expects (unpadded, URL-safe alphabet).
func EncodeMessage(from string, msg *models.NotificationMessage) string {
	headers := []string{
		"Content-Type: text/html; charset=utf-8",
		"MIME-Version: 1.0",
		"To: " + msg.To,
		"From: " + from,
		"Subject: " + msg.Subject,
	}
	if msg.Cc != "" {
		headers = append(headers, "Cc: "+msg.Cc)
	}
	if msg.Bcc != "" {
		headers = append(headers, "Bcc: "+msg.Bcc)
	}

	full := strings.Join(headers, "\r\n") + "\r\n\r\n" + msg.HTMLBody
	return base64.RawURLEncoding.EncodeToString([]byte(full))
}
