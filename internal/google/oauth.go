package google

import (
	"context"
	"fmt"

	"w9booking/internal/config"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	gmail "google.golang.org/api/gmail/v1"
)

// NewOAuthConfig builds the OAuth client for both the calendar and mail
// scopes. One client serves the whole application; the refresh token
// obtained through the bootstrap flow is the only long-lived credential.
func NewOAuthConfig(cfg config.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes: []string{
			calendar.CalendarScope,
			calendar.CalendarEventsScope,
			gmail.GmailSendScope,
		},
		Endpoint: googleoauth.Endpoint,
	}
}

// AuthURL returns the consent URL for the one-time bootstrap flow.
// Offline access plus the consent prompt forces Google to issue a
// refresh token even for a previously authorized client.
func AuthURL(conf *oauth2.Config, state string) string {
	return conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode trades the callback authorization code for tokens.
func ExchangeCode(ctx context.Context, conf *oauth2.Config, code string) (*oauth2.Token, error) {
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

// TokenSource yields auto-refreshing access tokens from the stored
// refresh token. Used by every steady-state provider call.
func TokenSource(ctx context.Context, cfg config.GoogleConfig) oauth2.TokenSource {
	conf := NewOAuthConfig(cfg)
	return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
}
