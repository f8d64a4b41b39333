package api

import (
	"net/http"
	"net/url"

	"w9booking/internal/config"
	"w9booking/internal/google"

	"github.com/rs/zerolog"
)

// oauthHandlers implement the one-time authorization bootstrap. They are
// not part of the request-serving path: an operator walks through them
// once, copies the logged refresh token into the environment, and
// restarts the service.
type oauthHandlers struct {
	cfg    *config.Config
	logger *zerolog.Logger
}

func newOAuthHandlers(cfg *config.Config, logger *zerolog.Logger) *oauthHandlers {
	return &oauthHandlers{cfg: cfg, logger: logger}
}

// handleAuthRedirect sends the operator to the provider consent page.
func (h *oauthHandlers) handleAuthRedirect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	conf := google.NewOAuthConfig(h.cfg.Google)
	http.Redirect(w, r, google.AuthURL(conf, ""), http.StatusFound)
}

// handleAuthCallback exchanges the authorization code and logs the
// refresh token for manual storage.
func (h *oauthHandlers) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		h.redirectSetup(w, r, "error", errParam)
		return
	}

	code := query.Get("code")
	if code == "" {
		h.redirectSetup(w, r, "error", "no_code")
		return
	}

	token, err := google.ExchangeCode(r.Context(), google.NewOAuthConfig(h.cfg.Google), code)
	if err != nil {
		h.logger.Error().Err(err).Msg("oauth code exchange failed")
		h.redirectSetup(w, r, "error", "token_exchange_failed")
		return
	}

	h.logger.Info().
		Bool("access_token", token.AccessToken != "").
		Bool("refresh_token", token.RefreshToken != "").
		Msg("received oauth tokens")

	if token.RefreshToken != "" {
		// Operator copies this into the environment; tokens are never
		// persisted by the service itself.
		h.logger.Warn().
			Str("refresh_token", token.RefreshToken).
			Msg("save this refresh token to the GOOGLE_REFRESH_TOKEN environment variable")
	}

	h.redirectSetup(w, r, "success", "true")
}

func (h *oauthHandlers) redirectSetup(w http.ResponseWriter, r *http.Request, key, value string) {
	target := h.cfg.API.SetupPath + "?" + url.Values{key: {value}}.Encode()
	http.Redirect(w, r, target, http.StatusFound)
}
