package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"w9booking/internal/config"
	"w9booking/internal/models"
	"w9booking/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalendar struct {
	available     bool
	freebusyCalls int
	insertCalls   int
	cancelCalls   int
	listed        []*models.BookingSummary
}

func (f *fakeCalendar) CheckAvailability(_ context.Context, _ time.Time, _ time.Duration) (bool, error) {
	f.freebusyCalls++
	return f.available, nil
}

func (f *fakeCalendar) CreateBooking(_ context.Context, req *models.BookingRequest) (*models.CalendarEvent, error) {
	f.insertCalls++
	event := &models.CalendarEvent{
		ID:       fmt.Sprintf("evt-%d", f.insertCalls),
		HTMLLink: "https://calendar.google.com/event?eid=abc",
	}
	if req.Type == models.TypeConsultation {
		event.MeetLink = "https://meet.google.com/abc-defg-hij"
	}
	return event, nil
}

func (f *fakeCalendar) CancelBooking(_ context.Context, _, _ string) error {
	f.cancelCalls++
	return nil
}

func (f *fakeCalendar) ListUpcoming(_ context.Context, _ int) ([]*models.BookingSummary, error) {
	return f.listed, nil
}

type fakeNotifier struct {
	confirmations int
	cancellations int
}

func (f *fakeNotifier) SendConfirmation(_ context.Context, _ *models.BookingRequest) error {
	f.confirmations++
	return nil
}

func (f *fakeNotifier) SendCancellation(_ context.Context, _, _, _ string) error {
	f.cancellations++
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Google: config.GoogleConfig{
			ClientID:     "test-client",
			ClientSecret: "test-secret",
			RedirectURI:  "http://localhost:8080/api/auth/google/callback",
			CalendarID:   "business@w9studio.net",
			BusinessName: "W9 Studios",
		},
		Booking: config.BookingConfig{
			Timezone:     "Asia/Manila",
			UpcomingDays: 30,
		},
		API: config.APIConfig{
			HTTP:      config.APIHTTPConfig{Port: 8080},
			SetupPath: "/admin/setup",
			Auth: config.APIAuthConfig{
				Enabled:      true,
				HeaderAPIKey: "x-api-key",
				APIKeys: []config.APIClientKey{
					{Key: "admin-key", Name: "admin", Permissions: []string{"read:bookings", "write:bookings"}},
					{Key: "reader-key", Name: "reader", Permissions: []string{"read:bookings"}},
				},
			},
		},
	}
}

func newTestServer(t *testing.T, cal *fakeCalendar, not *fakeNotifier, cfg *config.Config) *httptest.Server {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}

	logger := zerolog.Nop()
	bookings := service.NewBookingService(cal, not, nil, nil, &logger)
	server := NewHTTPServer(cfg, bookings, &logger)

	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any, headers map[string]string) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func futureDate() string {
	return time.Now().Add(48 * time.Hour).Format(time.RFC3339)
}

func TestCheckAvailability(t *testing.T) {
	cal := &fakeCalendar{available: true}
	ts := newTestServer(t, cal, &fakeNotifier{}, nil)

	resp := postJSON(t, ts.URL+"/api/v1/booking/check-availability", map[string]any{
		"date":     futureDate(),
		"duration": 30,
	}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Available bool `json:"available"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Available)
}

func TestCheckAvailabilityMissingFields(t *testing.T) {
	cal := &fakeCalendar{available: true}
	ts := newTestServer(t, cal, &fakeNotifier{}, nil)

	resp := postJSON(t, ts.URL+"/api/v1/booking/check-availability", map[string]any{
		"duration": 30,
	}, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, cal.freebusyCalls, "no provider call for invalid request")
}

func TestCreateBooking(t *testing.T) {
	cal := &fakeCalendar{available: true}
	not := &fakeNotifier{}
	ts := newTestServer(t, cal, not, nil)

	resp := postJSON(t, ts.URL+"/api/v1/booking/create", map[string]any{
		"clientName":  "Juan Dela Cruz",
		"clientEmail": "juan@agency.com",
		"company":     "Agency Inc",
		"date":        futureDate(),
		"duration":    30,
		"type":        "consultation",
	}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                 `json:"success"`
		Booking models.CalendarEvent `json:"booking"`
		Message string               `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Booking.ID)
	assert.NotEmpty(t, body.Booking.MeetLink, "consultation booking carries a conference link")
	assert.Contains(t, body.Message, "created successfully")
	assert.Equal(t, 1, not.confirmations)
}

func TestCreateBookingMissingFields(t *testing.T) {
	cal := &fakeCalendar{available: true}
	not := &fakeNotifier{}
	ts := newTestServer(t, cal, not, nil)

	tests := []map[string]any{
		{"clientEmail": "juan@agency.com", "date": futureDate(), "duration": 30, "type": "consultation"},
		{"clientName": "Juan", "date": futureDate(), "duration": 30, "type": "consultation"},
		{"clientName": "Juan", "clientEmail": "juan@agency.com", "duration": 30, "type": "consultation"},
	}

	for _, payload := range tests {
		resp := postJSON(t, ts.URL+"/api/v1/booking/create", payload, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}

	assert.Zero(t, cal.freebusyCalls)
	assert.Zero(t, cal.insertCalls)
	assert.Zero(t, not.confirmations)
}

func TestCreateBookingSlotBusy(t *testing.T) {
	cal := &fakeCalendar{available: false}
	ts := newTestServer(t, cal, &fakeNotifier{}, nil)

	resp := postJSON(t, ts.URL+"/api/v1/booking/create", map[string]any{
		"clientName":  "Juan Dela Cruz",
		"clientEmail": "juan@agency.com",
		"date":        futureDate(),
		"duration":    30,
		"type":        "studio",
	}, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Zero(t, cal.insertCalls)
}

func TestCancelRequiresPermission(t *testing.T) {
	cal := &fakeCalendar{}
	ts := newTestServer(t, cal, &fakeNotifier{}, nil)

	payload := map[string]any{"event_id": "evt-1", "reason": "conflict"}

	resp := postJSON(t, ts.URL+"/api/v1/booking/cancel", payload, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/v1/booking/cancel", payload, map[string]string{"x-api-key": "reader-key"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/v1/booking/cancel", payload, map[string]string{"x-api-key": "admin-key"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, cal.cancelCalls)
}

func TestUpcoming(t *testing.T) {
	cal := &fakeCalendar{
		listed: []*models.BookingSummary{
			{EventID: "evt-1", Summary: "Consultation - Juan Dela Cruz (Agency Inc)", Status: "confirmed"},
		},
	}
	ts := newTestServer(t, cal, &fakeNotifier{}, nil)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/bookings/upcoming", nil)
	req.Header.Set("x-api-key", "reader-key")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Bookings []models.BookingSummary `json:"bookings"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Bookings, 1)
	assert.Equal(t, "evt-1", body.Bookings[0].EventID)
}

func TestExport(t *testing.T) {
	cal := &fakeCalendar{
		listed: []*models.BookingSummary{
			{EventID: "evt-1", Summary: "Studio - Juan Dela Cruz (Agency Inc)", Status: "confirmed"},
		},
	}
	ts := newTestServer(t, cal, &fakeNotifier{}, nil)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/bookings/export?days=7", nil)
	req.Header.Set("x-api-key", "admin-key")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.API.RateLimit = config.APIRateLimitConfig{RPS: 0.001, Burst: 1}

	ts := newTestServer(t, &fakeCalendar{available: true}, &fakeNotifier{}, cfg)

	first := postJSON(t, ts.URL+"/api/v1/booking/check-availability", map[string]any{
		"date": futureDate(), "duration": 30,
	}, nil)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := postJSON(t, ts.URL+"/api/v1/booking/check-availability", map[string]any{
		"date": futureDate(), "duration": 30,
	}, nil)
	second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &fakeCalendar{}, &fakeNotifier{}, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestOAuthRedirect(t *testing.T) {
	ts := newTestServer(t, &fakeCalendar{}, &fakeNotifier{}, nil)

	resp, err := noRedirectClient().Get(ts.URL + "/api/auth/google")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	location := resp.Header.Get("Location")
	assert.Contains(t, location, "accounts.google.com")
	assert.Contains(t, location, "access_type=offline")
	assert.Contains(t, location, "prompt=consent")
	assert.Contains(t, location, "test-client")
}

func TestOAuthCallbackWithoutCode(t *testing.T) {
	ts := newTestServer(t, &fakeCalendar{}, &fakeNotifier{}, nil)

	resp, err := noRedirectClient().Get(ts.URL + "/api/auth/google/callback")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/admin/setup?error=no_code"))
}

func TestOAuthCallbackProviderError(t *testing.T) {
	ts := newTestServer(t, &fakeCalendar{}, &fakeNotifier{}, nil)

	resp, err := noRedirectClient().Get(ts.URL + "/api/auth/google/callback?error=access_denied")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/setup?error=access_denied", resp.Header.Get("Location"))
}
