package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRequest(now time.Time) BookingRequest {
	return BookingRequest{
		ClientName:  "Juan Dela Cruz",
		ClientEmail: "juan@agency.com",
		Company:     "Agency Inc",
		Date:        now.Add(48 * time.Hour),
		Duration:    30,
		Type:        TypeConsultation,
	}
}

func TestValidate(t *testing.T) {
	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(r *BookingRequest)
		wantErr error
	}{
		{"valid", func(r *BookingRequest) {}, nil},
		{"missing name", func(r *BookingRequest) { r.ClientName = "  " }, ErrMissingClientName},
		{"missing email", func(r *BookingRequest) { r.ClientEmail = "" }, ErrMissingClientEmail},
		{"malformed email", func(r *BookingRequest) { r.ClientEmail = "not-an-email" }, ErrInvalidClientEmail},
		{"missing date", func(r *BookingRequest) { r.Date = time.Time{} }, ErrMissingDate},
		{"past date", func(r *BookingRequest) { r.Date = now.Add(-time.Hour) }, ErrPastDate},
		{"zero duration", func(r *BookingRequest) { r.Duration = 0 }, ErrInvalidDuration},
		{"negative duration", func(r *BookingRequest) { r.Duration = -15 }, ErrInvalidDuration},
		{"unknown type", func(r *BookingRequest) { r.Type = "karaoke" }, ErrInvalidBookingType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(now)
			tt.mutate(&req)

			err := req.Validate(now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	req := BookingRequest{Date: start, Duration: 45}

	gotStart, gotEnd := req.Window()
	assert.Equal(t, start, gotStart)
	assert.Equal(t, start.Add(45*time.Minute), gotEnd)
}

func TestBookingTypeLabel(t *testing.T) {
	assert.Equal(t, "Consultation", TypeConsultation.Label())
	assert.Equal(t, "Studio", TypeStudio.Label())
	assert.Equal(t, "Production", TypeProduction.Label())
	assert.Equal(t, "", BookingType("").Label())
}

func TestBookingTypeValid(t *testing.T) {
	assert.True(t, TypeConsultation.Valid())
	assert.True(t, TypeStudio.Valid())
	assert.True(t, TypeProduction.Valid())
	assert.False(t, BookingType("webinar").Valid())
}
