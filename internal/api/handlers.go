package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"w9booking/internal/models"
	"w9booking/internal/service"
)

// validationErrs maps to a 400 before any provider call is made.
var validationErrs = []error{
	models.ErrMissingClientName,
	models.ErrMissingClientEmail,
	models.ErrInvalidClientEmail,
	models.ErrMissingDate,
	models.ErrPastDate,
	models.ErrInvalidDuration,
	models.ErrInvalidBookingType,
}

func isValidationError(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func (s *HTTPServer) handleCheckAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var body struct {
		Date     string `json:"date"`
		Duration int    `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}

	if body.Date == "" || body.Duration == 0 {
		writeError(w, http.StatusBadRequest, "Date and duration are required", "")
		return
	}

	date, err := time.Parse(time.RFC3339, body.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected RFC 3339", "")
		return
	}

	available, err := s.bookings.CheckAvailability(r.Context(), date, body.Duration)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to check availability", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}

	idemToken := strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	result, err := s.bookings.CreateBooking(r.Context(), &req, idemToken)
	if err != nil {
		switch {
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, "Missing required booking information", err.Error())
		case errors.Is(err, service.ErrSlotUnavailable):
			writeError(w, http.StatusConflict, "Requested time slot is not available", "")
		case errors.Is(err, service.ErrDuplicateInFlight):
			writeError(w, http.StatusConflict, err.Error(), "")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create booking", err.Error())
		}
		return
	}

	message := "Booking created successfully! Check your email for confirmation."
	if result.Replayed {
		message = "Booking already created for this request."
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"booking": result.Event,
		"message": message,
	})
}

func (s *HTTPServer) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var body struct {
		EventID     string `json:"event_id"`
		ClientEmail string `json:"client_email"`
		ClientName  string `json:"client_name"`
		Reason      string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if strings.TrimSpace(body.EventID) == "" {
		writeError(w, http.StatusBadRequest, "event_id is required", "")
		return
	}

	err := s.bookings.CancelBooking(r.Context(), body.EventID, body.ClientEmail, body.ClientName, body.Reason)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to cancel booking", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Booking cancelled successfully",
	})
}

func (s *HTTPServer) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	days := s.parseDays(r)
	summaries, err := s.bookings.ListUpcoming(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bookings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": summaries})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	days := s.parseDays(r)
	buf, fileName, err := s.bookings.ExportUpcoming(r.Context(), days, s.cfg.Booking.Location())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export bookings", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *HTTPServer) parseDays(r *http.Request) int {
	days := s.cfg.Booking.UpcomingDays
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}
	return days
}
