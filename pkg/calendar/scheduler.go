package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultDurationMinutes is the fixed appointment slot length.
const DefaultDurationMinutes = 30

// Booking is the request handed to the external scheduling service.
type Booking struct {
	PatientName     string `json:"patient_name"`
	Date            string `json:"date"` // YYYY-MM-DD
	Time            string `json:"time"` // "H[:MM] AM/PM"
	DurationMinutes int    `json:"duration_minutes"`
}

// Scheduler books appointments against an external calendar capability.
type Scheduler interface {
	// Book reserves a slot and returns a confirmation link or reference.
	Book(ctx context.Context, booking Booking) (string, error)
}

// HTTPScheduler talks to a REST scheduling service. When the service is
// unreachable it falls back to a locally generated placeholder reference so
// the booking flow never hard-fails on scheduler outage alone.
type HTTPScheduler struct {
	BaseURL string
	Client  *http.Client
	logger  *log.Logger
}

var _ Scheduler = &HTTPScheduler{}

func NewHTTPScheduler(baseURL string, logger *log.Logger) *HTTPScheduler {
	return &HTTPScheduler{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

type bookResponse struct {
	Link      string `json:"link"`
	Reference string `json:"reference"`
}

func (s *HTTPScheduler) Book(ctx context.Context, booking Booking) (string, error) {
	if booking.DurationMinutes <= 0 {
		booking.DurationMinutes = DefaultDurationMinutes
	}

	// No scheduler configured: local placeholder reference.
	if s.BaseURL == "" {
		return s.placeholderLink(booking), nil
	}

	payload, err := json.Marshal(booking)
	if err != nil {
		return "", fmt.Errorf("marshal booking: %w", err)
	}

	url := s.BaseURL + "/api/v1/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		// Unreachable scheduler must not sink the user flow.
		s.logger.Printf("[CALENDAR] Scheduler unreachable, using placeholder: %v", err)
		return s.placeholderLink(booking), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		s.logger.Printf("[CALENDAR] Scheduler error %d, using placeholder", resp.StatusCode)
		return s.placeholderLink(booking), nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("scheduler rejected booking: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed bookResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Link != "" {
		return parsed.Link, nil
	}
	if parsed.Reference != "" {
		return parsed.Reference, nil
	}
	return s.placeholderLink(booking), nil
}

func (s *HTTPScheduler) placeholderLink(booking Booking) string {
	ref := uuid.NewString()[:8]
	s.logger.Printf("[CALENDAR] Placeholder booking %s for %s on %s at %s",
		ref, booking.PatientName, booking.Date, booking.Time)
	return "https://appointments.local/confirm/" + ref
}
