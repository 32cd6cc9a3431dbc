package calendar

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestBookAgainstLiveScheduler(t *testing.T) {
	var received Booking
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/events" {
			t.Errorf("path = %q, want /api/v1/events", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"link": "https://cal.example/evt/9"})
	}))
	defer srv.Close()

	s := NewHTTPScheduler(srv.URL, testLogger())
	link, err := s.Book(context.Background(), Booking{
		PatientName: "Ada",
		Date:        "2025-05-05",
		Time:        "3 PM",
	})
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if link != "https://cal.example/evt/9" {
		t.Errorf("link = %q, want scheduler link", link)
	}
	if received.DurationMinutes != DefaultDurationMinutes {
		t.Errorf("duration = %d, want default %d", received.DurationMinutes, DefaultDurationMinutes)
	}
}

func TestBookFallsBackWhenUnconfigured(t *testing.T) {
	s := NewHTTPScheduler("", testLogger())
	link, err := s.Book(context.Background(), Booking{PatientName: "Ada"})
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if !strings.HasPrefix(link, "https://appointments.local/confirm/") {
		t.Errorf("link = %q, want local placeholder", link)
	}
}

func TestBookFallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use: connection refused

	s := NewHTTPScheduler(srv.URL, testLogger())
	link, err := s.Book(context.Background(), Booking{PatientName: "Ada"})
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if !strings.HasPrefix(link, "https://appointments.local/confirm/") {
		t.Errorf("link = %q, want local placeholder", link)
	}
}

func TestBookFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewHTTPScheduler(srv.URL, testLogger())
	link, err := s.Book(context.Background(), Booking{PatientName: "Ada"})
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if !strings.HasPrefix(link, "https://appointments.local/confirm/") {
		t.Errorf("link = %q, want local placeholder", link)
	}
}

func TestBookSurfacesClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "time slot taken", http.StatusConflict)
	}))
	defer srv.Close()

	s := NewHTTPScheduler(srv.URL, testLogger())
	if _, err := s.Book(context.Background(), Booking{PatientName: "Ada"}); err == nil {
		t.Fatal("Book should return an error on 4xx rejection")
	}
}
