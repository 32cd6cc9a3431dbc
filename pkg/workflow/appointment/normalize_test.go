package appointment

import (
	"testing"
	"time"
)

var normalizeNow = time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "iso passthrough", raw: "2025-05-05", want: "2025-05-05"},
		{name: "slash separators", raw: "2025/05/05", want: "2025-05-05"},
		{name: "day first", raw: "05-06-2025", want: "2025-06-05"},
		{name: "dotted", raw: "2025.05.05", want: "2025-05-05"},
		{name: "surrounding words stripped", raw: "on 2025-05-05 please", want: "2025-05-05"},
		{name: "empty defaults to today", raw: "", want: "2025-05-01"},
		{name: "garbage defaults to today", raw: "whenever", want: "2025-05-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.raw, normalizeNow)
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain meridiem", raw: "3 PM", want: "3 PM"},
		{name: "lowercase with minutes", raw: "3:30 pm", want: "3:30 PM"},
		{name: "named period morning", raw: "morning", want: "9 AM"},
		{name: "named period inside sentence", raw: "sometime in the afternoon", want: "2 PM"},
		{name: "24 hour converts", raw: "15:00", want: "3 PM"},
		{name: "24 hour with minutes", raw: "18:45", want: "6:45 PM"},
		{name: "midnight wraps to 12 AM", raw: "0:00", want: "12 AM"},
		{name: "empty defaults", raw: "", want: "2 PM"},
		{name: "garbage defaults", raw: "soonish", want: "2 PM"},
		{name: "out of range defaults", raw: "25:00", want: "2 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTime(tt.raw)
			if got != tt.want {
				t.Errorf("NormalizeTime(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsTimeExpression(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"3 pm", true},
		{"10:15 am", true},
		{"morning", true},
		{"late evening works", true},
		{"tomorrow", false},
		{"Ada Lovelace", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsTimeExpression(tt.raw); got != tt.want {
			t.Errorf("IsTimeExpression(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
