package responder

import (
	"strings"
	"testing"
)

func TestContactInfoSubTemplates(t *testing.T) {
	r := NewStaticResponder(ClinicInfo{})

	tests := []struct {
		name      string
		utterance string
		contains  []string
		excludes  []string
	}{
		{
			name:      "parking only",
			utterance: "is there parking nearby",
			contains:  []string{DefaultClinicInfo.Parking, DefaultClinicInfo.Address},
			excludes:  []string{DefaultClinicInfo.Phone},
		},
		{
			name:      "transit only",
			utterance: "can I take the bus there",
			contains:  []string{DefaultClinicInfo.Transit},
			excludes:  []string{DefaultClinicInfo.Phone},
		},
		{
			name:      "location only",
			utterance: "where are you located",
			contains:  []string{DefaultClinicInfo.Address, "maps"},
			excludes:  []string{DefaultClinicInfo.Phone},
		},
		{
			name:      "full card by default",
			utterance: "how can I contact you",
			contains:  []string{DefaultClinicInfo.Phone, DefaultClinicInfo.Email, DefaultClinicInfo.Hours},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ContactInfo(tt.utterance)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("response missing %q: %q", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("response should not contain %q: %q", bad, got)
				}
			}
		})
	}
}

func TestContactInfoIsDeterministic(t *testing.T) {
	r := NewStaticResponder(DefaultClinicInfo)
	a := r.ContactInfo("where is the clinic")
	b := r.ContactInfo("where is the clinic")
	if a != b {
		t.Errorf("same utterance produced different responses")
	}
}

func TestMapLinkEscapesAddress(t *testing.T) {
	info := ClinicInfo{Address: "123 Dental St., Cityville"}
	link := info.MapLink()
	if strings.Contains(link, " ") {
		t.Errorf("map link contains unescaped space: %q", link)
	}
	if !strings.HasPrefix(link, "https://www.google.com/maps/search/") {
		t.Errorf("unexpected map link base: %q", link)
	}
}

func TestHandoffContainsWhatsAppLink(t *testing.T) {
	r := NewStaticResponder(ClinicInfo{Name: "Clinic", WhatsAppNumber: "5550001"})
	got := r.Handoff()
	if !strings.Contains(got, "https://wa.me/5550001") {
		t.Errorf("handoff missing WhatsApp link: %q", got)
	}
}

func TestEmptyInfoFallsBackToDefaults(t *testing.T) {
	r := NewStaticResponder(ClinicInfo{})
	got := r.Fallback()
	if !strings.Contains(got, DefaultClinicInfo.Name) {
		t.Errorf("fallback missing default clinic name: %q", got)
	}
}
