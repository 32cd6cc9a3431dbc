package responder

import (
	"fmt"
	"net/url"
	"strings"
)

// ClinicInfo is the fixed knowledge the deterministic responders fill
// their templates from. Typically sourced from the bot configuration.
type ClinicInfo struct {
	Name           string
	Address        string
	Phone          string
	Email          string
	Hours          string
	Parking        string
	Transit        string
	WhatsAppNumber string
}

// DefaultClinicInfo is used when a bot has no contact details configured.
var DefaultClinicInfo = ClinicInfo{
	Name:           "Dental Clinic",
	Address:        "123 Dental St., Cityville",
	Phone:          "+1-234-567-890",
	Email:          "contact@clinic.com",
	Hours:          "Monday-Friday, 9 AM-5 PM",
	Parking:        "Free patient parking is available behind the building.",
	Transit:        "Bus lines 12 and 46 stop directly in front of the clinic.",
	WhatsAppNumber: "1234567890",
}

// MapLink builds a maps search URL for the clinic address.
func (c ClinicInfo) MapLink() string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(c.Address)
}

// StaticResponder answers contact-info, handoff, intake and fallback
// intents from templates only. Pure and deterministic: no external calls.
type StaticResponder struct {
	info ClinicInfo
}

func NewStaticResponder(info ClinicInfo) *StaticResponder {
	if info.Name == "" {
		info = DefaultClinicInfo
	}
	return &StaticResponder{info: info}
}

// ContactInfo selects the sub-template by keyword containment: parking,
// transit, location-only, or the full contact card.
func (r *StaticResponder) ContactInfo(utterance string) string {
	t := strings.ToLower(utterance)

	switch {
	case strings.Contains(t, "parking"):
		return fmt.Sprintf("🅿️ %s\n\n📍 %s\n🗺️ %s",
			r.info.Parking, r.info.Address, r.info.MapLink())
	case strings.Contains(t, "transit"), strings.Contains(t, "bus"), strings.Contains(t, "train"):
		return fmt.Sprintf("🚌 %s\n\n📍 %s\n🗺️ %s",
			r.info.Transit, r.info.Address, r.info.MapLink())
	case strings.Contains(t, "location"), strings.Contains(t, "where"),
		strings.Contains(t, "address"), strings.Contains(t, "directions"):
		return fmt.Sprintf("📍 %s is located at %s.\n🗺️ Directions: %s",
			r.info.Name, r.info.Address, r.info.MapLink())
	default:
		return fmt.Sprintf(
			"Our clinic is open %s at %s.\nCall us at %s or email %s.\n🗺️ Find us: %s",
			r.info.Hours, r.info.Address, r.info.Phone, r.info.Email, r.info.MapLink())
	}
}

// Handoff hands the user to live support on WhatsApp.
func (r *StaticResponder) Handoff() string {
	return fmt.Sprintf(
		"I'm connecting you to our live support on WhatsApp.\nClick here: %s",
		whatsAppLink(r.info.WhatsAppNumber))
}

// Intake is the legacy patient-intake prompt.
func (r *StaticResponder) Intake() string {
	return "To register as a patient I'll need your name, age, medical history and reason for visit. A staff member will guide you through the rest."
}

// Fallback is the generic response when no handler produced an answer.
func (r *StaticResponder) Fallback() string {
	return fmt.Sprintf(
		"I'm sorry, I can help with questions about %s, booking appointments, or connecting you to a human agent. How can I help you?",
		r.info.Name)
}

func whatsAppLink(number string) string {
	return "https://wa.me/" + number
}
