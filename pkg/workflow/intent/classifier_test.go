package intent

import (
	"testing"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name      string
		utterance string
		want      Intent
	}{
		{name: "empty defaults to faqs", utterance: "", want: IntentFaqs},
		{name: "whitespace only defaults to faqs", utterance: "   ", want: IntentFaqs},
		{name: "handoff keyword", utterance: "I want a live agent", want: IntentHandoff},
		{name: "handoff phrase", utterance: "can I talk to human please", want: IntentHandoff},
		{name: "handoff typo within fuzzy threshold", utterance: "connect me to a humman", want: IntentHandoff},
		{name: "appointment keyword", utterance: "I'd like to book a visit", want: IntentAppointment},
		{name: "appointment over faq priority", utterance: "how do I schedule something", want: IntentAppointment},
		{name: "contact keyword", utterance: "what are your opening hours", want: IntentContactInfo},
		{name: "location phrase wins", utterance: "where is the clinic", want: IntentContactInfo},
		{name: "bare location word with context", utterance: "office location", want: IntentContactInfo},
		{name: "possessive location form", utterance: "where's the clinic?", want: IntentContactInfo},
		{name: "run-together location form", utterance: "wheres your clinic", want: IntentContactInfo},
		{name: "question mark routes to faqs", utterance: "do you do implants?", want: IntentFaqs},
		{name: "faq phrase", utterance: "tell me about teeth whitening", want: IntentFaqs},
		{name: "unmatched text defaults to faqs", utterance: "blue bicycle", want: IntentFaqs},
		{name: "punctuation trimmed before matching", utterance: "appointment!", want: IntentAppointment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.utterance)
			if got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestIsLocationQuery(t *testing.T) {
	tests := []struct {
		utterance string
		want      bool
	}{
		{"where is your office", true},
		{"directions to the clinic", true},
		{"address", true},
		{"what is the office address", true},
		{"where's the clinic?", true},
		{"wheres your clinic", true},
		{"book an appointment", false},
		{"my name is Ada", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			got := IsLocationQuery(tt.utterance)
			if got != tt.want {
				t.Errorf("IsLocationQuery(%q) = %v, want %v", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"human", "human", 1.0},
		{"humman", "human", 1.0 - 1.0/6.0},
		{"", "human", 0.0},
		{"", "", 1.0},
	}

	for _, tt := range tests {
		got := Similarity(tt.a, tt.b)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Similarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

// A single-character typo on a five-letter keyword sits just above the
// cutoff; anything looser must not match.
func TestSimilarityThresholdIsStrict(t *testing.T) {
	if s := Similarity("humman", "human"); s <= SimilarityThreshold {
		t.Errorf("Similarity(humman, human) = %f, expected above %f", s, SimilarityThreshold)
	}
	if s := Similarity("hummman", "human"); s > SimilarityThreshold {
		t.Errorf("Similarity(hummman, human) = %f, expected at or below %f", s, SimilarityThreshold)
	}
}
