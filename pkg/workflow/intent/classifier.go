package intent

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Intent is the discrete classification of a user utterance.
type Intent string

const (
	IntentAppointment Intent = "appointment"
	IntentFaqs        Intent = "faqs"
	IntentContactInfo Intent = "contact_info"
	IntentHandoff     Intent = "handoff"
	IntentIntake      Intent = "intake" // legacy, never emitted by the classifier

	// Terminal marker written by the appointment flow, never classified.
	IntentAppointmentCompleted Intent = "appointment_completed"
)

// SimilarityThreshold is the fuzzy match cutoff. A token matches a keyword
// only when the normalized similarity is STRICTLY above this value.
const SimilarityThreshold = 0.8

// Keyword lists per category, checked in this fixed priority order.
var (
	handoffKeywords     = []string{"live", "human", "whatsapp", "agent", "support"}
	appointmentKeywords = []string{"book", "appointment", "schedule", "visit", "dentist", "checkup"}
	contactKeywords     = []string{"contact", "address", "hours", "timing", "location", "reach"}
	faqKeywords         = []string{"faq", "how", "why", "explain", "information", "details", "guide", "help"}

	// Multi-word phrases matched by plain substring containment. Fuzzy
	// token matching cannot see phrases, so this is a separate pass.
	handoffPhrases = []string{"talk to human", "connect to human", "live chat"}
	faqPhrases     = []string{"what is", "tell me about", "?"}

	// Location fast-path vocabulary. Short location queries were observed
	// to misroute through fuzzy matching, so these checks run before
	// everything else and win unconditionally.
	locationPhrases = []string{
		"where is", "where are", "location of", "office location",
		"how do i get", "how to get to", "directions to",
	}
	locationKeywords = []string{"location", "address", "where", "office", "directions"}
)

// Classifier maps raw utterance text to an Intent. It is stateless and safe
// for concurrent use.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify detects the intent of an utterance. Pure function of the text:
// same input always yields the same output.
func (c *Classifier) Classify(utterance string) Intent {
	t := strings.ToLower(strings.TrimSpace(utterance))
	if t == "" {
		return IntentFaqs
	}

	if IsLocationQuery(t) {
		return IntentContactInfo
	}

	tokens := strings.Fields(t)

	if containsAnyPhrase(t, handoffPhrases) || anyTokenMatches(tokens, handoffKeywords) {
		return IntentHandoff
	}
	if anyTokenMatches(tokens, appointmentKeywords) {
		return IntentContactIfLocation(t, IntentAppointment)
	}
	if anyTokenMatches(tokens, contactKeywords) {
		return IntentContactInfo
	}
	if containsAnyPhrase(t, faqPhrases) || anyTokenMatches(tokens, faqKeywords) {
		return IntentFaqs
	}

	return IntentFaqs
}

// IsLocationQuery reports whether an utterance is a location/address query.
// Exported because the orchestrator lets this fast-path override an active
// pending intent, which ordinary classification must not do.
func IsLocationQuery(utterance string) bool {
	t := strings.ToLower(strings.TrimSpace(utterance))
	if t == "" {
		return false
	}

	for _, p := range locationPhrases {
		if strings.Contains(t, p) {
			return true
		}
	}

	// Direct keywords match by containment, not token equality, so
	// possessive and run-together forms ("where's", "wheres") still route
	// to contact info.
	for _, kw := range locationKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}

	return false
}

// IntentContactIfLocation guards against location queries that also carry an
// appointment-ish token ("dental office location"): the location reading wins.
func IntentContactIfLocation(t string, fallback Intent) Intent {
	if IsLocationQuery(t) {
		return IntentContactInfo
	}
	return fallback
}

// Similarity returns a normalized edit-distance ratio in [0,1]. Identical
// strings score 1.0, fully distinct strings approach 0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

func anyTokenMatches(tokens []string, keywords []string) bool {
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,!?")
		if tok == "" {
			continue
		}
		for _, kw := range keywords {
			if Similarity(tok, kw) > SimilarityThreshold {
				return true
			}
		}
	}
	return false
}

func containsAnyPhrase(t string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}
