package workflow

import (
	"context"
	"log"
	"strings"

	"clinic-assist-be/pkg/workflow/intent"
)

// DefaultApology is returned when a handler fails mid-turn.
const DefaultApology = "I'm sorry, something went wrong on my end. Please try again in a moment."

// SessionStore is the narrow persistence surface the orchestrator needs.
// Load creates an empty session lazily for unseen keys. Save merges the
// given fields into the stored state and removes the cleared keys in the
// same update; it never replaces the whole state map.
type SessionStore interface {
	Load(ctx context.Context, sessionKey string) (*Session, error)
	AppendMessage(ctx context.Context, sessionKey, text, sender string) error
	Save(ctx context.Context, sessionKey string, set map[string]string, clear []string) error
	Archive(ctx context.Context, sessionKey string) error
}

// Handler processes one turn of a multi-turn flow.
type Handler interface {
	Handle(ctx context.Context, turn *Turn) (*Result, error)
}

// AnswerComposer produces a grounded answer with attribution for
// knowledge-base questions.
type AnswerComposer interface {
	Compose(ctx context.Context, query string, scopeKey string) (string, []string)
}

// StaticResponder answers template-only intents.
type StaticResponder interface {
	ContactInfo(utterance string) string
	Handoff() string
	Intake() string
	Fallback() string
}

// TurnObserver receives notifications about turn side effects after the
// session state has been persisted. Observers must not fail the turn;
// they run best-effort.
type TurnObserver interface {
	BookingConfirmed(ctx context.Context, sessionKey string, booking *BookingDetails)
	HandoffRequested(ctx context.Context, sessionKey string)
}

// Orchestrator runs the per-turn pipeline: load session, classify,
// dispatch to exactly one handler, persist merged state, reply.
type Orchestrator struct {
	store        SessionStore
	classifier   *intent.Classifier
	appointments Handler
	composer     AnswerComposer
	static       StaticResponder
	observer     TurnObserver
	logger       *log.Logger
}

func NewOrchestrator(store SessionStore, classifier *intent.Classifier, appointments Handler, composer AnswerComposer, static StaticResponder, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		store:        store,
		classifier:   classifier,
		appointments: appointments,
		composer:     composer,
		static:       static,
		logger:       logger,
	}
}

// SetObserver attaches a side-effect observer. Nil disables notifications.
func (o *Orchestrator) SetObserver(obs TurnObserver) {
	o.observer = obs
}

// Chat processes one user message for the given session and returns the
// bot reply. scopeKey selects the knowledge base the composer retrieves
// from. A session store failure is fatal to the turn; every other
// failure degrades to fallback text.
func (o *Orchestrator) Chat(ctx context.Context, sessionKey, scopeKey, message string) (*Reply, error) {
	sess, err := o.store.Load(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	if err := o.store.AppendMessage(ctx, sessionKey, message, SenderUser); err != nil {
		o.logger.Printf("append user message failed for %s: %v", sessionKey, err)
	}

	state := sess.Dialog()
	effective := o.effectiveIntent(message, state)

	turn := &Turn{SessionKey: sessionKey, Message: message, State: state}
	res, err := o.dispatch(ctx, effective, scopeKey, turn)
	if err != nil {
		o.logger.Printf("handler %s failed for %s: %v", effective, sessionKey, err)
		res = &Result{Text: DefaultApology, Sources: []string{}}
	}

	o.finalizeState(effective, sessionKey, state, res)

	if err := o.store.Save(ctx, sessionKey, res.Set, res.Clear); err != nil {
		return nil, err
	}

	if err := o.store.AppendMessage(ctx, sessionKey, res.Text, SenderBot); err != nil {
		o.logger.Printf("append bot message failed for %s: %v", sessionKey, err)
	}

	if res.Handoff {
		if err := o.store.Archive(ctx, sessionKey); err != nil {
			o.logger.Printf("archive on handoff failed for %s: %v", sessionKey, err)
		}
	}

	if o.observer != nil {
		if res.Booking != nil {
			o.observer.BookingConfirmed(ctx, sessionKey, res.Booking)
		}
		if res.Handoff {
			o.observer.HandoffRequested(ctx, sessionKey)
		}
	}

	sources := res.Sources
	if sources == nil {
		sources = []string{}
	}
	return &Reply{Text: res.Text, Sources: sources}, nil
}

// effectiveIntent resolves this turn's intent. A pending multi-turn flow
// overrides the fresh classification, but the location fast-path wins
// over even a pending flow.
func (o *Orchestrator) effectiveIntent(message string, state DialogState) intent.Intent {
	if intent.IsLocationQuery(message) {
		return intent.IntentContactInfo
	}
	if state.PendingIntent != "" {
		return state.PendingIntent
	}
	return o.classifier.Classify(message)
}

func (o *Orchestrator) dispatch(ctx context.Context, effective intent.Intent, scopeKey string, turn *Turn) (*Result, error) {
	switch effective {
	case intent.IntentAppointment:
		res, err := o.appointments.Handle(ctx, turn)
		if err != nil {
			return nil, err
		}
		// Keep the flow pending until the handler signals completion.
		if !clears(res, KeyPendingIntent) {
			res.SetValue(KeyPendingIntent, string(intent.IntentAppointment))
		}
		return res, nil
	case intent.IntentFaqs:
		text, sources := o.composer.Compose(ctx, turn.Message, scopeKey)
		return &Result{Text: text, Sources: sources}, nil
	case intent.IntentContactInfo:
		return &Result{Text: o.static.ContactInfo(turn.Message)}, nil
	case intent.IntentHandoff:
		return &Result{Text: o.static.Handoff(), Handoff: true}, nil
	case intent.IntentIntake:
		return &Result{Text: o.static.Intake()}, nil
	default:
		return &Result{Text: o.static.Fallback()}, nil
	}
}

// finalizeState records the bookkeeping fields every turn writes: the
// resolved intent (unless the handler already set a terminal one), the
// user id carried from the session key, and the sources shown this turn.
func (o *Orchestrator) finalizeState(effective intent.Intent, sessionKey string, state DialogState, res *Result) {
	if res.Set == nil || res.Set[KeyIntent] == "" {
		res.SetValue(KeyIntent, string(effective))
	}
	if state.UserID == "" {
		if id := UserIDFromSessionKey(sessionKey); id != "" {
			res.SetValue(KeyUserID, id)
		}
	}
	if len(res.Sources) > 0 {
		res.SetValue(KeyRetrievedSources, strings.Join(res.Sources, ", "))
	}
}

func clears(res *Result, key string) bool {
	for _, k := range res.Clear {
		if k == key {
			return true
		}
	}
	return false
}
