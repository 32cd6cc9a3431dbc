package workflow

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"clinic-assist-be/pkg/workflow/intent"
)

type storedMessage struct {
	text   string
	sender string
}

type memoryStore struct {
	sessions map[string]map[string]string
	messages map[string][]storedMessage
	archived map[string]bool

	loadErr error
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: make(map[string]map[string]string),
		messages: make(map[string][]storedMessage),
		archived: make(map[string]bool),
	}
}

func (m *memoryStore) Load(_ context.Context, key string) (*Session, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	state, ok := m.sessions[key]
	if !ok {
		state = make(map[string]string)
		m.sessions[key] = state
	}
	copied := make(map[string]string, len(state))
	for k, v := range state {
		copied[k] = v
	}
	return &Session{Key: key, State: copied}, nil
}

func (m *memoryStore) AppendMessage(_ context.Context, key, text, sender string) error {
	m.messages[key] = append(m.messages[key], storedMessage{text: text, sender: sender})
	return nil
}

func (m *memoryStore) Save(_ context.Context, key string, set map[string]string, clear []string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	state, ok := m.sessions[key]
	if !ok {
		state = make(map[string]string)
		m.sessions[key] = state
	}
	for k, v := range set {
		state[k] = v
	}
	for _, k := range clear {
		delete(state, k)
	}
	return nil
}

func (m *memoryStore) Archive(_ context.Context, key string) error {
	m.archived[key] = true
	return nil
}

type stubHandler struct {
	result *Result
	err    error
	turns  []*Turn
}

func (s *stubHandler) Handle(_ context.Context, turn *Turn) (*Result, error) {
	s.turns = append(s.turns, turn)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubComposer struct {
	text    string
	sources []string
	calls   int
}

func (s *stubComposer) Compose(_ context.Context, _, _ string) (string, []string) {
	s.calls++
	return s.text, s.sources
}

type stubStatic struct{}

func (stubStatic) ContactInfo(_ string) string { return "contact card" }
func (stubStatic) Handoff() string             { return "handing off" }
func (stubStatic) Intake() string              { return "intake form" }
func (stubStatic) Fallback() string            { return "fallback" }

func newTestOrchestrator(store SessionStore, appointments Handler, composer AnswerComposer) *Orchestrator {
	return NewOrchestrator(
		store,
		intent.NewClassifier(),
		appointments,
		composer,
		stubStatic{},
		log.New(io.Discard, "", 0),
	)
}

func TestChatRecordsBothSidesOfTheTurn(t *testing.T) {
	store := newMemoryStore()
	comp := &stubComposer{text: "answer", sources: []string{"doc.md"}}
	o := newTestOrchestrator(store, &stubHandler{result: &Result{Text: "x"}}, comp)

	reply, err := o.Chat(context.Background(), "user_7_web", "bot-1", "what is a root canal?")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.Text != "answer" {
		t.Errorf("reply = %q, want composed answer", reply.Text)
	}

	msgs := store.messages["user_7_web"]
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want user + bot", len(msgs))
	}
	if msgs[0].sender != SenderUser || msgs[1].sender != SenderBot {
		t.Errorf("sender order = %q, %q", msgs[0].sender, msgs[1].sender)
	}

	state := store.sessions["user_7_web"]
	if state[KeyIntent] != string(intent.IntentFaqs) {
		t.Errorf("intent = %q, want faqs", state[KeyIntent])
	}
	if state[KeyUserID] != "7" {
		t.Errorf("user_id = %q, want 7 from session key", state[KeyUserID])
	}
	if state[KeyRetrievedSources] != "doc.md" {
		t.Errorf("retrieved_sources = %q, want doc.md", state[KeyRetrievedSources])
	}
}

func TestChatPendingIntentKeepsFlowActive(t *testing.T) {
	store := newMemoryStore()
	store.sessions["s1"] = map[string]string{
		KeyPendingIntent: string(intent.IntentAppointment),
		KeyAwaiting:      KeyPatientName,
	}
	flow := &stubHandler{result: &Result{Text: "date please?"}}
	comp := &stubComposer{text: "should not run"}
	o := newTestOrchestrator(store, flow, comp)

	// "Ada" classifies as faqs on its own; the pending flow must win.
	reply, err := o.Chat(context.Background(), "s1", "bot-1", "Ada")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.Text != "date please?" {
		t.Errorf("reply = %q, want flow prompt", reply.Text)
	}
	if comp.calls != 0 {
		t.Errorf("composer ran %d times during pending flow, want 0", comp.calls)
	}
	if store.sessions["s1"][KeyPendingIntent] != string(intent.IntentAppointment) {
		t.Errorf("pending_intent lost: %v", store.sessions["s1"])
	}
}

func TestChatLocationFastPathOverridesPendingFlow(t *testing.T) {
	store := newMemoryStore()
	store.sessions["s1"] = map[string]string{
		KeyPendingIntent: string(intent.IntentAppointment),
		KeyAwaiting:      KeyAppointmentTime,
	}
	flow := &stubHandler{result: &Result{Text: "flow"}}
	o := newTestOrchestrator(store, flow, &stubComposer{})

	reply, err := o.Chat(context.Background(), "s1", "bot-1", "what is the office address")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.Text != "contact card" {
		t.Errorf("reply = %q, want contact responder output", reply.Text)
	}
	if len(flow.turns) != 0 {
		t.Errorf("appointment flow ran %d times, want 0", len(flow.turns))
	}
}

func TestChatSetsPendingIntentOnAppointmentDispatch(t *testing.T) {
	store := newMemoryStore()
	flow := &stubHandler{result: &Result{Text: "name?"}}
	o := newTestOrchestrator(store, flow, &stubComposer{})

	if _, err := o.Chat(context.Background(), "s1", "bot-1", "book appointment"); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if store.sessions["s1"][KeyPendingIntent] != string(intent.IntentAppointment) {
		t.Errorf("pending_intent = %q, want appointment", store.sessions["s1"][KeyPendingIntent])
	}
}

func TestChatCompletionClearsPendingIntent(t *testing.T) {
	store := newMemoryStore()
	store.sessions["s1"] = map[string]string{
		KeyPendingIntent: string(intent.IntentAppointment),
	}
	done := &Result{Text: "booked!"}
	done.SetValue(KeyIntent, string(intent.IntentAppointmentCompleted))
	done.ClearKeys(KeyPatientName, KeyAppointmentDate, KeyAppointmentTime, KeyAwaiting, KeyPendingIntent)
	o := newTestOrchestrator(store, &stubHandler{result: done}, &stubComposer{})

	if _, err := o.Chat(context.Background(), "s1", "bot-1", "3 PM"); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	state := store.sessions["s1"]
	if _, ok := state[KeyPendingIntent]; ok {
		t.Errorf("pending_intent survived completion: %v", state)
	}
	if state[KeyIntent] != string(intent.IntentAppointmentCompleted) {
		t.Errorf("intent = %q, want appointment_completed", state[KeyIntent])
	}
}

func TestChatHandlerFailureFallsBackAndPersists(t *testing.T) {
	store := newMemoryStore()
	flow := &stubHandler{err: errors.New("scheduler exploded")}
	o := newTestOrchestrator(store, flow, &stubComposer{})

	reply, err := o.Chat(context.Background(), "s1", "bot-1", "book appointment")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.Text != DefaultApology {
		t.Errorf("reply = %q, want apology", reply.Text)
	}
	if reply.Sources == nil || len(reply.Sources) != 0 {
		t.Errorf("sources = %v, want empty non-nil", reply.Sources)
	}

	msgs := store.messages["s1"]
	if len(msgs) != 2 || !strings.Contains(msgs[1].text, "sorry") {
		t.Errorf("failed turn not persisted as history: %v", msgs)
	}
}

func TestChatHandoffArchivesSession(t *testing.T) {
	store := newMemoryStore()
	o := newTestOrchestrator(store, &stubHandler{result: &Result{Text: "x"}}, &stubComposer{})

	reply, err := o.Chat(context.Background(), "s1", "bot-1", "talk to human")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.Text != "handing off" {
		t.Errorf("reply = %q, want handoff text", reply.Text)
	}
	if !store.archived["s1"] {
		t.Error("session not archived on handoff")
	}
}

func TestChatSessionStoreFailureIsFatal(t *testing.T) {
	store := newMemoryStore()
	store.loadErr = errors.New("db down")
	o := newTestOrchestrator(store, &stubHandler{result: &Result{Text: "x"}}, &stubComposer{})

	if _, err := o.Chat(context.Background(), "s1", "bot-1", "hi"); err == nil {
		t.Fatal("Chat should fail when the session cannot be loaded")
	}

	store = newMemoryStore()
	store.saveErr = errors.New("db down")
	o = newTestOrchestrator(store, &stubHandler{result: &Result{Text: "x"}}, &stubComposer{})

	if _, err := o.Chat(context.Background(), "s1", "bot-1", "hi"); err == nil {
		t.Fatal("Chat should fail when the session cannot be saved")
	}
}

type recordingObserver struct {
	bookings []*BookingDetails
	handoffs []string
}

func (r *recordingObserver) BookingConfirmed(_ context.Context, _ string, b *BookingDetails) {
	r.bookings = append(r.bookings, b)
}

func (r *recordingObserver) HandoffRequested(_ context.Context, key string) {
	r.handoffs = append(r.handoffs, key)
}

func TestChatNotifiesObserverOfBookingAndHandoff(t *testing.T) {
	store := newMemoryStore()
	booked := &Result{
		Text:    "confirmed",
		Booking: &BookingDetails{PatientName: "Ada", Date: "2025-05-05", Time: "3 PM", Reference: "apt-1"},
	}
	booked.ClearKeys(KeyPendingIntent)
	o := newTestOrchestrator(store, &stubHandler{result: booked}, &stubComposer{})
	obs := &recordingObserver{}
	o.SetObserver(obs)

	if _, err := o.Chat(context.Background(), "s1", "bot-1", "book appointment"); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if len(obs.bookings) != 1 || obs.bookings[0].Reference != "apt-1" {
		t.Errorf("bookings = %+v, want one with reference apt-1", obs.bookings)
	}

	if _, err := o.Chat(context.Background(), "s2", "bot-1", "talk to human"); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if len(obs.handoffs) != 1 || obs.handoffs[0] != "s2" {
		t.Errorf("handoffs = %v, want [s2]", obs.handoffs)
	}
}

func TestChatSourcesNeverNil(t *testing.T) {
	store := newMemoryStore()
	o := newTestOrchestrator(store, &stubHandler{result: &Result{Text: "x"}}, &stubComposer{})

	reply, err := o.Chat(context.Background(), "s1", "bot-1", "where is the clinic")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.Sources == nil {
		t.Error("sources must be an empty list, not nil")
	}
}
