package appointment

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"clinic-assist-be/pkg/calendar"
	"clinic-assist-be/pkg/workflow"
	"clinic-assist-be/pkg/workflow/intent"
)

type fakeScheduler struct {
	link    string
	err     error
	calls   int
	lastReq calendar.Booking
}

func (f *fakeScheduler) Book(_ context.Context, b calendar.Booking) (string, error) {
	f.calls++
	f.lastReq = b
	if f.err != nil {
		return "", f.err
	}
	return f.link, nil
}

func newTestFlow(s calendar.Scheduler) *Flow {
	f := NewFlow(s, log.New(io.Discard, "", 0))
	f.clock = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) }
	return f
}

// applyResult folds a handler result into a state map the way the session
// store merge does: set fields, then remove cleared keys.
func applyResult(state map[string]string, res *workflow.Result) {
	for k, v := range res.Set {
		state[k] = v
	}
	for _, k := range res.Clear {
		delete(state, k)
	}
}

func handle(t *testing.T, f *Flow, state map[string]string, msg string) *workflow.Result {
	t.Helper()
	res, err := f.Handle(context.Background(), &workflow.Turn{
		SessionKey: "user_42_web",
		Message:    msg,
		State:      workflow.StateFromMap(state),
	})
	if err != nil {
		t.Fatalf("Handle(%q) returned error: %v", msg, err)
	}
	applyResult(state, res)
	return res
}

func TestFlowFullBookingRoundTrip(t *testing.T) {
	sched := &fakeScheduler{link: "https://cal.example/evt/123"}
	f := newTestFlow(sched)
	state := map[string]string{}

	res := handle(t, f, state, "book appointment")
	if res.Text != askNamePrompt {
		t.Fatalf("turn 1 text = %q, want name prompt", res.Text)
	}

	res = handle(t, f, state, "Ada")
	if res.Text != askDatePrompt {
		t.Fatalf("turn 2 text = %q, want date prompt", res.Text)
	}
	if state[workflow.KeyPatientName] != "Ada" {
		t.Fatalf("patient_name = %q, want Ada", state[workflow.KeyPatientName])
	}

	res = handle(t, f, state, "2025-05-05")
	if res.Text != askTimePrompt {
		t.Fatalf("turn 3 text = %q, want time prompt", res.Text)
	}

	res = handle(t, f, state, "3 PM")

	if sched.calls != 1 {
		t.Fatalf("scheduler calls = %d, want 1", sched.calls)
	}
	for _, want := range []string{"Ada", "2025-05-05", "3 PM", "https://cal.example/evt/123"} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("confirmation missing %q in %q", want, res.Text)
		}
	}
	if sched.lastReq.DurationMinutes != calendar.DefaultDurationMinutes {
		t.Errorf("duration = %d, want %d", sched.lastReq.DurationMinutes, calendar.DefaultDurationMinutes)
	}

	if res.Booking == nil || res.Booking.PatientName != "Ada" {
		t.Fatalf("Booking = %+v, want details for Ada", res.Booking)
	}

	// The completing merge must leave no slot fields behind.
	for _, key := range []string{
		workflow.KeyPatientName, workflow.KeyAppointmentDate,
		workflow.KeyAppointmentTime, workflow.KeyAwaiting, workflow.KeyPendingIntent,
	} {
		if _, ok := state[key]; ok {
			t.Errorf("state still holds %q after completion", key)
		}
	}
	if state[workflow.KeyIntent] != string(intent.IntentAppointmentCompleted) {
		t.Errorf("intent = %q, want %q", state[workflow.KeyIntent], intent.IntentAppointmentCompleted)
	}
	if state[workflow.KeyAppointmentStatus] != "booked" {
		t.Errorf("appointment_status = %q, want booked", state[workflow.KeyAppointmentStatus])
	}
}

func TestFlowRelativeDateShortcuts(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"today", "2025-05-01"},
		{"now", "2025-05-01"},
		{"asap", "2025-05-01"},
		{"tomorrow", "2025-05-02"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			sched := &fakeScheduler{link: "x"}
			f := newTestFlow(sched)
			state := map[string]string{
				workflow.KeyPatientName: "Ada",
				workflow.KeyAwaiting:    workflow.KeyAppointmentDate,
			}

			res := handle(t, f, state, tt.msg)

			if state[workflow.KeyAppointmentDate] != tt.want {
				t.Errorf("appointment_date = %q, want %q", state[workflow.KeyAppointmentDate], tt.want)
			}
			if state[workflow.KeyAwaiting] != workflow.KeyAppointmentTime {
				t.Errorf("awaiting = %q, want appointment_time", state[workflow.KeyAwaiting])
			}
			if res.Text != askTimePrompt {
				t.Errorf("text = %q, want time prompt", res.Text)
			}
			if sched.calls != 0 {
				t.Errorf("scheduler calls = %d, want 0", sched.calls)
			}
		})
	}
}

func TestFlowCapturesTimeOutOfOrder(t *testing.T) {
	sched := &fakeScheduler{link: "x"}
	f := newTestFlow(sched)
	state := map[string]string{
		workflow.KeyAwaiting: workflow.KeyPatientName,
	}

	// A time-like answer while the name is awaited fills the time slot,
	// and the machine keeps asking for the name.
	res := handle(t, f, state, "3 PM")

	if state[workflow.KeyAppointmentTime] != "3 PM" {
		t.Errorf("appointment_time = %q, want 3 PM", state[workflow.KeyAppointmentTime])
	}
	if state[workflow.KeyPatientName] != "" {
		t.Errorf("patient_name = %q, want empty", state[workflow.KeyPatientName])
	}
	if res.Text != askNamePrompt {
		t.Errorf("text = %q, want name prompt", res.Text)
	}
}

func TestFlowBookingFailurePreservesSlots(t *testing.T) {
	sched := &fakeScheduler{err: errors.New("invalid time")}
	f := newTestFlow(sched)
	state := map[string]string{
		workflow.KeyPatientName:     "Ada",
		workflow.KeyAppointmentDate: "2025-05-05",
		workflow.KeyAwaiting:        workflow.KeyAppointmentTime,
	}

	res := handle(t, f, state, "3 PM")

	if res.Text != bookingFailedMessage {
		t.Fatalf("text = %q, want booking failed message", res.Text)
	}
	if state[workflow.KeyPatientName] != "Ada" || state[workflow.KeyAppointmentDate] != "2025-05-05" {
		t.Errorf("slot fields were lost on failure: %v", state)
	}
	if res.Booking != nil {
		t.Errorf("Booking = %+v, want nil on failure", res.Booking)
	}
}

func TestFlowRestartClearsStaleDraft(t *testing.T) {
	sched := &fakeScheduler{link: "x"}
	f := newTestFlow(sched)
	state := map[string]string{
		workflow.KeyPatientName:     "Old Name",
		workflow.KeyAppointmentDate: "2020-01-01",
	}

	res := handle(t, f, state, "book appointment")

	if res.Text != askNamePrompt {
		t.Fatalf("text = %q, want name prompt", res.Text)
	}
	if _, ok := state[workflow.KeyPatientName]; ok {
		t.Errorf("stale patient_name survived restart")
	}
	if state[workflow.KeyAwaiting] != workflow.KeyPatientName {
		t.Errorf("awaiting = %q, want patient_name", state[workflow.KeyAwaiting])
	}
}

func TestFlowCompletedDraftDoesNotRebook(t *testing.T) {
	sched := &fakeScheduler{link: "x"}
	f := newTestFlow(sched)
	state := map[string]string{
		workflow.KeyPatientName:     "Ada",
		workflow.KeyAppointmentDate: "2025-05-05",
		workflow.KeyAwaiting:        workflow.KeyAppointmentTime,
	}

	handle(t, f, state, "3 PM")
	if sched.calls != 1 {
		t.Fatalf("scheduler calls = %d, want 1", sched.calls)
	}

	// Slots are gone, so a later unrelated message restarts slot filling
	// instead of booking again.
	res := handle(t, f, state, "thanks")
	if sched.calls != 1 {
		t.Errorf("scheduler calls = %d after follow-up, want 1", sched.calls)
	}
	if res.Text != askNamePrompt {
		t.Errorf("text = %q, want name prompt", res.Text)
	}
}
