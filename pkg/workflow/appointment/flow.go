package appointment

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"clinic-assist-be/pkg/calendar"
	"clinic-assist-be/pkg/workflow"
	"clinic-assist-be/pkg/workflow/intent"
)

// slotState is the explicit per-turn state of the booking draft, derived
// once from which slot fields are missing. The name → date → time order is
// fixed; prompts downstream assume it.
type slotState int

const (
	stateNeedName slotState = iota
	stateNeedDate
	stateNeedTime
	stateReadyToBook
)

func slotStateOf(s workflow.DialogState) slotState {
	switch {
	case s.PatientName == "":
		return stateNeedName
	case s.AppointmentDate == "":
		return stateNeedDate
	case s.AppointmentTime == "":
		return stateNeedTime
	default:
		return stateReadyToBook
	}
}

const (
	askNamePrompt = "👤 What's your full name?"
	askDatePrompt = "📅 What date would you like to book? (e.g., today, tomorrow, 2025-05-05)"
	askTimePrompt = "⏰ What time would you prefer? (e.g., morning, afternoon, 3 PM)"

	bookingFailedMessage = "❌ Sorry, I couldn't book your appointment right now. Would you like to try again with a different time?"
)

var restartPhrases = map[string]bool{
	"book appointment":     true,
	"schedule appointment": true,
	"new appointment":      true,
}

// Flow is the multi-turn appointment booking handler.
type Flow struct {
	scheduler calendar.Scheduler
	logger    *log.Logger
	clock     func() time.Time
}

func NewFlow(scheduler calendar.Scheduler, logger *log.Logger) *Flow {
	return &Flow{
		scheduler: scheduler,
		logger:    logger,
		clock:     time.Now,
	}
}

// Handle advances the booking draft by one turn. It never books twice for
// the same draft: the completion result clears every slot field and the
// pending intent in the same state update that records completion.
func (f *Flow) Handle(ctx context.Context, turn *workflow.Turn) (*workflow.Result, error) {
	msg := strings.ToLower(strings.TrimSpace(turn.Message))
	state := turn.State
	res := &workflow.Result{}

	// Fresh start request while nothing is awaited: wipe any stale draft.
	if restartPhrases[msg] && state.Awaiting == "" {
		res.ClearKeys(workflow.KeyPatientName, workflow.KeyAppointmentDate, workflow.KeyAppointmentTime)
		res.SetValue(workflow.KeyAwaiting, workflow.KeyPatientName)
		res.Text = askNamePrompt
		return res, nil
	}

	captured := false

	// Out-of-order time answer: capture a time-like utterance even when the
	// machine was not asking for one.
	if IsTimeExpression(msg) && state.Awaiting != workflow.KeyAppointmentTime {
		state.AppointmentTime = strings.TrimSpace(turn.Message)
		res.SetValue(workflow.KeyAppointmentTime, state.AppointmentTime)
		f.logger.Printf("[APPOINTMENT] Captured out-of-order time input: %q", state.AppointmentTime)
		captured = true
	}

	// Relative-date shortcuts while the date is being asked for.
	if state.Awaiting == workflow.KeyAppointmentDate {
		switch msg {
		case "today", "now", "asap":
			state.AppointmentDate = f.clock().Format("2006-01-02")
		case "tomorrow":
			state.AppointmentDate = f.clock().AddDate(0, 0, 1).Format("2006-01-02")
		}
		if state.AppointmentDate != "" {
			res.SetValue(workflow.KeyAppointmentDate, state.AppointmentDate)
			if state.AppointmentTime == "" {
				res.SetValue(workflow.KeyAwaiting, workflow.KeyAppointmentTime)
				res.Text = askTimePrompt
				return res, nil
			}
			captured = true
		}
	}

	// Plain answer to whatever slot was last asked for.
	if !captured && state.Awaiting != "" && msg != "" {
		answer := strings.TrimSpace(turn.Message)
		switch state.Awaiting {
		case workflow.KeyPatientName:
			state.PatientName = answer
			res.SetValue(workflow.KeyPatientName, answer)
		case workflow.KeyAppointmentDate:
			state.AppointmentDate = answer
			res.SetValue(workflow.KeyAppointmentDate, answer)
		case workflow.KeyAppointmentTime:
			state.AppointmentTime = answer
			res.SetValue(workflow.KeyAppointmentTime, answer)
		}
	}

	// Ask for the first missing slot, in fixed order.
	switch slotStateOf(state) {
	case stateNeedName:
		res.SetValue(workflow.KeyAwaiting, workflow.KeyPatientName)
		res.Text = askNamePrompt
		return res, nil
	case stateNeedDate:
		res.SetValue(workflow.KeyAwaiting, workflow.KeyAppointmentDate)
		res.Text = askDatePrompt
		return res, nil
	case stateNeedTime:
		res.SetValue(workflow.KeyAwaiting, workflow.KeyAppointmentTime)
		res.Text = askTimePrompt
		return res, nil
	}

	return f.book(ctx, state, res)
}

func (f *Flow) book(ctx context.Context, state workflow.DialogState, res *workflow.Result) (*workflow.Result, error) {
	now := f.clock()
	date := NormalizeDate(state.AppointmentDate, now)
	slot := NormalizeTime(state.AppointmentTime)

	f.logger.Printf("[APPOINTMENT] Booking %s on %s at %s", state.PatientName, date, slot)

	link, err := f.scheduler.Book(ctx, calendar.Booking{
		PatientName:     state.PatientName,
		Date:            date,
		Time:            slot,
		DurationMinutes: calendar.DefaultDurationMinutes,
	})
	if err != nil {
		// Slot data stays untouched so the user is not asked to re-enter
		// what they already gave.
		f.logger.Printf("[APPOINTMENT] Booking failed: %v", err)
		res.Text = bookingFailedMessage
		return res, nil
	}

	res.Text = fmt.Sprintf(
		"✅ Perfect! Your appointment is booked successfully!\n\n"+
			"📋 Details:\n"+
			"👤 Name: %s\n"+
			"📅 Date: %s\n"+
			"⏰ Time: %s\n\n"+
			"🔗 Here is your appointment link: %s\n\n"+
			"You'll receive a reminder before your appointment. Is there anything else I can help you with?",
		state.PatientName, date, slot, link,
	)

	// Completion and draft clearing land in one state update. That single
	// merge is what prevents a reloaded session from booking again.
	res.SetValue(workflow.KeyIntent, string(intent.IntentAppointmentCompleted))
	res.SetValue(workflow.KeyAppointmentStatus, "booked")
	res.ClearKeys(
		workflow.KeyPatientName,
		workflow.KeyAppointmentDate,
		workflow.KeyAppointmentTime,
		workflow.KeyAwaiting,
		workflow.KeyPendingIntent,
	)
	res.Booking = &workflow.BookingDetails{
		PatientName: state.PatientName,
		Date:        date,
		Time:        slot,
		Reference:   link,
	}

	return res, nil
}
