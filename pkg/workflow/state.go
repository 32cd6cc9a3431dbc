package workflow

import (
	"strings"
	"time"

	"clinic-assist-be/pkg/workflow/intent"
)

// Session state keys. The durable store keeps session state as a flat
// string map merged field-by-field on every save; these are the keys the
// workflow engine owns. Unknown keys written by other components survive
// untouched across turns.
const (
	KeyUserID            = "user_id"
	KeyIntent            = "intent"
	KeyPendingIntent     = "pending_intent"
	KeyAwaiting          = "awaiting"
	KeyPatientName       = "patient_name"
	KeyAppointmentDate   = "appointment_date"
	KeyAppointmentTime   = "appointment_time"
	KeyAppointmentStatus = "appointment_status"
	KeyRetrievedSources  = "retrieved_sources"
)

// Sender tags for message history entries.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// DialogState is the typed view of one session's flat state map for the
// duration of a single turn. Extra carries forward-compatible keys the
// engine does not interpret.
type DialogState struct {
	UserID            string
	Intent            intent.Intent
	PendingIntent     intent.Intent
	Awaiting          string
	PatientName       string
	AppointmentDate   string
	AppointmentTime   string
	AppointmentStatus string
	RetrievedSources  string
	Extra             map[string]string
}

// StateFromMap decodes the persisted flat map into a DialogState.
func StateFromMap(m map[string]string) DialogState {
	s := DialogState{Extra: make(map[string]string)}
	for k, v := range m {
		switch k {
		case KeyUserID:
			s.UserID = v
		case KeyIntent:
			s.Intent = intent.Intent(v)
		case KeyPendingIntent:
			s.PendingIntent = intent.Intent(v)
		case KeyAwaiting:
			s.Awaiting = v
		case KeyPatientName:
			s.PatientName = v
		case KeyAppointmentDate:
			s.AppointmentDate = v
		case KeyAppointmentTime:
			s.AppointmentTime = v
		case KeyAppointmentStatus:
			s.AppointmentStatus = v
		case KeyRetrievedSources:
			s.RetrievedSources = v
		default:
			s.Extra[k] = v
		}
	}
	return s
}

// Session is the loaded conversation record a turn operates on.
type Session struct {
	Key       string
	State     map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Dialog returns the typed state view.
func (s *Session) Dialog() DialogState {
	return StateFromMap(s.State)
}

// Turn bundles everything a handler needs for one exchange.
type Turn struct {
	SessionKey string
	Message    string
	State      DialogState
}

// Result is the explicit outcome of one handler invocation. Set entries are
// merged into session state; Clear keys are removed in the same persisted
// update, which is what makes draft completion atomic.
type Result struct {
	Text    string
	Sources []string
	Set     map[string]string
	Clear   []string

	// Booking is non-nil only when an appointment was just booked.
	Booking *BookingDetails

	// Handoff marks the turn as a live-agent handoff so the session can
	// be archived as a side effect.
	Handoff bool
}

// BookingDetails describes a completed booking for downstream persistence
// and notification; the slot fields themselves are already cleared.
type BookingDetails struct {
	PatientName string
	Date        string
	Time        string
	Reference   string
}

// SetValue records a state write on the result.
func (r *Result) SetValue(key, value string) {
	if r.Set == nil {
		r.Set = make(map[string]string)
	}
	r.Set[key] = value
}

// ClearKeys records state deletions on the result.
func (r *Result) ClearKeys(keys ...string) {
	r.Clear = append(r.Clear, keys...)
}

// Reply is what the orchestrator hands back to the API layer. Sources is
// always non-nil, possibly empty.
type Reply struct {
	Text    string   `json:"response"`
	Sources []string `json:"sources"`
}

// UserIDFromSessionKey extracts the embedded user identifier from session
// keys following the "user_<id>_..." convention. Returns "" for keys that
// do not follow it.
func UserIDFromSessionKey(key string) string {
	if !strings.HasPrefix(key, "user_") {
		return ""
	}
	rest := strings.TrimPrefix(key, "user_")
	if i := strings.LastIndex(rest, "_"); i > 0 {
		return rest[:i]
	}
	return rest
}
