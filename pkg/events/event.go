package events

import "time"

// Event type codes carried on the bus. Subjects are "events.<code>".
const (
	TypeAppointmentBooked   = "APPOINTMENT_BOOKED"
	TypeConversationHandoff = "CONVERSATION_HANDOFF"
	TypeDocumentIndexed     = "DOCUMENT_INDEXED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event.
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used for both publishing and
// reconstructing events on the consuming side.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewAppointmentBooked is emitted after a booking is confirmed and
// persisted so staff can be notified out of band.
func NewAppointmentBooked(botId, appointmentId, patientName, date, timeOfDay, reference string) BaseEvent {
	return BaseEvent{
		Type: TypeAppointmentBooked,
		Data: map[string]interface{}{
			"bot_id":         botId,
			"appointment_id": appointmentId,
			"patient_name":   patientName,
			"date":           date,
			"time":           timeOfDay,
			"reference":      reference,
		},
		OccurredAt: time.Now(),
	}
}

// NewConversationHandoff is emitted when a visitor asks for a human so
// staff can pick the conversation up on WhatsApp.
func NewConversationHandoff(botId, sessionKey string) BaseEvent {
	return BaseEvent{
		Type: TypeConversationHandoff,
		Data: map[string]interface{}{
			"bot_id":      botId,
			"session_key": sessionKey,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIndexed is emitted when the indexing worker finishes a
// document.
func NewDocumentIndexed(botId, documentId string, chunks int) BaseEvent {
	return BaseEvent{
		Type: TypeDocumentIndexed,
		Data: map[string]interface{}{
			"bot_id":      botId,
			"document_id": documentId,
			"chunks":      chunks,
		},
		OccurredAt: time.Now(),
	}
}
