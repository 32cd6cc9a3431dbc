package dto

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentResponse struct {
	Id              uuid.UUID `json:"id"`
	BotId           uuid.UUID `json:"bot_id"`
	ConversationId  uuid.UUID `json:"conversation_id"`
	PatientName     string    `json:"patient_name"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	DurationMinutes int       `json:"duration_minutes"`
	Reference       string    `json:"reference"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}
