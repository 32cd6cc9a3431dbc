package entity

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	Id              uuid.UUID
	BotId           uuid.UUID
	ConversationId  uuid.UUID
	PatientName     string
	Date            string
	Time            string
	DurationMinutes int
	Reference       string
	Status          AppointmentStatus
	CreatedAt       time.Time
}
