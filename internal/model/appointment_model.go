package model

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BotId           uuid.UUID `gorm:"type:uuid;not null;index"`
	ConversationId  uuid.UUID `gorm:"type:uuid;not null;index"`
	PatientName     string    `gorm:"type:varchar(255);not null"`
	Date            string    `gorm:"type:varchar(10);not null"` // YYYY-MM-DD
	Time            string    `gorm:"type:varchar(20);not null"` // "H[:MM] AM/PM"
	DurationMinutes int       `gorm:"default:30"`
	Reference       string    `gorm:"type:text"`
	Status          string    `gorm:"type:varchar(50);not null;default:'booked'"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (Appointment) TableName() string {
	return "appointments"
}
