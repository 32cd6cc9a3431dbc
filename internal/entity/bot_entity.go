package entity

import (
	"time"

	"github.com/google/uuid"
)

type Bot struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	Name             string
	Greeting         string
	ClinicAddress    string
	ClinicPhone      string
	ClinicEmail      string
	ClinicHours      string
	ClinicParking    string
	ClinicTransit    string
	WhatsAppNumber   string
	SchedulerBaseURL string
	Widget           map[string]interface{}
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
