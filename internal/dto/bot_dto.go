package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateBotRequest struct {
	Name             string                 `json:"name" validate:"required,min=3"`
	Greeting         string                 `json:"greeting"`
	ClinicAddress    string                 `json:"clinic_address"`
	ClinicPhone      string                 `json:"clinic_phone"`
	ClinicEmail      string                 `json:"clinic_email" validate:"omitempty,email"`
	ClinicHours      string                 `json:"clinic_hours"`
	ClinicParking    string                 `json:"clinic_parking"`
	ClinicTransit    string                 `json:"clinic_transit"`
	WhatsAppNumber   string                 `json:"whatsapp_number"`
	SchedulerBaseURL string                 `json:"scheduler_base_url" validate:"omitempty,url"`
	Widget           map[string]interface{} `json:"widget"`
}

type UpdateBotRequest struct {
	Name             string                 `json:"name" validate:"omitempty,min=3"`
	Greeting         string                 `json:"greeting"`
	ClinicAddress    string                 `json:"clinic_address"`
	ClinicPhone      string                 `json:"clinic_phone"`
	ClinicEmail      string                 `json:"clinic_email" validate:"omitempty,email"`
	ClinicHours      string                 `json:"clinic_hours"`
	ClinicParking    string                 `json:"clinic_parking"`
	ClinicTransit    string                 `json:"clinic_transit"`
	WhatsAppNumber   string                 `json:"whatsapp_number"`
	SchedulerBaseURL string                 `json:"scheduler_base_url" validate:"omitempty,url"`
	Widget           map[string]interface{} `json:"widget"`
}

type BotResponse struct {
	Id               uuid.UUID              `json:"id"`
	Name             string                 `json:"name"`
	Greeting         string                 `json:"greeting"`
	ClinicAddress    string                 `json:"clinic_address"`
	ClinicPhone      string                 `json:"clinic_phone"`
	ClinicEmail      string                 `json:"clinic_email"`
	ClinicHours      string                 `json:"clinic_hours"`
	ClinicParking    string                 `json:"clinic_parking"`
	ClinicTransit    string                 `json:"clinic_transit"`
	WhatsAppNumber   string                 `json:"whatsapp_number"`
	SchedulerBaseURL string                 `json:"scheduler_base_url"`
	Widget           map[string]interface{} `json:"widget"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// WidgetConfigResponse is the public, unauthenticated shape served to the
// embedded chat widget. It deliberately omits owner-only fields.
type WidgetConfigResponse struct {
	BotId    uuid.UUID              `json:"bot_id"`
	Name     string                 `json:"name"`
	Greeting string                 `json:"greeting"`
	Widget   map[string]interface{} `json:"widget"`
}
