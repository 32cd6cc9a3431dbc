package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Bot struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(255);not null"`
	Greeting         string    `gorm:"type:text"`
	ClinicAddress    string    `gorm:"type:text"`
	ClinicPhone      string    `gorm:"type:varchar(50)"`
	ClinicEmail      string    `gorm:"type:varchar(255)"`
	ClinicHours      string    `gorm:"type:varchar(255)"`
	ClinicParking    string    `gorm:"type:text"`
	ClinicTransit    string    `gorm:"type:text"`
	WhatsAppNumber   string    `gorm:"type:varchar(50)"`
	SchedulerBaseURL string    `gorm:"type:text"`
	// Widget holds free-form embed settings (theme, launcher text) served to
	// the public widget endpoint as-is.
	Widget    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt    `gorm:"index"`
}

func (Bot) TableName() string {
	return "bots"
}
