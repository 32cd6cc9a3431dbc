package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Conversation struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BotId      uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionKey string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Status     string    `gorm:"type:varchar(50);not null;default:'active'"`
	// State is the flat dialog state map. Saves merge into it field by
	// field; it is never replaced wholesale.
	State     datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type ConversationMessage struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index"`
	Sender         string    `gorm:"type:varchar(20);not null"`
	Text           string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}
