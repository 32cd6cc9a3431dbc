package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversationStatus string

const (
	ConversationStatusActive   ConversationStatus = "active"
	ConversationStatusArchived ConversationStatus = "archived"
)

type Conversation struct {
	Id         uuid.UUID
	BotId      uuid.UUID
	SessionKey string
	Status     ConversationStatus
	State      map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ConversationMessage struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Sender         string
	Text           string
	CreatedAt      time.Time
}
