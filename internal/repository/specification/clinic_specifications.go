package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByBotID struct {
	BotID uuid.UUID
}

func (s ByBotID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("bot_id = ?", s.BotID)
}

type BySessionKey struct {
	SessionKey string
}

func (s BySessionKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_key = ?", s.SessionKey)
}

type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}
