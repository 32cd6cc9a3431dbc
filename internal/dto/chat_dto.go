package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	SessionKey string `json:"session_key" validate:"required,min=3"`
	Message    string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

type ConversationResponse struct {
	Id         uuid.UUID `json:"id"`
	SessionKey string    `json:"session_key"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ConversationMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
