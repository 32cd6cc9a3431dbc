package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	BotId      uuid.UUID `json:"bot_id" validate:"required"`
	Title      string    `json:"title" validate:"required,min=1"`
	Content    string    `json:"content" validate:"required,min=1"`
	SourceName string    `json:"source_name" validate:"required"`
}

type DocumentResponse struct {
	Id         uuid.UUID `json:"id"`
	BotId      uuid.UUID `json:"bot_id"`
	Title      string    `json:"title"`
	SourceName string    `json:"source_name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PublishIndexDocumentMessage is the payload published to the indexing
// topic when a document is created or its content changes.
type PublishIndexDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
