package contract

import (
	"context"

	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	Update(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MergeState applies a field-level state update in a single statement:
	// set keys are merged into the JSONB column and cleared keys removed
	// from it atomically. The stored map is never replaced wholesale, so
	// keys written by other components survive.
	MergeState(ctx context.Context, id uuid.UUID, set map[string]string, clear []string) error

	// SetStatus flips the conversation lifecycle status (archival on
	// handoff); the row itself is never deleted.
	SetStatus(ctx context.Context, id uuid.UUID, status entity.ConversationStatus) error
}

type ConversationMessageRepository interface {
	Create(ctx context.Context, message *entity.ConversationMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
