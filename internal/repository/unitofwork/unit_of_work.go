package unitofwork

import (
	"context"

	"clinic-assist-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	BotRepository() contract.BotRepository
	ConversationRepository() contract.ConversationRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
	DocumentRepository() contract.DocumentRepository
	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
	AppointmentRepository() contract.AppointmentRepository
}
