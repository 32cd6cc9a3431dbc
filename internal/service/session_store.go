package service

import (
	"context"
	"fmt"
	"time"

	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/repository/memory"
	"clinic-assist-be/internal/repository/specification"
	"clinic-assist-be/internal/repository/unitofwork"
	"clinic-assist-be/pkg/workflow"

	"github.com/google/uuid"
)

// conversationSessionStore adapts the conversation repositories to the
// workflow engine's session store contract. It is bound to a single bot
// because session keys are only unique per bot. Conversations are created
// lazily on first load and archived, never deleted, on handoff.
type conversationSessionStore struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.SessionCache
	botId      uuid.UUID
}

func NewConversationSessionStore(uowFactory unitofwork.RepositoryFactory, cache *memory.SessionCache, botId uuid.UUID) workflow.SessionStore {
	return &conversationSessionStore{
		uowFactory: uowFactory,
		cache:      cache,
		botId:      botId,
	}
}

func (s *conversationSessionStore) Load(ctx context.Context, sessionKey string) (*workflow.Session, error) {
	conv, err := s.resolve(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	state := make(map[string]string, len(conv.State))
	for k, v := range conv.State {
		state[k] = v
	}

	return &workflow.Session{
		Key:       conv.SessionKey,
		State:     state,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}, nil
}

func (s *conversationSessionStore) AppendMessage(ctx context.Context, sessionKey string, text string, sender string) error {
	conv, err := s.resolve(ctx, sessionKey)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ConversationMessageRepository().Create(ctx, &entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: conv.Id,
		Sender:         sender,
		Text:           text,
		CreatedAt:      time.Now(),
	})
}

func (s *conversationSessionStore) Save(ctx context.Context, sessionKey string, set map[string]string, clear []string) error {
	conv, err := s.resolve(ctx, sessionKey)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().MergeState(ctx, conv.Id, set, clear); err != nil {
		return err
	}

	// Mirror the merge on the cache so the next turn sees it without a
	// refetch. Copy-on-write: cached conversations are never mutated in
	// place, so a concurrent Load ranging over the old state map is safe
	// and rapid duplicate turns degrade to last-write-wins.
	next := *conv
	next.State = make(map[string]string, len(conv.State)+len(set))
	for k, v := range conv.State {
		next.State[k] = v
	}
	for k, v := range set {
		next.State[k] = v
	}
	for _, k := range clear {
		delete(next.State, k)
	}
	s.cache.Save(&next)

	return nil
}

func (s *conversationSessionStore) Archive(ctx context.Context, sessionKey string) error {
	conv, err := s.resolve(ctx, sessionKey)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().SetStatus(ctx, conv.Id, entity.ConversationStatusArchived); err != nil {
		return err
	}

	s.cache.Delete(sessionKey)
	return nil
}

// resolve finds the bot's conversation for a session key, creating it on
// first contact. The cache is read-through; the database stays the source
// of truth.
func (s *conversationSessionStore) resolve(ctx context.Context, sessionKey string) (*entity.Conversation, error) {
	if conv, found := s.cache.Get(sessionKey); found && conv.BotId == s.botId {
		return conv, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conv, err := uow.ConversationRepository().FindOne(ctx,
		specification.BySessionKey{SessionKey: sessionKey},
		specification.ByBotID{BotID: s.botId},
	)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	if conv == nil {
		now := time.Now()
		conv = &entity.Conversation{
			Id:         uuid.New(),
			BotId:      s.botId,
			SessionKey: sessionKey,
			Status:     entity.ConversationStatusActive,
			State:      make(map[string]string),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := uow.ConversationRepository().Create(ctx, conv); err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
	}

	s.cache.Save(conv)
	return conv, nil
}
