package service

import (
	"context"
	"sync"
	"testing"

	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/repository/contract"
	"clinic-assist-be/internal/repository/memory"
	"clinic-assist-be/internal/repository/specification"
	"clinic-assist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory doubles for the conversation repositories so the store can be
// exercised without a database.

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*entity.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[uuid.UUID]*entity.Conversation)}
}

func (r *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *conversation
	stored.State = make(map[string]string, len(conversation.State))
	for k, v := range conversation.State {
		stored.State[k] = v
	}
	r.conversations[conversation.Id] = &stored
	return nil
}

func (r *fakeConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	return r.Create(ctx, conversation)
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		copied := *c
		copied.State = make(map[string]string, len(c.State))
		for k, v := range c.State {
			copied.State[k] = v
		}
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	return nil, nil
}

func (r *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.conversations)), nil
}

func (r *fakeConversationRepo) MergeState(ctx context.Context, id uuid.UUID, set map[string]string, clear []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok {
		return nil
	}
	for k, v := range set {
		c.State[k] = v
	}
	for _, k := range clear {
		delete(c.State, k)
	}
	return nil
}

func (r *fakeConversationRepo) SetStatus(ctx context.Context, id uuid.UUID, status entity.ConversationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.conversations[id]; ok {
		c.Status = status
	}
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.ConversationMessage
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ConversationMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.ConversationMessage{}, r.messages...), nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.messages)), nil
}

type fakeUnitOfWork struct {
	conversations *fakeConversationRepo
	messages      *fakeMessageRepo
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return nil }
func (u *fakeUnitOfWork) BotRepository() contract.BotRepository   { return nil }
func (u *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return u.conversations
}
func (u *fakeUnitOfWork) ConversationMessageRepository() contract.ConversationMessageRepository {
	return u.messages
}
func (u *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository { return nil }
func (u *fakeUnitOfWork) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return nil
}
func (u *fakeUnitOfWork) AppointmentRepository() contract.AppointmentRepository { return nil }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func newTestStore() (*conversationSessionStore, *fakeConversationRepo) {
	repo := newFakeConversationRepo()
	factory := fakeFactory{uow: &fakeUnitOfWork{
		conversations: repo,
		messages:      &fakeMessageRepo{},
	}}
	store := NewConversationSessionStore(factory, memory.NewSessionCache(), uuid.New()).(*conversationSessionStore)
	return store, repo
}

func TestSessionStoreLazyCreateAndMerge(t *testing.T) {
	store, repo := newTestStore()
	ctx := context.Background()

	sess, err := store.Load(ctx, "visitor-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sess.State) != 0 {
		t.Fatalf("fresh session state = %v, want empty", sess.State)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("conversation count = %d, want 1 (lazy create)", n)
	}

	if err := store.Save(ctx, "visitor-1", map[string]string{"patient_name": "Ada"}, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "visitor-1", map[string]string{"status": "booked"}, []string{"patient_name"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sess, err = store.Load(ctx, "visitor-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sess.State["status"] != "booked" {
		t.Errorf("status = %q, want booked", sess.State["status"])
	}
	if _, ok := sess.State["patient_name"]; ok {
		t.Error("patient_name survived the clear list")
	}
}

// A Save must not mutate state maps already handed out or cached; earlier
// loads keep their snapshot and concurrent readers never see a map being
// written.
func TestSessionStoreSaveDoesNotMutateSnapshots(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	if err := store.Save(ctx, "visitor-2", map[string]string{"awaiting": "date"}, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	before, err := store.Load(ctx, "visitor-2")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cachedBefore, found := store.cache.Get("visitor-2")
	if !found {
		t.Fatal("expected conversation in cache")
	}
	stateBefore := cachedBefore.State

	if err := store.Save(ctx, "visitor-2", map[string]string{"awaiting": "time"}, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if before.State["awaiting"] != "date" {
		t.Errorf("earlier snapshot changed: awaiting = %q, want date", before.State["awaiting"])
	}
	if stateBefore["awaiting"] != "date" {
		t.Errorf("previously cached map was mutated in place: awaiting = %q, want date", stateBefore["awaiting"])
	}

	after, err := store.Load(ctx, "visitor-2")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if after.State["awaiting"] != "time" {
		t.Errorf("awaiting = %q, want time", after.State["awaiting"])
	}
}

// Rapid duplicate turns for one session key run Load and Save in parallel;
// run under -race this catches any shared-map mutation in the cache path.
func TestSessionStoreConcurrentTurns(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	if err := store.Save(ctx, "visitor-3", map[string]string{"seed": "1"}, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if n%2 == 0 {
					if _, err := store.Load(ctx, "visitor-3"); err != nil {
						t.Errorf("Load failed: %v", err)
						return
					}
				} else {
					if err := store.Save(ctx, "visitor-3", map[string]string{"turn": "x"}, nil); err != nil {
						t.Errorf("Save failed: %v", err)
						return
					}
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestSessionStoreArchiveEvictsCache(t *testing.T) {
	store, repo := newTestStore()
	ctx := context.Background()

	if err := store.Save(ctx, "visitor-4", map[string]string{"k": "v"}, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Archive(ctx, "visitor-4"); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	if _, found := store.cache.Get("visitor-4"); found {
		t.Error("archived conversation still cached")
	}
	conv, _ := repo.FindOne(ctx)
	if conv == nil || conv.Status != entity.ConversationStatusArchived {
		t.Errorf("conversation status = %v, want archived", conv)
	}
}
