package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"clinic-assist-be/internal/dto"
	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/pkg/mailer"
	"clinic-assist-be/internal/repository/memory"
	"clinic-assist-be/internal/repository/specification"
	"clinic-assist-be/internal/repository/unitofwork"
	"clinic-assist-be/pkg/calendar"
	"clinic-assist-be/pkg/embedding"
	"clinic-assist-be/pkg/events"
	"clinic-assist-be/pkg/llm"
	"clinic-assist-be/pkg/nats"
	"clinic-assist-be/pkg/workflow"
	"clinic-assist-be/pkg/workflow/appointment"
	"clinic-assist-be/pkg/workflow/composer"
	"clinic-assist-be/pkg/workflow/intent"
	"clinic-assist-be/pkg/workflow/responder"

	"github.com/google/uuid"
)

// IChatService is the public chat surface plus the owner-facing
// conversation views.
type IChatService interface {
	SendChat(ctx context.Context, botId uuid.UUID, request *dto.SendChatRequest) (*dto.ChatResponse, error)
	GetConversations(ctx context.Context, userId uuid.UUID, botId uuid.UUID) ([]*dto.ConversationResponse, error)
	GetConversationHistory(ctx context.Context, userId uuid.UUID, botId uuid.UUID, sessionKey string) ([]*dto.ConversationMessageResponse, error)

	// InvalidateEngine drops the cached workflow engine for a bot so the
	// next message picks up changed configuration.
	InvalidateEngine(botId uuid.UUID)
}

// chatService owns one workflow engine per bot. Engines are built lazily
// from the bot's configuration and cached; bot updates invalidate them.
type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	sessionCache      *memory.SessionCache
	embeddingProvider embedding.Provider
	llmProvider       llm.Provider
	eventBus          *nats.Publisher
	emailService      mailer.IEmailService
	chatLogger        *log.Logger

	mu      sync.Mutex
	engines map[uuid.UUID]*workflow.Orchestrator
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionCache *memory.SessionCache,
	embeddingProvider embedding.Provider,
	llmProvider llm.Provider,
	eventBus *nats.Publisher,
	emailService mailer.IEmailService,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		sessionCache:      sessionCache,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		eventBus:          eventBus,
		emailService:      emailService,
		chatLogger:        initChatLogger(),
		engines:           make(map[uuid.UUID]*workflow.Orchestrator),
	}
}

func initChatLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "chat_workflow.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[CHAT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// SendChat runs one turn of the conversation workflow for the bot.
func (cs *chatService) SendChat(ctx context.Context, botId uuid.UUID, request *dto.SendChatRequest) (*dto.ChatResponse, error) {
	bot, err := cs.findBot(ctx, botId)
	if err != nil {
		return nil, err
	}

	engine, err := cs.engineFor(bot)
	if err != nil {
		return nil, err
	}

	reply, err := engine.Chat(ctx, request.SessionKey, bot.Id.String(), request.Message)
	if err != nil {
		return nil, err
	}

	return &dto.ChatResponse{
		Response: reply.Text,
		Sources:  reply.Sources,
	}, nil
}

func (cs *chatService) GetConversations(ctx context.Context, userId uuid.UUID, botId uuid.UUID) ([]*dto.ConversationResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := cs.verifyBotOwnership(ctx, uow, userId, botId); err != nil {
		return nil, err
	}

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.ByBotID{BotID: botId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: 200},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		res = append(res, &dto.ConversationResponse{
			Id:         c.Id,
			SessionKey: c.SessionKey,
			Status:     string(c.Status),
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
		})
	}
	return res, nil
}

func (cs *chatService) GetConversationHistory(ctx context.Context, userId uuid.UUID, botId uuid.UUID, sessionKey string) ([]*dto.ConversationMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := cs.verifyBotOwnership(ctx, uow, userId, botId); err != nil {
		return nil, err
	}

	conv, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByBotID{BotID: botId},
		specification.BySessionKey{SessionKey: sessionKey},
	)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation not found")
	}

	messages, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conv.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationMessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, &dto.ConversationMessageResponse{
			Id:        m.Id,
			Sender:    m.Sender,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	return res, nil
}

func (cs *chatService) InvalidateEngine(botId uuid.UUID) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.engines, botId)
}

func (cs *chatService) findBot(ctx context.Context, botId uuid.UUID) (*entity.Bot, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	bot, err := uow.BotRepository().FindOne(ctx, specification.ByID{ID: botId})
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, fmt.Errorf("bot not found")
	}
	return bot, nil
}

func (cs *chatService) verifyBotOwnership(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, botId uuid.UUID) error {
	bot, err := uow.BotRepository().FindOne(ctx,
		specification.ByID{ID: botId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if bot == nil {
		return fmt.Errorf("bot not found or access denied")
	}
	return nil
}

// engineFor returns the cached workflow engine for the bot, building it
// from the bot's configuration on first use.
func (cs *chatService) engineFor(bot *entity.Bot) (*workflow.Orchestrator, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if engine, ok := cs.engines[bot.Id]; ok {
		return engine, nil
	}

	store := NewConversationSessionStore(cs.uowFactory, cs.sessionCache, bot.Id)
	retriever := NewDocumentRetriever(cs.uowFactory, cs.embeddingProvider, cs.chatLogger)
	answerComposer := composer.NewComposer(retriever, cs.llmProvider, composer.DefaultTopK, cs.chatLogger)

	scheduler := calendar.NewHTTPScheduler(bot.SchedulerBaseURL, cs.chatLogger)
	flow := appointment.NewFlow(scheduler, cs.chatLogger)

	static := responder.NewStaticResponder(responder.ClinicInfo{
		Name:           bot.Name,
		Address:        bot.ClinicAddress,
		Phone:          bot.ClinicPhone,
		Email:          bot.ClinicEmail,
		Hours:          bot.ClinicHours,
		Parking:        bot.ClinicParking,
		Transit:        bot.ClinicTransit,
		WhatsAppNumber: bot.WhatsAppNumber,
	})

	engine := workflow.NewOrchestrator(store, intent.NewClassifier(), flow, answerComposer, static, cs.chatLogger)
	engine.SetObserver(&turnEffects{service: cs, bot: bot})

	cs.engines[bot.Id] = engine
	return engine, nil
}

// turnEffects handles post-turn side effects for one bot: persisting
// bookings, publishing bus events and alerting the clinic inbox. All of
// it is best-effort; a failure here never reaches the visitor.
type turnEffects struct {
	service *chatService
	bot     *entity.Bot
}

func (t *turnEffects) BookingConfirmed(ctx context.Context, sessionKey string, booking *workflow.BookingDetails) {
	cs := t.service

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	conv, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByBotID{BotID: t.bot.Id},
		specification.BySessionKey{SessionKey: sessionKey},
	)
	if err != nil || conv == nil {
		cs.chatLogger.Printf("[EFFECTS] Conversation lookup failed for %s: %v", sessionKey, err)
		return
	}

	apt := &entity.Appointment{
		Id:              uuid.New(),
		BotId:           t.bot.Id,
		ConversationId:  conv.Id,
		PatientName:     booking.PatientName,
		Date:            booking.Date,
		Time:            booking.Time,
		DurationMinutes: calendar.DefaultDurationMinutes,
		Reference:       booking.Reference,
		Status:          entity.AppointmentStatusBooked,
		CreatedAt:       time.Now(),
	}
	if err := uow.AppointmentRepository().Create(ctx, apt); err != nil {
		cs.chatLogger.Printf("[EFFECTS] Failed to persist appointment for %s: %v", sessionKey, err)
		return
	}

	if cs.eventBus != nil {
		event := events.NewAppointmentBooked(
			t.bot.Id.String(), apt.Id.String(),
			booking.PatientName, booking.Date, booking.Time, booking.Reference,
		)
		if err := cs.eventBus.Publish(ctx, event); err != nil {
			cs.chatLogger.Printf("[EFFECTS] Failed to publish booking event: %v", err)
		}
	}

	if cs.emailService != nil && t.bot.ClinicEmail != "" {
		if err := cs.emailService.SendBookingAlert(t.bot.ClinicEmail, booking.PatientName, booking.Date, booking.Time, booking.Reference); err != nil {
			cs.chatLogger.Printf("[EFFECTS] Failed to send booking alert: %v", err)
		}
	}
}

func (t *turnEffects) HandoffRequested(ctx context.Context, sessionKey string) {
	cs := t.service

	if cs.eventBus != nil {
		event := events.NewConversationHandoff(t.bot.Id.String(), sessionKey)
		if err := cs.eventBus.Publish(ctx, event); err != nil {
			cs.chatLogger.Printf("[EFFECTS] Failed to publish handoff event: %v", err)
		}
	}

	if cs.emailService != nil && t.bot.ClinicEmail != "" {
		if err := cs.emailService.SendHandoffAlert(t.bot.ClinicEmail, sessionKey); err != nil {
			cs.chatLogger.Printf("[EFFECTS] Failed to send handoff alert: %v", err)
		}
	}
}
