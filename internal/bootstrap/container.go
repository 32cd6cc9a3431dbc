package bootstrap

import (
	"context"
	"log"

	"clinic-assist-be/internal/config"
	"clinic-assist-be/internal/controller"
	"clinic-assist-be/internal/handler"
	"clinic-assist-be/internal/pkg/logger"
	"clinic-assist-be/internal/pkg/mailer"
	"clinic-assist-be/internal/repository/implementation"
	"clinic-assist-be/internal/repository/memory"
	"clinic-assist-be/internal/repository/unitofwork"
	"clinic-assist-be/internal/service"
	"clinic-assist-be/internal/websocket"
	"clinic-assist-be/pkg/embedding"
	"clinic-assist-be/pkg/llm/factory"

	pktNats "clinic-assist-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController        controller.IAuthController
	UserController        controller.IUserController
	BotController         controller.IBotController
	ChatController        controller.IChatController
	DocumentController    controller.IDocumentController
	AppointmentController controller.IAppointmentController
	WidgetController      controller.IWidgetController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sessionCache := memory.NewSessionCache()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.IndexingTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IndexingTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
	)

	authService := service.NewAuthService(uowFactory)
	userService := service.NewUserService(uowFactory)

	chatService := service.NewChatService(
		uowFactory,
		sessionCache,
		embeddingProvider,
		llmProvider,
		natsPub,
		emailService,
	)
	botService := service.NewBotService(uowFactory, chatService)
	documentService := service.NewDocumentService(uowFactory, publisherService)
	appointmentService := service.NewAppointmentService(uowFactory)

	// 3.5 Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, sysLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		AuthController:        controller.NewAuthController(authService),
		UserController:        controller.NewUserController(userService),
		BotController:         controller.NewBotController(botService),
		ChatController:        controller.NewChatController(chatService),
		DocumentController:    controller.NewDocumentController(documentService),
		AppointmentController: controller.NewAppointmentController(appointmentService),
		WidgetController:      controller.NewWidgetController(botService),

		ConsumerService: consumerService,
	}
}
