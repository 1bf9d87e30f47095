package bootstrap

import (
	"context"
	"log"

	"clinical-synth-be/internal/config"
	"clinical-synth-be/internal/controller"
	"clinical-synth-be/internal/pkg/logger"
	"clinical-synth-be/internal/repository/docstore"
	"clinical-synth-be/internal/repository/implementation"
	"clinical-synth-be/internal/repository/memory"
	"clinical-synth-be/internal/repository/unitofwork"
	"clinical-synth-be/internal/service"
	"clinical-synth-be/internal/websocket"
	"clinical-synth-be/pkg/llm/factory"
	pktNats "clinical-synth-be/pkg/nats"
	"clinical-synth-be/pkg/synthesis"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PatientController controller.IPatientController
	NoteController    controller.INoteController
	ChatbotController controller.IChatbotController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	PatientService  service.IPatientService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	synthClient := synthesis.NewGeminiClient(cfg.Keys.GoogleGemini, cfg.Ai.SynthesisModel)
	log.Printf("[INFO] Using Synthesis Model: %s", cfg.Ai.SynthesisModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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
		log.Printf("[WARN] Failed to connect to Redis: %v. Running without cache", err)
		rdb = nil
	}

	// WebSocket Hub for live record updates
	wsLogger := logger.NewIsolatedLogger("logs/record_stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// In-Memory Session State
	sessionState := memory.NewSessionStateRepository()

	// Document Store
	patientRepo := implementation.NewPatientDocumentRepository(db)
	docStore := docstore.NewDocumentStore(patientRepo, rdb, sysLogger)

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.RecordChangedTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.RecordChangedTopic,
		wsHub,
		natsPub,
		sysLogger,
	)

	patientService := service.NewPatientService(docStore, natsPub, sysLogger)
	synthesisService := service.NewSynthesisService(docStore, synthClient, publisherService, sysLogger)
	chatbotService := service.NewChatbotService(
		uowFactory,
		docStore,
		llmProvider,
		sessionState,
		publisherService,
		sysLogger,
	)

	// 6. Controllers
	return &Container{
		PatientController: controller.NewPatientController(patientService),
		NoteController:    controller.NewNoteController(synthesisService),
		ChatbotController: controller.NewChatbotController(chatbotService),

		ConsumerService: consumerService,
		PatientService:  patientService,

		WebSocketHub: wsHub,
	}
}
