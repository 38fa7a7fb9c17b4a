package bootstrap

import (
	"context"
	"log"
	"time"

	"clinical-scribe-be/internal/config"
	"clinical-scribe-be/internal/controller"
	"clinical-scribe-be/internal/entity"
	"clinical-scribe-be/internal/handler"
	"clinical-scribe-be/internal/pkg/logger"
	"clinical-scribe-be/internal/repository/memory"
	"clinical-scribe-be/internal/service"
	"clinical-scribe-be/internal/websocket"
	"clinical-scribe-be/pkg/llm/openai"
	"clinical-scribe-be/pkg/notegen"
	"clinical-scribe-be/pkg/transcription/whisper"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	ScribeController  controller.IScribeController
	NoteController    controller.INoteController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	EventsHandler *handler.EventsHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// Redis fan-out is optional; a single instance works without it.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(cfg.Ai.EventsTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.EventsTopic,
		wsHub, // Hub implements EventDelivery
		wsLogger,
	)

	// 3. Storage & Capture
	captureService := service.NewCaptureService()
	noteRepo := memory.NewNoteRepository()
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.Session.TTLHours) * time.Hour)
	sessionRepo.OnEvicted(func(sessionID string, _ *entity.Session) {
		captureService.Release(sessionID)
		noteRepo.ReleaseSession(sessionID)
	})

	// 4. Providers
	transcriber := whisper.NewWhisperClient(cfg.Ai.OpenAIBaseURL, cfg.Ai.TranscriptionModel)
	llmProvider := openai.NewOpenAIProvider(cfg.Ai.OpenAIBaseURL, cfg.Ai.NoteModel)
	generator := notegen.NewGenerator(llmProvider, cfg.Ai.NoteModel)
	log.Printf("[INFO] Using transcription model %s, note model %s", cfg.Ai.TranscriptionModel, cfg.Ai.NoteModel)

	// 5. Services
	sessionService := service.NewSessionService(sessionRepo)
	noteService := service.NewNoteService(sessionRepo, noteRepo)
	scribeService := service.NewScribeService(
		sessionRepo,
		noteRepo,
		captureService,
		transcriber,
		generator,
		publisherService,
		sysLogger,
		cfg.Ai.CostModel,
	)

	// 6. Handlers & Controllers
	eventsHandler := handler.NewEventsHandler(sessionRepo, wsHub, wsLogger)

	return &Container{
		SessionController: controller.NewSessionController(sessionService),
		ScribeController:  controller.NewScribeController(scribeService),
		NoteController:    controller.NewNoteController(noteService),

		ConsumerService: consumerService,
		EventsHandler:   eventsHandler,
		WebSocketHub:    wsHub,
	}
}
