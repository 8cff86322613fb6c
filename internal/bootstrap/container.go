package bootstrap

import (
	"context"
	"log"

	"ai-contentgen-be/internal/config"
	"ai-contentgen-be/internal/controller"
	"ai-contentgen-be/internal/pkg/logger"
	"ai-contentgen-be/internal/repository/contract"
	"ai-contentgen-be/internal/repository/implementation"
	"ai-contentgen-be/internal/repository/memory"
	"ai-contentgen-be/internal/repository/redisstore"
	"ai-contentgen-be/internal/service"
	"ai-contentgen-be/pkg/engine/pipeline"
	"ai-contentgen-be/pkg/engine/quality"
	"ai-contentgen-be/pkg/engine/resolver"
	"ai-contentgen-be/pkg/engine/selfheal"
	"ai-contentgen-be/pkg/engine/session"
	"ai-contentgen-be/pkg/llm/factory"

	pkgNats "ai-contentgen-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Topic for the in-process usage accounting bus
const usageTopic = "pipeline.usage"

type Container struct {
	// Controllers
	PipelineController controller.IPipelineController

	// Background Services (Exposed for main.go to run)
	UsageConsumerService service.IUsageConsumerService

	// SessionManager is exposed so main.go can start the expiry sweeper
	SessionManager *session.Manager

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: int64(cfg.Pipeline.UsageBufferSize),
		},
		watermillLogger,
	)

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
		cfg.Ai.ProviderTimeout,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// 3. Engine Stages
	resolverEngine := resolver.NewEngine(llmProvider, sysLogger)
	gate := quality.New()
	healer := selfheal.NewEngine(resolverEngine, gate, sysLogger)

	// Session Storage: Redis when configured, in-memory otherwise
	var sessionRepo contract.ISessionRepository
	if cfg.App.SessionStore == "redis" {
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
		sessionRepo = redisstore.NewSessionRepository(rdb)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessionRepo = memory.NewSessionRepository(cfg.Pipeline.SessionTTL, cfg.Pipeline.SweepInterval)
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	sessionManager := session.NewManager(sessionRepo, cfg.Pipeline.SessionTTL, cfg.Pipeline.SweepInterval, sysLogger)

	orchestrator := pipeline.NewOrchestrator(resolverEngine, gate, healer, sessionManager, sysLogger)

	// 3.5 Infrastructure
	// NATS event publisher is optional; the pipeline runs fine without it
	var natsPub *pkgNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pkgNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Usage persistence requires a database; without one the consumer
	// degrades to log-only.
	var usageRepo contract.UsageLogRepository
	if db != nil {
		usageRepo = implementation.NewUsageLogRepository(db)
	}

	publisherService := service.NewPublisherService(usageTopic, pubSub)
	usageConsumerService := service.NewUsageConsumerService(pubSub, usageTopic, usageRepo)

	pipelineService := service.NewPipelineService(
		orchestrator,
		publisherService,
		natsPub,
		cfg.Ai.Provider,
		cfg.Ai.Model,
	)

	// 4. Controllers
	return &Container{
		PipelineController:   controller.NewPipelineController(pipelineService),
		UsageConsumerService: usageConsumerService,
		SessionManager:       sessionManager,
		Logger:               sysLogger,
	}
}
