package bootstrap

import (
	"context"
	"log"

	"vaulta-banking-be/internal/config"
	"vaulta-banking-be/internal/controller"
	"vaulta-banking-be/internal/pkg/logger"
	"vaulta-banking-be/internal/pkg/mailer"
	"vaulta-banking-be/internal/pkg/metrics"
	"vaulta-banking-be/internal/repository/memory"
	"vaulta-banking-be/internal/repository/rediscache"
	"vaulta-banking-be/internal/repository/unitofwork"
	"vaulta-banking-be/internal/service"
	"vaulta-banking-be/internal/websocket"
	"vaulta-banking-be/pkg/ai/router"
	"vaulta-banking-be/pkg/auth"
	"vaulta-banking-be/pkg/banking"
	"vaulta-banking-be/pkg/banking/persistent"
	"vaulta-banking-be/pkg/database"
	"vaulta-banking-be/pkg/flow"
	"vaulta-banking-be/pkg/llm/factory"
	pktNats "vaulta-banking-be/pkg/nats"
	"vaulta-banking-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	AdminController     controller.IAdminController
	HealthController    controller.IHealthController

	// Background services, run by main
	ConsumerService service.IConsumerService
	EscalationDesk  *service.EscalationDesk
	DeskSubscriber  service.EventSubscriber
	WebSocketHub    *websocket.Hub

	AssistantService service.IAssistantService
	Logger           logger.ILogger

	closers []func()
}

// NewContainer wires the application. db may be nil, in which case only the
// in-memory fast path serves customers.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	// 1. Infrastructure
	var rdb *redis.Client
	if cfg.Session.Backend == "redis" {
		rdb = newRedisClient(cfg.App.RedisURL)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// 2. Statement bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })
	statements := service.NewStatementDispatcher(service.NewPublisherService(pubSub, cfg.Events.StatementTopic))

	// 3. Banking
	var providers []banking.Provider
	if cfg.Banking.FastPathEnabled {
		fast, err := banking.NewDemoFastPath()
		if err != nil {
			log.Fatalf("[FATAL] Failed to load fast path data: %v", err)
		}
		providers = append(providers, fast)
	}
	if db != nil && cfg.Banking.PersistentEnabled {
		providers = append(providers, persistent.NewProvider(unitofwork.NewRepositoryFactory(db)))
	}
	if len(providers) == 0 {
		log.Fatal("[FATAL] No banking provider enabled")
	}

	var sequencer banking.Sequencer
	if rdb != nil {
		sequencer = rediscache.NewReferenceSequencer(rdb)
	}
	bank := banking.NewService(providers,
		banking.WithTimeout(cfg.Banking.PersistenceTimeout),
		banking.WithReferenceGenerator(banking.NewReferenceGenerator(sequencer)),
		banking.WithStatementDispatcher(statements),
	)

	// 4. Routing
	lexicon := router.DefaultLexicon()
	stages := []router.Classifier{router.NewKeywordClassifier(lexicon)}
	if cfg.Ai.ClassifierEnabled {
		llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.LLMBaseURL, cfg.Ai.LLMAPIKey)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
		}
		stages = append(stages, router.NewLLMClassifier(llmProvider, cfg.Ai.LLMModel))
		log.Printf("[INFO] Using LLM classifier: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}
	intentRouter := router.NewRouter(lexicon, router.NewChain(cfg.Ai.ClassifierThreshold, stages...), cfg.Ai.ClassifierThreshold)

	// 5. Sessions
	ttls := store.TTLs{
		store.ChannelPhone:    cfg.Session.PhoneTTL,
		store.ChannelSMS:      cfg.Session.SMSTTL,
		store.ChannelWebVoice: cfg.Session.WebVoiceTTL,
		store.ChannelWebChat:  cfg.Session.WebChatTTL,
	}
	var sessions store.SessionStore
	if rdb != nil {
		sessions = rediscache.NewSessionRepository(rdb, ttls)
	} else {
		sessions = memory.NewSessionRepository(ttls)
	}
	locks := store.NewKeyedMutex()

	// 6. Escalation events
	desk := service.NewEscalationDesk(logger.NewIsolatedLogger(cfg.App.DeskLogFilePath))
	c.EscalationDesk = desk
	var eventPublisher service.EventPublisher = desk
	if cfg.Events.NatsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher, delivering escalations in-process: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			c.DeskSubscriber = natsSub
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// 7. Services
	gate := auth.NewGate(bank, []byte(cfg.Security.CustomerRefKey), auth.WithMaxAttempts(cfg.Session.MaxAuthAttempts))
	assistant := service.NewAssistantService(sessions, locks, intentRouter, gate, flow.NewHandlers(bank),
		service.WithEventPublisher(eventPublisher),
		service.WithMetrics(appMetrics),
		service.WithLogger(sysLogger),
	)
	c.AssistantService = assistant

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
		)
	}
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Events.StatementTopic, bank, emailService, sysLogger)

	c.WebSocketHub = websocket.NewHub(rdb, sysLogger)

	// 8. Controllers
	checks := map[string]controller.Pinger{"sessions": sessions.Ping}
	if db != nil {
		checks["database"] = func(ctx context.Context) error { return database.Ping(ctx, db) }
	}
	c.AssistantController = controller.NewAssistantController(assistant, cfg.Security.WebhookSecret)
	c.AdminController = controller.NewAdminController(
		service.NewSessionAdminService(sessions, locks, sysLogger),
		desk,
		c.WebSocketHub,
		cfg.Security.JWTSecret,
	)
	c.HealthController = controller.NewHealthController(checks, registry)

	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return rdb
}
