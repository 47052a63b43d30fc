package contact

import (
	"fmt"

	contacthttp "portfolio-backend/internal/contact/adapter/http"
	"portfolio-backend/internal/contact/adapter/health"
	"portfolio-backend/internal/contact/adapter/persistence/mongodb"
	redisarchive "portfolio-backend/internal/contact/adapter/persistence/redis"
	"portfolio-backend/internal/contact/adapter/screening"
	"portfolio-backend/internal/contact/config"
	"portfolio-backend/internal/contact/domain/repository"
	"portfolio-backend/internal/contact/usecase"
	setupmodel "portfolio-backend/internal/setup/domain/model"
	"portfolio-backend/internal/shared/eventbus"
	"portfolio-backend/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const hubBuffer = 32

// ContactModule represents the complete contact form module
type ContactModule struct {
	config        *config.Config
	repository    repository.ContactRepository
	usecase       usecase.ContactUsecaseInterface
	hub           *contacthttp.Hub
	handler       *contacthttp.ContactHTTPHandler
	wsHandler     *contacthttp.WebSocketHandler
	systemHandler *contacthttp.SystemHTTPHandler
	redis         *redis.Client
}

// NewContactModule creates the module over the contacts collection of db.
func NewContactModule(db *mongo.Database, cfg *config.Config, bus eventbus.EventBusInterface, log logger.Logger) (*ContactModule, error) {
	repo := mongodb.NewMongoContactRepository(db, cfg.ContactsCollection, log)
	return NewContactModuleWithRepository(repo, cfg, bus, log)
}

// NewContactModuleWithRepository creates the module over any repository.
func NewContactModuleWithRepository(repo repository.ContactRepository, cfg *config.Config, bus eventbus.EventBusInterface, log logger.Logger) (*ContactModule, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if bus == nil {
		return nil, fmt.Errorf("contact module requires an event bus")
	}

	screener, err := screening.NewCELScreener(cfg.ScreeningRules, log)
	if err != nil {
		return nil, fmt.Errorf("failed to compile screening rules: %w", err)
	}

	contactUsecase := usecase.NewContactUsecase(
		repo,
		screener,
		setupmodel.ContactsSchema(cfg.ContactsCollection),
		bus,
		usecase.Options{DefaultPageSize: cfg.DefaultPageSize, MaxPageSize: cfg.MaxPageSize},
		log,
	)

	hub := contacthttp.NewHub(hubBuffer, log)
	bus.Subscribe(eventbus.EventTypeContactSubmitted, hub.HandleEvent)

	checker := health.NewChecker(health.NewProbe(
		"mongodb",
		repo.Ping,
		health.NewCircuitBreaker("mongodb", cfg.BreakerMaxFailures, cfg.BreakerOpenTimeout),
		cfg.ProbeTimeout,
	))

	m := &ContactModule{
		config:     cfg,
		repository: repo,
		usecase:    contactUsecase,
		hub:        hub,
		wsHandler:  contacthttp.NewWebSocketHandler(hub, log),
	}

	var archiveUsecase *usecase.ArchiveUsecase
	if cfg.Redis.Enabled {
		m.redis = config.NewRedisClient(cfg.Redis)
		archive := redisarchive.NewSubmissionArchive(m.redis, cfg.Redis.StreamName, cfg.Redis.StreamMaxLength, log)
		bus.Subscribe(eventbus.EventTypeContactSubmitted, usecase.ArchiveHandler(archive))
		archiveUsecase = usecase.NewArchiveUsecase(archive)
		checker.Add(health.NewProbe(
			"redis",
			archive.Ping,
			health.NewCircuitBreaker("redis", cfg.BreakerMaxFailures, cfg.BreakerOpenTimeout),
			cfg.ProbeTimeout,
		))
		log.Infof("Archiving submissions to Redis stream %s at %s", cfg.Redis.StreamName, cfg.Redis.GetAddr())
	}

	m.handler = contacthttp.NewContactHTTPHandler(contactUsecase, archiveUsecase, cfg.SubmitRateLimit, cfg.SubmitRateWindow)
	m.systemHandler = contacthttp.NewSystemHTTPHandler(cfg, checker)

	if n := screener.RuleCount(); n > 0 {
		log.Infof("Loaded %d submission screening rules", n)
	}
	return m, nil
}

// RegisterRoutes registers the system, contact and websocket routes on app.
// protect guards the admin routes.
func (m *ContactModule) RegisterRoutes(app fiber.Router, protect fiber.Handler) {
	m.systemHandler.RegisterRoutes(app)
	m.handler.RegisterRoutes(app.Group(m.config.APIPrefix), protect)
	m.wsHandler.RegisterRoutes(app, protect)
}

// GetUsecase returns the contact usecase for external access
func (m *ContactModule) GetUsecase() usecase.ContactUsecaseInterface {
	return m.usecase
}

// GetHub returns the websocket hub
func (m *ContactModule) GetHub() *contacthttp.Hub {
	return m.hub
}

// Stop releases the Redis connection, if any.
func (m *ContactModule) Stop() error {
	if m.redis != nil {
		return m.redis.Close()
	}
	return nil
}
