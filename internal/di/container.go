package di

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"portfolio-backend/internal/auth"
	authconfig "portfolio-backend/internal/auth/config"
	"portfolio-backend/internal/contact"
	contactconfig "portfolio-backend/internal/contact/config"
	apperrors "portfolio-backend/internal/shared/errors"
	"portfolio-backend/internal/shared/eventbus"
	"portfolio-backend/internal/shared/logger"
	"portfolio-backend/internal/static"
	staticconfig "portfolio-backend/internal/static/config"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Container owns the modules served by the API process and their shutdown order.
type Container struct {
	mu sync.RWMutex
	// Module instances
	AuthModule    *auth.AuthModule
	ContactModule *contact.ContactModule
	StaticModule  *static.StaticModule
	// Database connections
	MongoDB *mongo.Database
	// Shared components
	EventBus *eventbus.EventBus
	Logger   logger.Logger
}

// NewContainer creates a container with a fresh event bus.
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Container{
		EventBus: eventbus.NewEventBus(log.WithComponent("eventbus")),
		Logger:   log,
	}
}

// InitializeAuth initializes the admin authentication module.
func (c *Container) InitializeAuth(cfg *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	authModule, err := auth.NewAuthModule(cfg, c.EventBus, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	c.AuthModule = authModule
	return nil
}

// InitializeContact initializes the contact module over mongoDB.
func (c *Container) InitializeContact(mongoDB *mongo.Database, cfg *contactconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.AuthModule == nil {
		return errors.New("auth module must be initialized before contact module")
	}
	if mongoDB == nil {
		return errors.New("MongoDB must be initialized before contact module")
	}

	contactModule, err := contact.NewContactModule(mongoDB, cfg, c.EventBus, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create contact module: %w", err)
	}
	c.MongoDB = mongoDB
	c.ContactModule = contactModule
	return nil
}

// InitializeStatic initializes the resume and certification file routes.
func (c *Container) InitializeStatic(cfg *staticconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	staticModule, err := static.NewStaticModule(cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create static module: %w", err)
	}
	c.StaticModule = staticModule
	return nil
}

// RegisterRoutes mounts the auth routes under apiPrefix and the contact routes
// on app, plus the static file routes when that module is initialized.
func (c *Container) RegisterRoutes(app *fiber.App, apiPrefix string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.AuthModule == nil || c.ContactModule == nil {
		return errors.New("modules must be initialized before registering routes")
	}

	c.AuthModule.RegisterRoutes(app.Group(apiPrefix))
	c.ContactModule.RegisterRoutes(app, c.AuthModule.GetMiddleware().Protect())
	if c.StaticModule != nil {
		c.StaticModule.RegisterRoutes(app, apiPrefix)
	}
	return nil
}

// GetAuthModule returns the auth module instance
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetContactModule returns the contact module instance
func (c *Container) GetContactModule() *contact.ContactModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ContactModule
}

// GetStaticModule returns the static module instance
func (c *Container) GetStaticModule() *static.StaticModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.StaticModule
}

// HealthCheck pings MongoDB.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, readpref.Primary()); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w: %w", apperrors.ErrDependencyUnhealthy, err)
		}
	}
	return nil
}

// Close stops modules in reverse order of initialization.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.ContactModule != nil {
		if err := c.ContactModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop contact module: %w", err))
		}
		c.ContactModule = nil
	}
	c.StaticModule = nil
	c.AuthModule = nil

	return errors.Join(errs...)
}
