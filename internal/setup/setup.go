package setup

import (
	"context"
	"io"

	"portfolio-backend/internal/setup/adapter/persistence/mongodb"
	"portfolio-backend/internal/setup/config"
	"portfolio-backend/internal/setup/domain/repository"
	"portfolio-backend/internal/setup/usecase"
	"portfolio-backend/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// SetupModule wires the initializer against a MongoDB database.
type SetupModule struct {
	repository  *mongodb.MongoAdminRepository
	initializer *usecase.Initializer
	config      *config.Config
}

// NewSetupModule creates the module. client must be authenticated with a user
// allowed to create users, collections and indexes on cfg.DatabaseName.
func NewSetupModule(client *mongo.Client, cfg *config.Config, out io.Writer, log logger.Logger) *SetupModule {
	repo := mongodb.NewMongoAdminRepository(client.Database(cfg.DatabaseName), log)
	return &SetupModule{
		repository:  repo,
		initializer: usecase.NewInitializer(repo, usecase.PlanFromConfig(cfg), out, log),
		config:      cfg,
	}
}

// Run executes the initializer once, bounded by the configured timeout.
func (m *SetupModule) Run(ctx context.Context) (*usecase.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()
	return m.initializer.Run(ctx)
}

// GetInspector exposes read-back queries over what setup provisioned.
func (m *SetupModule) GetInspector() repository.Inspector {
	return m.repository
}
