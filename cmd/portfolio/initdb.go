package main

import (
	"context"
	"fmt"

	"portfolio-backend/internal/setup"
	"portfolio-backend/internal/setup/config"
	"portfolio-backend/internal/shared/logger"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func newInitDBCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Create the application user, the contacts collection and its indexes",
		Long: `Create the application user, the contacts collection and its indexes.

Run once against a freshly provisioned database. A second run fails with an
"already exists" error for the user.`,
		Args: cobra.NoArgs,
		RunE: runInitDB,
	}
}

func runInitDB(cmd *cobra.Command, _ []string) error {
	appLogger := logger.NewLogger().WithComponent("initdb")

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			appLogger.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	appLogger.Infof("Connected to MongoDB, initializing database %s", cfg.DatabaseName)

	result, err := setup.NewSetupModule(client, cfg, cmd.OutOrStdout(), appLogger).Run(ctx)
	if err != nil {
		return err
	}

	for _, step := range result.Steps {
		appLogger.WithFields(map[string]interface{}{
			"step":     step.Name,
			"target":   step.Target,
			"duration": step.Duration.String(),
		}).Debug("Step completed")
	}
	return nil
}
