package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	authhttp "portfolio-backend/internal/auth/adapter/http"
	authconfig "portfolio-backend/internal/auth/config"
	"portfolio-backend/internal/contact/config"
	"portfolio-backend/internal/di"
	apperrors "portfolio-backend/internal/shared/errors"
	"portfolio-backend/internal/shared/logger"
	"portfolio-backend/internal/shared/utils"
	staticconfig "portfolio-backend/internal/static/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the contact form HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	appLogger := logger.NewLogger()

	contactConfig, err := config.LoadConfig()
	if err != nil {
		return err
	}
	authConfig, err := authconfig.LoadConfig()
	if err != nil {
		return err
	}
	staticConfig, err := staticconfig.LoadConfig()
	if err != nil {
		return err
	}
	appLogger.Info("Application configuration loaded successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(contactConfig.MongoDBURI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	if err := container.InitializeAuth(authConfig); err != nil {
		return err
	}
	appLogger.Info("Auth module initialized successfully")

	if err := container.InitializeContact(mongoClient.Database(contactConfig.DatabaseName), contactConfig); err != nil {
		return err
	}
	appLogger.Info("Contact module initialized successfully")

	if err := container.InitializeStatic(staticConfig); err != nil {
		return err
	}
	appLogger.Infof("Static files served from %s", staticConfig.Dir)

	if err := container.HealthCheck(ctx); err != nil {
		return err
	}
	appLogger.Info("MongoDB connection established successfully")

	app := fiber.New(newFiberConfig(contactConfig, appLogger))

	app.Use(recover.New())
	app.Use(authhttp.RequestID())
	app.Use(authhttp.RequestContext())
	app.Use(authhttp.SecurityHeaders())
	app.Use(cors.New(newCORSConfig(contactConfig)))

	if err := container.RegisterRoutes(app, contactConfig.APIPrefix); err != nil {
		return err
	}

	serverAddr := contactConfig.Addr()
	appLogger.Infof("All modules initialized. Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverShutdown:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
	return nil
}

// newFiberConfig builds the app settings. X-Forwarded-For is honoured only
// for requests arriving from one of cfg.TrustedProxies.
func newFiberConfig(cfg *config.Config, log logger.Logger) fiber.Config {
	fc := fiber.Config{
		AppName:               cfg.ProjectName + " " + cfg.Version,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: !cfg.IsDevelopment(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			log.WithContext(c.UserContext()).Errorf("HTTP Error: %v", err)
			return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
				"error":      "Internal Server Error",
				"request_id": utils.GetRequestIDOrDefault(c.UserContext(), ""),
			})
		},
	}
	if len(cfg.TrustedProxies) > 0 {
		fc.ProxyHeader = fiber.HeaderXForwardedFor
		fc.EnableTrustedProxyCheck = true
		fc.TrustedProxies = cfg.TrustedProxies
		fc.EnableIPValidation = true
	}
	return fc
}

// newCORSConfig allows credentials only for an explicit origin list. A
// wildcard anywhere in CORS_ORIGINS collapses to "*" without credentials.
func newCORSConfig(cfg *config.Config) cors.Config {
	cc := cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}
	if cfg.AllowsAnyOrigin() {
		cc.AllowOrigins = "*"
		cc.AllowCredentials = false
	}
	return cc
}
