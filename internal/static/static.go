package static

import (
	"fmt"

	"portfolio-backend/internal/shared/logger"
	statichttp "portfolio-backend/internal/static/adapter/http"
	"portfolio-backend/internal/static/config"

	"github.com/gofiber/fiber/v2"
)

// StaticModule serves the resume and certification files
type StaticModule struct {
	handler *statichttp.StaticHTTPHandler
	config  *config.Config
}

// NewStaticModule creates the module over cfg.Dir
func NewStaticModule(cfg *config.Config, log logger.Logger) (*StaticModule, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid static configuration: %w", err)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &StaticModule{
		handler: statichttp.NewStaticHTTPHandler(cfg.Dir, cfg.CertificationMaxAge, log.WithComponent("static")),
		config:  cfg,
	}, nil
}

// RegisterRoutes registers the file routes on app
func (sm *StaticModule) RegisterRoutes(app fiber.Router, apiPrefix string) {
	sm.handler.RegisterRoutes(app, apiPrefix)
}
