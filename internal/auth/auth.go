package auth

import (
	"fmt"

	authhttp "portfolio-backend/internal/auth/adapter/http"
	"portfolio-backend/internal/auth/adapter/security"
	"portfolio-backend/internal/auth/config"
	"portfolio-backend/internal/auth/domain/repository"
	"portfolio-backend/internal/auth/usecase"
	"portfolio-backend/internal/shared/eventbus"
	"portfolio-backend/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// AuthModule represents the admin authentication module
type AuthModule struct {
	tokenSvc   repository.TokenService
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	middleware *authhttp.AuthMiddleware
	config     *config.Config
}

// NewAuthModule creates a new authentication module instance
func NewAuthModule(cfg *config.Config, bus eventbus.EventBusInterface, log logger.Logger) (*AuthModule, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth configuration: %w", err)
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	authUsecase := usecase.NewAuthUsecase(tokenSvc, cfg, bus, log)

	return &AuthModule{
		tokenSvc:   tokenSvc,
		usecase:    authUsecase,
		handler:    authhttp.NewAuthHTTPHandler(authUsecase, cfg.LoginRateLimit, cfg.LoginRateWindow),
		middleware: authhttp.NewAuthMiddleware(authUsecase),
		config:     cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.handler.RegisterRoutes(router)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return am.middleware
}
