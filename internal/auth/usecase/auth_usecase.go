package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"portfolio-backend/internal/auth/config"
	"portfolio-backend/internal/auth/domain/model"
	"portfolio-backend/internal/auth/domain/repository"
	apperrors "portfolio-backend/internal/shared/errors"
	"portfolio-backend/internal/shared/eventbus"
	"portfolio-backend/internal/shared/logger"

	"golang.org/x/crypto/bcrypt"
)

// Password constraints for the admin account
const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores bytes past 72
)

// AuthUsecaseInterface defines the contract for admin authentication.
type AuthUsecaseInterface interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.Session, error)
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
}

// AuthUsecase authenticates the single configured admin account.
type AuthUsecase struct {
	tokenSvc repository.TokenService
	config   *config.Config
	bus      eventbus.EventBusInterface
	log      logger.Logger
	now      func() time.Time
}

// NewAuthUsecase creates a new instance of AuthUsecase. bus may be nil.
func NewAuthUsecase(
	tokenSvc repository.TokenService,
	cfg *config.Config,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) *AuthUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &AuthUsecase{
		tokenSvc: tokenSvc,
		config:   cfg,
		bus:      bus,
		log:      log.WithComponent("auth"),
		now:      time.Now,
	}
}

// Login checks the admin credentials and issues an access token.
func (uc *AuthUsecase) Login(ctx context.Context, req model.LoginRequest) (*model.Session, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("username and password are required")
	}

	// Both checks always run so a wrong username costs the same as a wrong password.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(uc.config.AdminUsername)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(uc.config.AdminPasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		uc.log.WithContext(ctx).Warnf("Failed admin login attempt for %q", username)
		return nil, apperrors.NewAuthenticationError("invalid credentials").WithCause(apperrors.ErrInvalidCredentials)
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, username, repository.RoleAdmin)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate token").WithCause(err)
	}

	if uc.bus != nil {
		uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeAdminLoggedIn, username, "auth"))
	}
	uc.log.WithContext(ctx).Infof("Admin %s logged in", username)

	return &model.Session{
		Username:  username,
		Token:     token,
		TokenType: "bearer",
		ExpiresAt: uc.now().Add(uc.config.AccessTokenTTL).UTC(),
	}, nil
}

// ValidateToken validates a bearer token and requires the admin role.
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, apperrors.NewAuthenticationError("invalid token").WithCause(apperrors.ErrInvalidToken)
	}
	if !claims.HasRole(repository.RoleAdmin) {
		return nil, apperrors.NewAuthorizationError("insufficient permissions").WithCause(apperrors.ErrForbidden)
	}
	return claims, nil
}

// HashPassword produces the bcrypt hash expected in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return "", fmt.Errorf("password must be between %d and %d characters", minPasswordLength, maxPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
