package http

import (
	"time"

	"portfolio-backend/internal/auth/domain/model"
	"portfolio-backend/internal/auth/usecase"
	apperrors "portfolio-backend/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for admin authentication
type AuthHTTPHandler struct {
	usecase   usecase.AuthUsecaseInterface
	rateLimit int
	window    time.Duration
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface, rateLimit int, window time.Duration) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase:   uc,
		rateLimit: rateLimit,
		window:    window,
	}
}

// RegisterRoutes mounts POST /admin/login under router.
func (h *AuthHTTPHandler) RegisterRoutes(router fiber.Router) {
	admin := router.Group("/admin")
	admin.Post("/login", RateLimiter(h.rateLimit, h.window), h.Login)
}

// Login handles admin login
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := h.usecase.Login(c.UserContext(), req)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		switch {
		case apperrors.IsValidation(err):
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		case apperrors.IsAuthentication(err):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid username or password",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
	}

	return c.JSON(session)
}
