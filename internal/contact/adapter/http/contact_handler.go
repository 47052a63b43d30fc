package http

import (
	"errors"
	"strconv"
	"time"

	authhttp "portfolio-backend/internal/auth/adapter/http"
	"portfolio-backend/internal/contact/domain/model"
	"portfolio-backend/internal/contact/usecase"
	apperrors "portfolio-backend/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// Messages returned to visitors when a request cannot be served.
const (
	submitFailedMessage = "An error occurred while processing your request. Please try again later."
	listFailedMessage   = "An error occurred while retrieving contacts."
)

// SubmitResponse is the body of POST /contact.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ContactHTTPHandler handles the contact form and its admin views.
type ContactHTTPHandler struct {
	usecase   usecase.ContactUsecaseInterface
	archive   *usecase.ArchiveUsecase
	rateLimit int
	window    time.Duration
}

// NewContactHTTPHandler creates the handler. archive may be nil when Redis is disabled.
func NewContactHTTPHandler(uc usecase.ContactUsecaseInterface, archive *usecase.ArchiveUsecase, rateLimit int, window time.Duration) *ContactHTTPHandler {
	return &ContactHTTPHandler{
		usecase:   uc,
		archive:   archive,
		rateLimit: rateLimit,
		window:    window,
	}
}

// RegisterRoutes mounts the contact routes under router; admin routes require protect.
func (h *ContactHTTPHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	router.Post("/contact", authhttp.RateLimiter(h.rateLimit, h.window), h.Submit)
	router.Get("/contact/health", h.Health)

	admin := router.Group("/contact/admin", protect)
	admin.Get("/all", h.ListAll)
	if h.archive != nil {
		admin.Get("/archive", h.Archive)
	}
	admin.Get("/:id", h.GetByID)
}

// Submit handles POST /contact
func (h *ContactHTTPHandler) Submit(c *fiber.Ctx) error {
	var req model.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	id, err := h.usecase.Submit(c.UserContext(), req, clientInfo(c))
	if err != nil {
		if apperrors.IsValidation(err) {
			return validationResponse(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(SubmitResponse{
			Success: false,
			Message: submitFailedMessage,
		})
	}

	return c.JSON(SubmitResponse{
		Success: true,
		Message: usecase.SuccessMessage,
		ID:      id,
	})
}

// Health handles GET /contact/health
func (h *ContactHTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "service": "contact"})
}

// ListAll handles GET /contact/admin/all?skip=&limit=
func (h *ContactHTTPHandler) ListAll(c *fiber.Ctx) error {
	skip, err := queryInt64(c, "skip")
	if err != nil {
		return validationResponse(c, err)
	}
	limit, err := queryInt64(c, "limit")
	if err != nil {
		return validationResponse(c, err)
	}

	result, err := h.usecase.List(c.UserContext(), skip, limit)
	if err != nil {
		if apperrors.IsValidation(err) {
			return validationResponse(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": listFailedMessage})
	}
	return c.JSON(result)
}

// GetByID handles GET /contact/admin/:id
func (h *ContactHTTPHandler) GetByID(c *fiber.Ctx) error {
	contact, err := h.usecase.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		switch {
		case apperrors.IsValidation(err):
			return validationResponse(c, err)
		case apperrors.IsNotFound(err):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contact not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": listFailedMessage})
		}
	}
	return c.JSON(contact)
}

// Archive handles GET /contact/admin/archive?count=
func (h *ContactHTTPHandler) Archive(c *fiber.Ctx) error {
	count, err := queryInt64(c, "count")
	if err != nil {
		return validationResponse(c, err)
	}
	if count == 0 {
		count = 50
	}

	entries, err := h.archive.Recent(c.UserContext(), count)
	if err != nil {
		if apperrors.IsValidation(err) {
			return validationResponse(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred while reading the archive."})
	}
	return c.JSON(fiber.Map{"submissions": entries, "total": len(entries)})
}

func validationResponse(c *fiber.Ctx, err error) error {
	body := fiber.Map{"success": false, "error": "Validation failed"}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body["error"] = appErr.Message
		if details, ok := appErr.Details["validation_errors"]; ok {
			body["details"] = details
		}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
}

func queryInt64(c *fiber.Ctx, key string) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(key + " must be an integer")
	}
	return v, nil
}

// clientInfo records the caller as resolved by c.IP(). X-Forwarded-For only
// counts when the request arrives from a configured trusted proxy.
func clientInfo(c *fiber.Ctx) model.ClientInfo {
	return model.ClientInfo{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}
