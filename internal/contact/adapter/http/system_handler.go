package http

import (
	"portfolio-backend/internal/contact/adapter/health"
	"portfolio-backend/internal/contact/config"

	"github.com/gofiber/fiber/v2"
)

// SystemHTTPHandler serves the API index and aggregate health.
type SystemHTTPHandler struct {
	config  *config.Config
	checker *health.Checker
}

// NewSystemHTTPHandler creates the handler.
func NewSystemHTTPHandler(cfg *config.Config, checker *health.Checker) *SystemHTTPHandler {
	return &SystemHTTPHandler{config: cfg, checker: checker}
}

// RegisterRoutes mounts GET /, GET /health and GET {prefix}/ on app.
func (h *SystemHTTPHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.Root)
	app.Get("/health", h.Health)
	app.Get(h.config.APIPrefix+"/", h.APIRoot)
}

// Root handles GET /
func (h *SystemHTTPHandler) Root(c *fiber.Ctx) error {
	prefix := h.config.APIPrefix
	return c.JSON(fiber.Map{
		"message": h.config.ProjectName + " API",
		"version": h.config.Version,
		"endpoints": fiber.Map{
			"contact":        prefix + "/contact",
			"admin_login":    prefix + "/admin/login",
			"resume":         prefix + "/resume",
			"certifications": prefix + "/certifications",
			"health":         "/health",
			"websocket":      "/ws/contacts",
		},
	})
}

// APIRoot handles GET {prefix}/
func (h *SystemHTTPHandler) APIRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": h.config.ProjectName + " API v1",
		"endpoints": fiber.Map{
			"contact":        "/contact",
			"contact_health": "/contact/health",
			"admin_login":    "/admin/login",
			"admin_contacts": "/contact/admin/all",
			"resume":         "/resume",
			"certifications": "/certifications",
		},
	})
}

// Health handles GET /health. It answers 503 when any dependency probe fails.
func (h *SystemHTTPHandler) Health(c *fiber.Ctx) error {
	healthy, results := h.checker.Check(c.UserContext())

	status := "healthy"
	code := fiber.StatusOK
	if !healthy {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"environment":  h.config.Environment,
		"dependencies": results,
	})
}
