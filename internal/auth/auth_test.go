package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/auth/config"
	"portfolio-backend/internal/auth/domain/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestConfig(t *testing.T) *config.Config {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.Config{
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		JWTSecretKey:      "test-secret-key-32-characters-long-12345",
		JWTIssuer:         "portfolio-backend",
		AccessTokenTTL:    time.Hour,
		LoginRateLimit:    10,
		LoginRateWindow:   time.Minute,
	}
}

func TestNewAuthModule_InvalidConfig(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.JWTSecretKey = "short"

	_, err := auth.NewAuthModule(cfg, nil, nil)
	assert.Error(t, err)
}

func TestAuthModule_LoginThenAccessProtectedRoute(t *testing.T) {
	module, err := auth.NewAuthModule(newTestConfig(t), nil, nil)
	require.NoError(t, err)

	app := fiber.New()
	api := app.Group("/api/v1")
	module.RegisterRoutes(api)
	api.Get("/secret", module.GetMiddleware().Protect(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	payload, _ := json.Marshal(model.LoginRequest{Username: "admin", Password: "correct-horse"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session model.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	require.NotEmpty(t, session.Token)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/secret", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/secret", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
