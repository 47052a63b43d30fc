package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authhttp "portfolio-backend/internal/auth/adapter/http"
	"portfolio-backend/internal/auth/domain/repository"
	"portfolio-backend/internal/shared/contextkeys"
	apperrors "portfolio-backend/internal/shared/errors"
	"portfolio-backend/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MiddlewareTestSuite struct {
	suite.Suite
	app    *fiber.App
	mockUC *mockAuthUsecase
}

func (suite *MiddlewareTestSuite) SetupTest() {
	suite.mockUC = &mockAuthUsecase{}
	middleware := authhttp.NewAuthMiddleware(suite.mockUC)

	suite.app = fiber.New()
	suite.app.Use(authhttp.RequestID(), authhttp.RequestContext())
	suite.app.Get("/protected", middleware.Protect(), func(c *fiber.Ctx) error {
		admin, ok := c.Locals(contextkeys.AdminKey.String()).(string)
		fromCtx, _ := utils.GetAdminFromContext(c.UserContext())
		ip, _ := utils.GetClientIPFromContext(c.UserContext())
		return c.JSON(fiber.Map{"admin": admin, "ok": ok, "ctx_admin": fromCtx, "client_ip": ip})
	})
}

func (suite *MiddlewareTestSuite) TestProtect_BearerHeader() {
	suite.mockUC.On("ValidateToken", mock.Anything, "valid-token").
		Return(&repository.Claims{Username: "admin", Role: repository.RoleAdmin}, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp, err := suite.app.Test(req)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.NotEmpty(suite.T(), resp.Header.Get(fiber.HeaderXRequestID))

	var body map[string]interface{}
	require.NoError(suite.T(), json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(suite.T(), "admin", body["admin"])
	assert.Equal(suite.T(), "admin", body["ctx_admin"])
	assert.Equal(suite.T(), true, body["ok"])
}

func (suite *MiddlewareTestSuite) TestProtect_QueryToken() {
	suite.mockUC.On("ValidateToken", mock.Anything, "ws-token").
		Return(&repository.Claims{Username: "admin", Role: repository.RoleAdmin}, nil)

	resp, err := suite.app.Test(httptest.NewRequest(http.MethodGet, "/protected?token=ws-token", nil))

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

func (suite *MiddlewareTestSuite) TestProtect_MissingToken() {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err := suite.app.Test(req)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
	suite.mockUC.AssertNotCalled(suite.T(), "ValidateToken", mock.Anything, mock.Anything)
}

func (suite *MiddlewareTestSuite) TestProtect_InvalidToken() {
	suite.mockUC.On("ValidateToken", mock.Anything, "expired").
		Return(nil, apperrors.NewAuthenticationError("invalid token"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer expired")
	resp, err := suite.app.Test(req)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

func (suite *MiddlewareTestSuite) TestProtect_WrongRole() {
	suite.mockUC.On("ValidateToken", mock.Anything, "viewer").
		Return(nil, apperrors.NewAuthorizationError("insufficient permissions"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer viewer")
	resp, err := suite.app.Test(req)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusForbidden, resp.StatusCode)
}

func (suite *MiddlewareTestSuite) TestRequestID_ReusesCallerID() {
	suite.mockUC.On("ValidateToken", mock.Anything, "valid-token").
		Return(&repository.Claims{Username: "admin", Role: repository.RoleAdmin}, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	resp, err := suite.app.Test(req)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "req-42", resp.Header.Get(fiber.HeaderXRequestID))
}

func (suite *MiddlewareTestSuite) TestRequestContext_IgnoresUntrustedForwardedFor() {
	suite.mockUC.On("ValidateToken", mock.Anything, "valid-token").
		Return(&repository.Claims{Username: "admin", Role: repository.RoleAdmin}, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	req.Header.Set(fiber.HeaderXForwardedFor, "203.0.113.9")
	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)

	var body map[string]interface{}
	require.NoError(suite.T(), json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(suite.T(), "0.0.0.0", body["client_ip"])
}

func TestMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareTestSuite))
}

func TestSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(authhttp.SecurityHeaders())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

func TestRateLimiter_IgnoresRotatedForwardedFor(t *testing.T) {
	app := fiber.New()
	app.Get("/limited", authhttp.RateLimiter(3, time.Minute), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	limited := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.Header.Set(fiber.HeaderXForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		resp, err := app.Test(req)
		require.NoError(t, err)
		if resp.StatusCode == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 7, limited)
}

func TestRateLimiter_TrustedProxyKeysOnForwardedClient(t *testing.T) {
	app := fiber.New(fiber.Config{
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0"},
		EnableIPValidation:      true,
	})
	app.Get("/limited", authhttp.RateLimiter(1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendString(c.IP())
	})

	for _, client := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.Header.Set(fiber.HeaderXForwardedFor, client+", 10.0.0.1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.Header.Set(fiber.HeaderXForwardedFor, "198.51.100.1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
