package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	contacthttp "portfolio-backend/internal/contact/adapter/http"
	"portfolio-backend/internal/contact/domain/model"
	"portfolio-backend/internal/contact/domain/repository"
	"portfolio-backend/internal/contact/usecase"
	apperrors "portfolio-backend/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type mockContactUsecase struct {
	mock.Mock
}

func (m *mockContactUsecase) Submit(ctx context.Context, req model.SubmitRequest, client model.ClientInfo) (string, error) {
	args := m.Called(ctx, req, client)
	return args.String(0), args.Error(1)
}

func (m *mockContactUsecase) Get(ctx context.Context, id string) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *mockContactUsecase) List(ctx context.Context, skip, limit int64) (*usecase.ListResult, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListResult), args.Error(1)
}

type stubArchive struct {
	entries []repository.ArchivedSubmission
}

func (s *stubArchive) Append(ctx context.Context, eventID string, contact *model.Contact) error {
	return nil
}

func (s *stubArchive) Recent(ctx context.Context, count int64) ([]repository.ArchivedSubmission, error) {
	if int64(len(s.entries)) > count {
		return s.entries[:count], nil
	}
	return s.entries, nil
}

func (s *stubArchive) Ping(ctx context.Context) error { return nil }

// allowToken admits requests carrying the "Bearer good" header.
func allowToken(c *fiber.Ctx) error {
	if c.Get("Authorization") != "Bearer good" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}
	return c.Next()
}

type ContactHTTPTestSuite struct {
	suite.Suite
	app *fiber.App
	uc  *mockContactUsecase
}

func (s *ContactHTTPTestSuite) SetupTest() {
	s.uc = &mockContactUsecase{}
	archive := usecase.NewArchiveUsecase(&stubArchive{entries: []repository.ArchivedSubmission{
		{ContactID: "c2", EventID: "e2"}, {ContactID: "c1", EventID: "e1"},
	}})
	handler := contacthttp.NewContactHTTPHandler(s.uc, archive, 3, time.Minute)

	s.app = fiber.New()
	handler.RegisterRoutes(s.app.Group("/api/v1"), allowToken)
}

func (s *ContactHTTPTestSuite) do(req *http.Request) (*http.Response, map[string]interface{}) {
	resp, err := s.app.Test(req)
	s.Require().NoError(err)
	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func (s *ContactHTTPTestSuite) submit(payload interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return s.do(req)
}

func (s *ContactHTTPTestSuite) admin(path string) (*http.Response, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer good")
	return s.do(req)
}

func (s *ContactHTTPTestSuite) TestSubmit_Success() {
	payload := model.SubmitRequest{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello"}
	s.uc.On("Submit", mock.Anything, payload, model.ClientInfo{IPAddress: "0.0.0.0", UserAgent: "test-agent"}).
		Return("665f1c2e9b1e8a3d4c5b6a79", nil)

	resp, body := s.submit(payload, map[string]string{
		"X-Forwarded-For": "203.0.113.9, 10.0.0.1",
		"User-Agent":      "test-agent",
	})

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(true, body["success"])
	s.Equal(usecase.SuccessMessage, body["message"])
	s.Equal("665f1c2e9b1e8a3d4c5b6a79", body["id"])
	s.uc.AssertExpectations(s.T())
}

func (s *ContactHTTPTestSuite) TestSubmit_TrustedProxyForwardsClientIP() {
	handler := contacthttp.NewContactHTTPHandler(s.uc, nil, 3, time.Minute)
	app := fiber.New(fiber.Config{
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0"},
		EnableIPValidation:      true,
	})
	handler.RegisterRoutes(app.Group("/api/v1"), allowToken)

	payload := model.SubmitRequest{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello"}
	s.uc.On("Submit", mock.Anything, payload, model.ClientInfo{IPAddress: "203.0.113.9", UserAgent: "test-agent"}).
		Return("665f1c2e9b1e8a3d4c5b6a79", nil)

	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "test-agent")
	resp, err := app.Test(req)

	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.uc.AssertExpectations(s.T())
}

func (s *ContactHTTPTestSuite) TestSubmit_RateLimitIgnoresRotatedForwardedFor() {
	s.uc.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return("id", nil)

	limited := 0
	for i := 0; i < 10; i++ {
		resp, _ := s.submit(model.SubmitRequest{Name: "a"}, map[string]string{
			"X-Forwarded-For": fmt.Sprintf("198.51.100.%d", i+1),
		})
		if resp.StatusCode == http.StatusTooManyRequests {
			limited++
		}
	}
	s.Equal(7, limited)
	s.uc.AssertNumberOfCalls(s.T(), "Submit", 3)
}

func (s *ContactHTTPTestSuite) TestSubmit_ValidationError() {
	ve := apperrors.NewValidationErrors().Add("email", "is not a valid email address", "nope")
	s.uc.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return("", ve.ToAppError())

	resp, body := s.submit(model.SubmitRequest{Email: "nope"}, nil)

	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	s.Equal(false, body["success"])
	details, ok := body["details"].([]interface{})
	s.Require().True(ok)
	s.Len(details, 1)
}

func (s *ContactHTTPTestSuite) TestSubmit_InternalErrorIsGeneric() {
	s.uc.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Return("", apperrors.NewInfrastructureError("failed to store contact").WithCause(errors.New("mongo: secret detail")))

	resp, body := s.submit(model.SubmitRequest{Name: "a"}, nil)

	s.Equal(http.StatusInternalServerError, resp.StatusCode)
	s.Equal(false, body["success"])
	s.NotContains(body["message"], "secret")
}

func (s *ContactHTTPTestSuite) TestSubmit_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := s.do(req)

	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	s.uc.AssertNotCalled(s.T(), "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ContactHTTPTestSuite) TestSubmit_RateLimited() {
	s.uc.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return("id", nil)

	for i := 0; i < 3; i++ {
		resp, _ := s.submit(model.SubmitRequest{Name: "a"}, nil)
		s.Equal(http.StatusOK, resp.StatusCode)
	}
	resp, _ := s.submit(model.SubmitRequest{Name: "a"}, nil)
	s.Equal(http.StatusTooManyRequests, resp.StatusCode)
}

func (s *ContactHTTPTestSuite) TestHealth() {
	resp, body := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/contact/health", nil))

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("healthy", body["status"])
	s.Equal("contact", body["service"])
}

func (s *ContactHTTPTestSuite) TestAdmin_RequiresToken() {
	resp, _ := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/contact/admin/all", nil))
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.uc.AssertNotCalled(s.T(), "List", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ContactHTTPTestSuite) TestListAll() {
	s.uc.On("List", mock.Anything, int64(5), int64(10)).Return(&usecase.ListResult{
		Contacts: []*model.Contact{{Name: "Ada"}},
		Total:    1,
		Skip:     5,
		Limit:    10,
	}, nil)

	resp, body := s.admin("/api/v1/contact/admin/all?skip=5&limit=10")

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(float64(1), body["total"])
	s.Equal(float64(5), body["skip"])
	s.Len(body["contacts"], 1)
}

func (s *ContactHTTPTestSuite) TestListAll_BadQuery() {
	resp, _ := s.admin("/api/v1/contact/admin/all?skip=abc")
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	s.uc.On("List", mock.Anything, int64(-1), int64(0)).Return(nil, apperrors.NewValidationError("skip and limit must not be negative"))
	resp, _ = s.admin("/api/v1/contact/admin/all?skip=-1")
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *ContactHTTPTestSuite) TestListAll_Failure() {
	s.uc.On("List", mock.Anything, int64(0), int64(0)).Return(nil, apperrors.NewInfrastructureError("failed"))

	resp, _ := s.admin("/api/v1/contact/admin/all")

	s.Equal(http.StatusInternalServerError, resp.StatusCode)
}

func (s *ContactHTTPTestSuite) TestGetByID() {
	s.uc.On("Get", mock.Anything, "abc").Return(&model.Contact{Name: "Ada", Email: "ada@example.com"}, nil)
	s.uc.On("Get", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("contact"))
	s.uc.On("Get", mock.Anything, "bad").Return(nil, apperrors.NewValidationError("invalid contact id"))

	resp, body := s.admin("/api/v1/contact/admin/abc")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("Ada", body["name"])

	resp, _ = s.admin("/api/v1/contact/admin/missing")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, _ = s.admin("/api/v1/contact/admin/bad")
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *ContactHTTPTestSuite) TestArchive() {
	resp, body := s.admin("/api/v1/contact/admin/archive?count=1")

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(float64(1), body["total"])
	s.uc.AssertNotCalled(s.T(), "Get", mock.Anything, mock.Anything)

	resp, _ = s.admin("/api/v1/contact/admin/archive?count=100000")
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestContactHTTPTestSuite(t *testing.T) {
	suite.Run(t, new(ContactHTTPTestSuite))
}

func TestRoutes_WithoutArchive(t *testing.T) {
	uc := &mockContactUsecase{}
	uc.On("Get", mock.Anything, "archive").Return(nil, apperrors.NewValidationError("invalid contact id"))

	app := fiber.New()
	contacthttp.NewContactHTTPHandler(uc, nil, 5, time.Minute).RegisterRoutes(app.Group("/api/v1"), allowToken)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contact/admin/archive", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected archive to fall through to /:id, got %d", resp.StatusCode)
	}
}
