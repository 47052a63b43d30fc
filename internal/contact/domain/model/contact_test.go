package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	setupmodel "portfolio-backend/internal/setup/domain/model"
	apperrors "portfolio-backend/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() SubmitRequest {
	return SubmitRequest{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Hello",
		Message: "I enjoyed your portfolio.",
	}
}

func TestSanitize_StripsTagsAndWhitespace(t *testing.T) {
	req := SubmitRequest{
		Name:    "  <b>Ada</b> ",
		Email:   " ada@example.com ",
		Subject: "<script>alert(1)</script>Hi",
		Message: "\n<p>Body</p>\n",
	}

	got := req.Sanitize()

	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "alert(1)Hi", got.Subject)
	assert.Equal(t, "Body", got.Message)
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validRequest().Sanitize().Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmitRequest)
		field  string
	}{
		{"name only markup", func(r *SubmitRequest) { r.Name = "<br/>" }, setupmodel.FieldName},
		{"name too long", func(r *SubmitRequest) { r.Name = strings.Repeat("a", MaxNameLength+1) }, setupmodel.FieldName},
		{"subject empty", func(r *SubmitRequest) { r.Subject = "   " }, setupmodel.FieldSubject},
		{"subject too long", func(r *SubmitRequest) { r.Subject = strings.Repeat("s", MaxSubjectLength+1) }, setupmodel.FieldSubject},
		{"message too long", func(r *SubmitRequest) { r.Message = strings.Repeat("m", MaxMessageLength+1) }, setupmodel.FieldMessage},
		{"email empty", func(r *SubmitRequest) { r.Email = "" }, setupmodel.FieldEmail},
		{"email invalid", func(r *SubmitRequest) { r.Email = "not-an-email" }, setupmodel.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := req.Sanitize().Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			violations := appErr.Details["validation_errors"].([]apperrors.ValidationError)
			require.Len(t, violations, 1)
			assert.Equal(t, tt.field, violations[0].Field)
		})
	}
}

func TestValidate_CountsRunesNotBytes(t *testing.T) {
	req := validRequest()
	req.Name = strings.Repeat("é", MaxNameLength)
	assert.NoError(t, req.Validate())
}

func TestValidateLengths_CountsMarkup(t *testing.T) {
	req := validRequest()
	req.Name = "<b>" + strings.Repeat("a", MaxNameLength) + "</b>"

	assert.NoError(t, req.Sanitize().Validate())

	err := req.ValidateLengths()
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	violations := appErr.Details["validation_errors"].([]apperrors.ValidationError)
	require.Len(t, violations, 1)
	assert.Equal(t, setupmodel.FieldName, violations[0].Field)
	assert.Equal(t, MaxNameLength+7, violations[0].Value)
}

func TestValidateLengths_AtLimit(t *testing.T) {
	req := validRequest()
	req.Name = strings.Repeat("é", MaxNameLength)
	req.Subject = strings.Repeat("s", MaxSubjectLength)
	req.Message = strings.Repeat("m", MaxMessageLength)
	assert.NoError(t, req.ValidateLengths())
}

func TestNewContact_SatisfiesSchema(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	c := NewContact(validRequest(), ClientInfo{IPAddress: "10.0.0.1", UserAgent: "curl/8"}, now)

	assert.Equal(t, time.UTC, c.CreatedAt.Location())
	assert.True(t, c.CreatedAt.Equal(now))
	assert.NoError(t, setupmodel.ContactsSchema("contacts").Validate(c.Document()))
}

func TestNewContact_UnknownClient(t *testing.T) {
	c := NewContact(validRequest(), ClientInfo{}, time.Now())

	assert.Equal(t, UnknownClient, c.IPAddress)
	assert.Equal(t, UnknownClient, c.UserAgent)
}

func TestDocument_OmitsEmptyOptionalFields(t *testing.T) {
	c := &Contact{Name: "a", Email: "a@b.co", Subject: "s", Message: "m", CreatedAt: time.Now()}
	doc := c.Document()

	assert.NotContains(t, doc, setupmodel.FieldIPAddress)
	assert.NotContains(t, doc, setupmodel.FieldUserAgent)
	assert.NoError(t, setupmodel.ContactsSchema("contacts").Validate(doc))
}
