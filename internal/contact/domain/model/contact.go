package model

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	setupmodel "portfolio-backend/internal/setup/domain/model"
	apperrors "portfolio-backend/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field limits for contact submissions
const (
	MaxNameLength    = 100
	MaxSubjectLength = 200
	MaxMessageLength = 2000
)

// UnknownClient is recorded when the caller's address or agent is unavailable.
const UnknownClient = "unknown"

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// SubmitRequest is the public contact form payload.
type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ClientInfo describes the caller of a submission.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// Contact is a stored contact form submission.
type Contact struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Subject   string             `json:"subject" bson:"subject"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	IPAddress string             `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent string             `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
}

// StripHTML removes markup tags and surrounding whitespace.
func StripHTML(s string) string {
	return strings.TrimSpace(htmlTag.ReplaceAllString(s, ""))
}

// Sanitize returns a copy with tags stripped from free text and the email trimmed.
func (r SubmitRequest) Sanitize() SubmitRequest {
	return SubmitRequest{
		Name:    StripHTML(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Subject: StripHTML(r.Subject),
		Message: StripHTML(r.Message),
	}
}

// ValidateLengths checks the raw request against the field limits. It runs
// before Sanitize so that markup counts toward the limit.
func (r SubmitRequest) ValidateLengths() error {
	ve := apperrors.NewValidationErrors()

	checkMaxLength(ve, setupmodel.FieldName, r.Name, MaxNameLength)
	checkMaxLength(ve, setupmodel.FieldSubject, r.Subject, MaxSubjectLength)
	checkMaxLength(ve, setupmodel.FieldMessage, r.Message, MaxMessageLength)

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// Validate checks a sanitized request against the form constraints.
func (r SubmitRequest) Validate() error {
	ve := apperrors.NewValidationErrors()

	checkText(ve, setupmodel.FieldName, r.Name, MaxNameLength)
	checkText(ve, setupmodel.FieldSubject, r.Subject, MaxSubjectLength)
	checkText(ve, setupmodel.FieldMessage, r.Message, MaxMessageLength)

	if r.Email == "" {
		ve.Add(setupmodel.FieldEmail, "cannot be empty", r.Email)
	} else if !setupmodel.EmailPattern.MatchString(r.Email) {
		ve.Add(setupmodel.FieldEmail, "is not a valid email address", r.Email)
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

func checkText(ve *apperrors.ValidationErrors, field, value string, max int) {
	switch n := utf8.RuneCountInString(value); {
	case n == 0:
		ve.Add(field, "cannot be empty", value)
	case n > max:
		ve.Add(field, "is too long", n)
	}
}

func checkMaxLength(ve *apperrors.ValidationErrors, field, value string, max int) {
	if n := utf8.RuneCountInString(value); n > max {
		ve.Add(field, "is too long", n)
	}
}

// NewContact builds the document to persist for a sanitized request.
func NewContact(r SubmitRequest, client ClientInfo, now time.Time) *Contact {
	ip := strings.TrimSpace(client.IPAddress)
	if ip == "" {
		ip = UnknownClient
	}
	ua := strings.TrimSpace(client.UserAgent)
	if ua == "" {
		ua = UnknownClient
	}
	return &Contact{
		Name:      r.Name,
		Email:     r.Email,
		Subject:   r.Subject,
		Message:   r.Message,
		CreatedAt: now.UTC(),
		IPAddress: ip,
		UserAgent: ua,
	}
}

// Document returns the fields the collection schema validates.
func (c *Contact) Document() map[string]interface{} {
	doc := map[string]interface{}{
		setupmodel.FieldName:      c.Name,
		setupmodel.FieldEmail:     c.Email,
		setupmodel.FieldSubject:   c.Subject,
		setupmodel.FieldMessage:   c.Message,
		setupmodel.FieldCreatedAt: c.CreatedAt,
	}
	if c.IPAddress != "" {
		doc[setupmodel.FieldIPAddress] = c.IPAddress
	}
	if c.UserAgent != "" {
		doc[setupmodel.FieldUserAgent] = c.UserAgent
	}
	return doc
}
