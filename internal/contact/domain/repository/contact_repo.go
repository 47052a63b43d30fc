package repository

import (
	"context"
	"time"

	"portfolio-backend/internal/contact/domain/model"
)

// ContactRepository persists contact submissions.
type ContactRepository interface {
	Insert(ctx context.Context, contact *model.Contact) (string, error)
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	// List returns contacts newest first.
	List(ctx context.Context, skip, limit int64) ([]*model.Contact, error)
	Ping(ctx context.Context) error
}

// Screener decides whether a submission should be refused.
type Screener interface {
	// Screen returns the matching rule, or "" when the contact passes.
	Screen(ctx context.Context, contact *model.Contact) (string, error)
}

// ArchivedSubmission is one entry of the submissions stream.
type ArchivedSubmission struct {
	StreamID  string    `json:"stream_id"`
	EventID   string    `json:"event_id"`
	ContactID string    `json:"contact_id"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmissionArchive keeps a capped log of accepted submissions.
type SubmissionArchive interface {
	Append(ctx context.Context, eventID string, contact *model.Contact) error
	Recent(ctx context.Context, count int64) ([]ArchivedSubmission, error)
	Ping(ctx context.Context) error
}
