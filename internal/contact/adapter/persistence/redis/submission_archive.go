package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"portfolio-backend/internal/contact/domain/model"
	"portfolio-backend/internal/contact/domain/repository"
	"portfolio-backend/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// Stream entry field names
const (
	fieldEventID   = "event_id"
	fieldContactID = "contact_id"
	fieldEmail     = "email"
	fieldSubject   = "subject"
	fieldCreatedAt = "created_at"
)

// SubmissionArchive appends accepted submissions to a capped Redis Stream.
type SubmissionArchive struct {
	client    redis.UniversalClient
	stream    string
	maxLength int64
	logger    logger.Logger
}

var _ repository.SubmissionArchive = (*SubmissionArchive)(nil)

// NewSubmissionArchive creates an archive writing to stream, trimmed to about maxLength entries.
func NewSubmissionArchive(client redis.UniversalClient, stream string, maxLength int64, log logger.Logger) *SubmissionArchive {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &SubmissionArchive{
		client:    client,
		stream:    stream,
		maxLength: maxLength,
		logger:    log.WithComponent("submission_archive"),
	}
}

// Append records contact under eventID. The message body is not archived.
func (a *SubmissionArchive) Append(ctx context.Context, eventID string, contact *model.Contact) error {
	id, err := a.client.XAdd(ctx, &redis.XAddArgs{
		Stream: a.stream,
		MaxLen: a.maxLength,
		Approx: true,
		Values: map[string]interface{}{
			fieldEventID:   eventID,
			fieldContactID: contact.ID.Hex(),
			fieldEmail:     contact.Email,
			fieldSubject:   contact.Subject,
			fieldCreatedAt: contact.CreatedAt.UnixNano(),
		},
	}).Result()
	if err != nil {
		a.logger.WithContext(ctx).Errorf("Failed to archive submission %s: %v", contact.ID.Hex(), err)
		return fmt.Errorf("xadd %s: %w", a.stream, err)
	}

	a.logger.WithContext(ctx).Debugf("Archived submission %s as %s", contact.ID.Hex(), id)
	return nil
}

// Recent returns up to count entries, newest first.
func (a *SubmissionArchive) Recent(ctx context.Context, count int64) ([]repository.ArchivedSubmission, error) {
	msgs, err := a.client.XRevRangeN(ctx, a.stream, "+", "-", count).Result()
	if err != nil {
		if err == redis.Nil {
			return []repository.ArchivedSubmission{}, nil
		}
		return nil, fmt.Errorf("xrevrange %s: %w", a.stream, err)
	}

	out := make([]repository.ArchivedSubmission, 0, len(msgs))
	for _, msg := range msgs {
		entry, err := parseMessage(msg)
		if err != nil {
			a.logger.WithContext(ctx).Warnf("Skipping malformed stream entry %s: %v", msg.ID, err)
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// Ping checks the Redis connection.
func (a *SubmissionArchive) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

func parseMessage(msg redis.XMessage) (repository.ArchivedSubmission, error) {
	entry := repository.ArchivedSubmission{
		StreamID:  msg.ID,
		EventID:   stringValue(msg.Values[fieldEventID]),
		ContactID: stringValue(msg.Values[fieldContactID]),
		Email:     stringValue(msg.Values[fieldEmail]),
		Subject:   stringValue(msg.Values[fieldSubject]),
	}
	if entry.ContactID == "" {
		return entry, fmt.Errorf("missing %s", fieldContactID)
	}

	nanos, err := strconv.ParseInt(stringValue(msg.Values[fieldCreatedAt]), 10, 64)
	if err != nil {
		return entry, fmt.Errorf("invalid %s: %w", fieldCreatedAt, err)
	}
	entry.CreatedAt = time.Unix(0, nanos).UTC()
	return entry, nil
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
