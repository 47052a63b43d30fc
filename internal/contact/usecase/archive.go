package usecase

import (
	"context"
	"fmt"

	"portfolio-backend/internal/contact/domain/model"
	"portfolio-backend/internal/contact/domain/repository"
	apperrors "portfolio-backend/internal/shared/errors"
	"portfolio-backend/internal/shared/eventbus"
)

// MaxArchiveRead bounds a single read of the submissions archive.
const MaxArchiveRead = 500

// ArchiveHandler returns an event handler appending contact.submitted events to archive.
func ArchiveHandler(archive repository.SubmissionArchive) eventbus.Handler {
	return func(ctx context.Context, event eventbus.Event) error {
		contact, ok := event.Data().(*model.Contact)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", event.Type(), event.Data())
		}
		return archive.Append(ctx, event.ID(), contact)
	}
}

// ArchiveUsecase reads back archived submissions.
type ArchiveUsecase struct {
	archive repository.SubmissionArchive
}

// NewArchiveUsecase creates an ArchiveUsecase.
func NewArchiveUsecase(archive repository.SubmissionArchive) *ArchiveUsecase {
	return &ArchiveUsecase{archive: archive}
}

// Recent returns up to count archived submissions, newest first.
func (uc *ArchiveUsecase) Recent(ctx context.Context, count int64) ([]repository.ArchivedSubmission, error) {
	if count <= 0 || count > MaxArchiveRead {
		return nil, apperrors.NewValidationError(fmt.Sprintf("count must be between 1 and %d", MaxArchiveRead))
	}
	entries, err := uc.archive.Recent(ctx, count)
	if err != nil {
		return nil, apperrors.NewInfrastructureError("failed to read submissions archive").WithCause(err)
	}
	return entries, nil
}
