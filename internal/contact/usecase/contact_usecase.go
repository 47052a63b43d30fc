package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-backend/internal/contact/domain/model"
	"portfolio-backend/internal/contact/domain/repository"
	setupmodel "portfolio-backend/internal/setup/domain/model"
	apperrors "portfolio-backend/internal/shared/errors"
	"portfolio-backend/internal/shared/eventbus"
	"portfolio-backend/internal/shared/logger"
	"portfolio-backend/internal/shared/utils"
)

// SuccessMessage is returned to visitors after an accepted submission.
const SuccessMessage = "Contact form submitted successfully. Thank you for reaching out!"

// ContactUsecaseInterface defines the contact form operations.
type ContactUsecaseInterface interface {
	Submit(ctx context.Context, req model.SubmitRequest, client model.ClientInfo) (string, error)
	Get(ctx context.Context, id string) (*model.Contact, error)
	List(ctx context.Context, skip, limit int64) (*ListResult, error)
}

// ListResult is one page of contacts.
type ListResult struct {
	Contacts []*model.Contact `json:"contacts"`
	Total    int              `json:"total"`
	Skip     int64            `json:"skip"`
	Limit    int64            `json:"limit"`
}

// Options tunes paging.
type Options struct {
	DefaultPageSize int64
	MaxPageSize     int64
}

// ContactUsecase implements the contact form logic.
type ContactUsecase struct {
	repo     repository.ContactRepository
	screener repository.Screener
	schema   setupmodel.CollectionSchema
	bus      eventbus.EventBusInterface
	opts     Options
	logger   logger.Logger
	now      func() time.Time
}

// NewContactUsecase creates a new ContactUsecase. screener and bus may be nil.
func NewContactUsecase(
	repo repository.ContactRepository,
	screener repository.Screener,
	schema setupmodel.CollectionSchema,
	bus eventbus.EventBusInterface,
	opts Options,
	log logger.Logger,
) *ContactUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 50
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	return &ContactUsecase{
		repo:     repo,
		screener: screener,
		schema:   schema,
		bus:      bus,
		opts:     opts,
		logger:   log.WithComponent("contact"),
		now:      time.Now,
	}
}

// Submit sanitizes, validates, screens and stores a submission, then
// publishes contact.submitted. It returns the new contact id.
func (uc *ContactUsecase) Submit(ctx context.Context, req model.SubmitRequest, client model.ClientInfo) (string, error) {
	ctx = utils.WithOperation(ctx, "contact.submit")
	log := uc.logger.WithContext(ctx)

	if err := req.ValidateLengths(); err != nil {
		return "", err
	}
	clean := req.Sanitize()
	if err := clean.Validate(); err != nil {
		return "", err
	}

	if client.IPAddress == "" {
		if ip, err := utils.GetClientIPFromContext(ctx); err == nil {
			client.IPAddress = ip
		}
	}
	contact := model.NewContact(clean, client, uc.now())

	if uc.screener != nil {
		rule, err := uc.screener.Screen(ctx, contact)
		if err != nil {
			return "", apperrors.NewInternalError("failed to screen submission").WithCause(err)
		}
		if rule != "" {
			log.Warnf("Rejected submission from %s by rule %q", contact.IPAddress, rule)
			return "", apperrors.NewValidationError("submission was rejected").WithCause(apperrors.ErrSubmissionRejected)
		}
	}

	if err := uc.schema.Validate(contact.Document()); err != nil {
		return "", apperrors.NewValidationError("submission does not satisfy the contacts schema").
			WithCause(fmt.Errorf("%w: %w", apperrors.ErrSchemaViolation, err))
	}

	id, err := uc.repo.Insert(ctx, contact)
	if err != nil {
		if errors.Is(err, apperrors.ErrSchemaViolation) {
			return "", apperrors.NewValidationError("submission does not satisfy the contacts schema").WithCause(err)
		}
		log.Errorf("Error storing contact form: %v", err)
		return "", apperrors.NewInfrastructureError("failed to store contact").WithCause(err)
	}

	if uc.bus != nil {
		stored := *contact
		uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeContactSubmitted, &stored, "contact"))
	}

	log.Infof("Contact form submitted successfully. ID: %s, Email: %s", id, contact.Email)
	return id, nil
}

// Get returns one contact by id.
func (uc *ContactUsecase) Get(ctx context.Context, id string) (*model.Contact, error) {
	contact, err := uc.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		uc.logger.WithContext(ctx).Infof("Contact %s viewed by %s", id, adminOf(ctx))
		return contact, nil
	case errors.Is(err, apperrors.ErrInvalidContactID):
		return nil, apperrors.NewValidationError("invalid contact id").WithCause(err)
	case errors.Is(err, apperrors.ErrContactNotFound):
		return nil, apperrors.NewNotFoundError("contact").WithCause(err)
	default:
		return nil, apperrors.NewInfrastructureError("failed to load contact").WithCause(err)
	}
}

// List returns contacts newest first. A zero limit selects the default page
// size; limits above the maximum are capped.
func (uc *ContactUsecase) List(ctx context.Context, skip, limit int64) (*ListResult, error) {
	if skip < 0 || limit < 0 {
		return nil, apperrors.NewValidationError("skip and limit must not be negative")
	}
	if limit == 0 {
		limit = uc.opts.DefaultPageSize
	}
	if limit > uc.opts.MaxPageSize {
		limit = uc.opts.MaxPageSize
	}

	contacts, err := uc.repo.List(ctx, skip, limit)
	if err != nil {
		uc.logger.WithContext(ctx).Errorf("Error getting contacts: %v", err)
		return nil, apperrors.NewInfrastructureError("failed to list contacts").WithCause(err)
	}

	uc.logger.WithContext(ctx).Infof("Listed %d contacts for %s", len(contacts), adminOf(ctx))
	return &ListResult{
		Contacts: contacts,
		Total:    len(contacts),
		Skip:     skip,
		Limit:    limit,
	}, nil
}

// adminOf names the authenticated admin for audit lines.
func adminOf(ctx context.Context) string {
	if admin, err := utils.GetAdminFromContext(ctx); err == nil && admin != "" {
		return admin
	}
	return model.UnknownClient
}
