package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"portfolio-backend/internal/setup/domain/model"
	"portfolio-backend/internal/setup/domain/repository"
	apperrors "portfolio-backend/internal/shared/errors"
	"portfolio-backend/internal/shared/logger"
	"portfolio-backend/internal/shared/utils"
)

// CompletionMessage is printed once every step has succeeded.
const CompletionMessage = "Database initialization completed successfully!"

// Step names, in execution order.
const (
	StepCreateUser       = "create_user"
	StepCreateCollection = "create_collection"
	StepCreateIndex      = "create_index"
)

// Plan is the declarative description of what Run provisions.
type Plan struct {
	Credential model.Credential
	Schema     model.CollectionSchema
	Indexes    []model.IndexSpec
}

// StepResult records one completed step.
type StepResult struct {
	Name     string        `json:"name"`
	Target   string        `json:"target"`
	Duration time.Duration `json:"duration"`
}

// Result lists the steps completed by Run.
type Result struct {
	Database string       `json:"database"`
	Steps    []StepResult `json:"steps"`
}

// Initializer runs the one-shot database setup.
type Initializer struct {
	repo   repository.AdminRepository
	plan   Plan
	out    io.Writer
	logger logger.Logger
}

// NewInitializer creates an Initializer writing its completion line to out.
func NewInitializer(repo repository.AdminRepository, plan Plan, out io.Writer, log logger.Logger) *Initializer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if out == nil {
		out = io.Discard
	}
	return &Initializer{
		repo:   repo,
		plan:   plan,
		out:    out,
		logger: log.WithComponent("initdb"),
	}
}

// Run creates the user, then the collection, then every index, then prints
// CompletionMessage. It stops at the first failing step and returns its error;
// nothing is retried or rolled back.
func (i *Initializer) Run(ctx context.Context) (*Result, error) {
	result := &Result{Database: i.plan.Credential.Database}

	cred := i.plan.Credential
	if err := i.step(ctx, result, StepCreateUser, cred.Username, func(ctx context.Context) error {
		return i.repo.CreateUser(ctx, cred)
	}); err != nil {
		return result, err
	}

	schema := i.plan.Schema
	if err := i.step(ctx, result, StepCreateCollection, schema.Collection, func(ctx context.Context) error {
		return i.repo.CreateCollection(ctx, schema)
	}); err != nil {
		return result, err
	}

	for _, spec := range i.plan.Indexes {
		spec := spec
		if err := i.step(ctx, result, StepCreateIndex, spec.Name(), func(ctx context.Context) error {
			_, err := i.repo.CreateIndex(ctx, schema.Collection, spec)
			return err
		}); err != nil {
			return result, err
		}
	}

	if _, err := fmt.Fprintln(i.out, CompletionMessage); err != nil {
		return result, fmt.Errorf("write completion message: %w", err)
	}
	return result, nil
}

func (i *Initializer) step(ctx context.Context, result *Result, name, target string, fn func(context.Context) error) error {
	ctx = utils.WithOperation(ctx, name)
	log := i.logger.WithContext(ctx).WithFields(map[string]interface{}{"target": target})

	start := time.Now()
	if err := fn(ctx); err != nil {
		log.Errorf("step failed: %v", err)
		return wrapStepError(name, target, err)
	}

	elapsed := time.Since(start)
	result.Steps = append(result.Steps, StepResult{Name: name, Target: target, Duration: elapsed})
	log.Debugf("step completed in %s", elapsed)
	return nil
}

func wrapStepError(name, target string, err error) error {
	if apperrors.IsAlreadyExists(err) {
		return apperrors.NewConflictError(fmt.Sprintf("%s %s: already exists", name, target)).
			WithComponent("initdb").
			WithCause(err)
	}
	if apperrors.IsValidation(err) {
		return err
	}
	return apperrors.NewInfrastructureError(fmt.Sprintf("%s %s failed", name, target)).
		WithComponent("initdb").
		WithCause(err)
}
