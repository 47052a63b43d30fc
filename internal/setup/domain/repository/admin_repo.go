package repository

import (
	"context"

	"portfolio-backend/internal/setup/domain/model"
)

// AdminRepository provisions users, collections and indexes on the target database.
type AdminRepository interface {
	// CreateUser fails when the user already exists.
	CreateUser(ctx context.Context, cred model.Credential) error
	// CreateCollection fails when the collection already exists.
	CreateCollection(ctx context.Context, schema model.CollectionSchema) error
	// CreateIndex is a no-op when an identical index exists and returns the index name.
	CreateIndex(ctx context.Context, collection string, spec model.IndexSpec) (string, error)
}

// Inspector reads back what setup provisioned.
type Inspector interface {
	UserRoles(ctx context.Context, username string) ([]model.RoleGrant, error)
	ListIndexes(ctx context.Context, collection string) ([]model.IndexSpec, error)
}
