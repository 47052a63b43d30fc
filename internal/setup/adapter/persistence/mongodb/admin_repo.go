package mongodb

import (
	"context"
	"errors"
	"fmt"

	"portfolio-backend/internal/setup/domain/model"
	apperrors "portfolio-backend/internal/shared/errors"
	"portfolio-backend/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultIndexName = "_id_"

// AdminDatabase is the slice of *mongo.Database the admin repository needs.
type AdminDatabase interface {
	Name() string
	RunCommand(ctx context.Context, cmd interface{}, result interface{}) error
	CreateCollection(ctx context.Context, name string, validator interface{}) error
	CreateIndex(ctx context.Context, collection string, keys bson.D) (string, error)
	ListIndexSpecifications(ctx context.Context, collection string) ([]*mongo.IndexSpecification, error)
}

// MongoAdminRepository implements repository.AdminRepository and repository.Inspector.
type MongoAdminRepository struct {
	db     AdminDatabase
	logger logger.Logger
}

// NewMongoAdminRepository wraps a real database handle.
func NewMongoAdminRepository(db *mongo.Database, log logger.Logger) *MongoAdminRepository {
	return NewAdminRepository(&mongoAdminDatabase{db: db}, log)
}

// NewAdminRepository creates a repository over any AdminDatabase.
func NewAdminRepository(db AdminDatabase, log logger.Logger) *MongoAdminRepository {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &MongoAdminRepository{
		db:     db,
		logger: log.WithComponent("setup.mongodb"),
	}
}

// CreateUser runs createUser on the target database.
func (r *MongoAdminRepository) CreateUser(ctx context.Context, cred model.Credential) error {
	if err := cred.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	cmd := bson.D{
		{Key: "createUser", Value: cred.Username},
		{Key: "pwd", Value: cred.Password},
		{Key: "roles", Value: bson.A{
			bson.D{{Key: "role", Value: cred.Role}, {Key: "db", Value: cred.Database}},
		}},
	}

	if err := r.db.RunCommand(ctx, cmd, nil); err != nil {
		if apperrors.IsAlreadyExists(err) {
			return fmt.Errorf("create user %s: %w: %w", cred.Username, apperrors.ErrUserExists, err)
		}
		return fmt.Errorf("create user %s: %w", cred.Username, err)
	}

	r.logger.WithFields(map[string]interface{}{
		"user": cred.Username,
		"role": cred.Role,
		"db":   cred.Database,
	}).Info("database user created")
	return nil
}

// CreateCollection creates the collection with the schema as its $jsonSchema validator.
func (r *MongoAdminRepository) CreateCollection(ctx context.Context, schema model.CollectionSchema) error {
	if schema.Collection == "" {
		return apperrors.NewValidationError("collection name cannot be empty")
	}

	if err := r.db.CreateCollection(ctx, schema.Collection, schema.JSONSchema()); err != nil {
		if apperrors.IsAlreadyExists(err) {
			return fmt.Errorf("create collection %s: %w: %w", schema.Collection, apperrors.ErrCollectionExists, err)
		}
		return fmt.Errorf("create collection %s: %w", schema.Collection, err)
	}

	r.logger.WithFields(map[string]interface{}{
		"collection": schema.Collection,
		"required":   schema.RequiredFields(),
	}).Info("collection created with validator")
	return nil
}

// CreateIndex creates spec on collection. MongoDB treats an identical request as a no-op.
func (r *MongoAdminRepository) CreateIndex(ctx context.Context, collection string, spec model.IndexSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}

	name, err := r.db.CreateIndex(ctx, collection, spec.Document())
	if err != nil {
		return "", fmt.Errorf("create index %s on %s: %w", spec.Name(), collection, err)
	}

	r.logger.WithFields(map[string]interface{}{
		"collection": collection,
		"index":      name,
	}).Info("index created")
	return name, nil
}

type usersInfoResult struct {
	Users []struct {
		User  string            `bson:"user"`
		DB    string            `bson:"db"`
		Roles []model.RoleGrant `bson:"roles"`
	} `bson:"users"`
}

// UserRoles returns the roles granted to username on the target database.
func (r *MongoAdminRepository) UserRoles(ctx context.Context, username string) ([]model.RoleGrant, error) {
	var result usersInfoResult
	if err := r.db.RunCommand(ctx, bson.D{{Key: "usersInfo", Value: username}}, &result); err != nil {
		return nil, fmt.Errorf("users info %s: %w", username, err)
	}
	if len(result.Users) == 0 {
		return nil, apperrors.ErrUserNotFound
	}
	return result.Users[0].Roles, nil
}

// ListIndexes returns the secondary indexes of collection, skipping _id_.
func (r *MongoAdminRepository) ListIndexes(ctx context.Context, collection string) ([]model.IndexSpec, error) {
	specs, err := r.db.ListIndexSpecifications(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list indexes on %s: %w", collection, err)
	}

	indexes := make([]model.IndexSpec, 0, len(specs))
	for _, s := range specs {
		if s.Name == defaultIndexName {
			continue
		}
		spec, err := indexSpecFromKeys(s.KeysDocument)
		if err != nil {
			return nil, fmt.Errorf("decode index %s: %w", s.Name, err)
		}
		indexes = append(indexes, spec)
	}
	return indexes, nil
}

func indexSpecFromKeys(keys bson.Raw) (model.IndexSpec, error) {
	elems, err := keys.Elements()
	if err != nil {
		return model.IndexSpec{}, err
	}

	spec := model.IndexSpec{}
	for _, e := range elems {
		var dir int64
		v := e.Value()
		switch v.Type {
		case bsontype.Int32:
			dir = int64(v.Int32())
		case bsontype.Int64:
			dir = v.Int64()
		case bsontype.Double:
			dir = int64(v.Double())
		default:
			return model.IndexSpec{}, errors.New("unsupported index key type " + v.Type.String())
		}
		spec.Keys = append(spec.Keys, model.IndexKey{Field: e.Key(), Direction: model.IndexDirection(dir)})
	}
	return spec, nil
}

// mongoAdminDatabase adapts *mongo.Database to AdminDatabase.
type mongoAdminDatabase struct {
	db *mongo.Database
}

func (m *mongoAdminDatabase) Name() string {
	return m.db.Name()
}

func (m *mongoAdminDatabase) RunCommand(ctx context.Context, cmd interface{}, result interface{}) error {
	res := m.db.RunCommand(ctx, cmd)
	if result == nil {
		return res.Err()
	}
	return res.Decode(result)
}

func (m *mongoAdminDatabase) CreateCollection(ctx context.Context, name string, validator interface{}) error {
	opts := options.CreateCollection().
		SetValidator(validator).
		SetValidationLevel("strict").
		SetValidationAction("error")
	return m.db.CreateCollection(ctx, name, opts)
}

func (m *mongoAdminDatabase) CreateIndex(ctx context.Context, collection string, keys bson.D) (string, error) {
	return m.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys})
}

func (m *mongoAdminDatabase) ListIndexSpecifications(ctx context.Context, collection string) ([]*mongo.IndexSpecification, error) {
	return m.db.Collection(collection).Indexes().ListSpecifications(ctx)
}
