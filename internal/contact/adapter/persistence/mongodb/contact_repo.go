package mongodb

import (
	"context"
	"errors"
	"fmt"

	"portfolio-backend/internal/contact/domain/model"
	"portfolio-backend/internal/contact/domain/repository"
	setupmodel "portfolio-backend/internal/setup/domain/model"
	apperrors "portfolio-backend/internal/shared/errors"
	"portfolio-backend/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoContactRepository stores contacts in the schema-validated collection.
type MongoContactRepository struct {
	collection *mongo.Collection
	logger     logger.Logger
}

var _ repository.ContactRepository = (*MongoContactRepository)(nil)

// NewMongoContactRepository creates a repository over db.collection.
func NewMongoContactRepository(db *mongo.Database, collection string, log logger.Logger) *MongoContactRepository {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &MongoContactRepository{
		collection: db.Collection(collection),
		logger:     log.WithComponent("contact_repository"),
	}
}

// Insert stores contact and returns the generated id as hex.
func (r *MongoContactRepository) Insert(ctx context.Context, contact *model.Contact) (string, error) {
	if contact.ID.IsZero() {
		contact.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, contact); err != nil {
		if isValidationFailure(err) {
			return "", fmt.Errorf("insert contact: %w: %w", apperrors.ErrSchemaViolation, err)
		}
		return "", fmt.Errorf("insert contact: %w", err)
	}

	r.logger.WithContext(ctx).Debugf("Inserted contact %s", contact.ID.Hex())
	return contact.ID.Hex(), nil
}

// GetByID loads a single contact.
func (r *MongoContactRepository) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrInvalidContactID
	}

	var contact model.Contact
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&contact)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, fmt.Errorf("find contact %s: %w", id, err)
	}
	return &contact, nil
}

// List returns up to limit contacts after skip, newest first.
func (r *MongoContactRepository) List(ctx context.Context, skip, limit int64) ([]*model.Contact, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: setupmodel.FieldCreatedAt, Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer cursor.Close(ctx)

	contacts := make([]*model.Contact, 0, limit)
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	return contacts, nil
}

// Ping checks the primary is reachable.
func (r *MongoContactRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

// isValidationFailure reports a write refused by the collection validator.
func isValidationFailure(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == apperrors.MongoCodeDocumentValidation {
				return true
			}
		}
	}
	return false
}
