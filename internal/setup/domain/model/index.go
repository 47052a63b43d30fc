package model

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// IndexDirection is the sort order of an index key.
type IndexDirection int

const (
	Ascending  IndexDirection = 1
	Descending IndexDirection = -1
)

// IndexKey is one field of an index.
type IndexKey struct {
	Field     string
	Direction IndexDirection
}

// IndexSpec describes a secondary index. Keys are ordered.
type IndexSpec struct {
	Keys []IndexKey
}

// NewIndex builds a spec from ordered keys.
func NewIndex(keys ...IndexKey) IndexSpec {
	return IndexSpec{Keys: keys}
}

// Asc and Desc are shorthands for IndexKey literals.
func Asc(field string) IndexKey  { return IndexKey{Field: field, Direction: Ascending} }
func Desc(field string) IndexKey { return IndexKey{Field: field, Direction: Descending} }

// Document renders the key document used by createIndexes.
func (s IndexSpec) Document() bson.D {
	keys := make(bson.D, 0, len(s.Keys))
	for _, k := range s.Keys {
		keys = append(keys, bson.E{Key: k.Field, Value: int32(k.Direction)})
	}
	return keys
}

// Name returns the default name MongoDB gives the index, e.g. "name_1_email_1".
func (s IndexSpec) Name() string {
	parts := make([]string, 0, len(s.Keys))
	for _, k := range s.Keys {
		parts = append(parts, fmt.Sprintf("%s_%d", k.Field, k.Direction))
	}
	return strings.Join(parts, "_")
}

// Validate rejects empty specs and unknown directions.
func (s IndexSpec) Validate() error {
	if len(s.Keys) == 0 {
		return fmt.Errorf("index must have at least one key")
	}
	for _, k := range s.Keys {
		if k.Field == "" {
			return fmt.Errorf("index key field cannot be empty")
		}
		if k.Direction != Ascending && k.Direction != Descending {
			return fmt.Errorf("index key %s has invalid direction %d", k.Field, k.Direction)
		}
	}
	return nil
}
