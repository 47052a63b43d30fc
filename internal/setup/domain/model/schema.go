package model

import (
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldKind is the storage type a field must have.
type FieldKind string

const (
	FieldKindString FieldKind = "string"
	FieldKindDate   FieldKind = "date"
)

// BSONType returns the $jsonSchema bsonType alias for the kind.
func (k FieldKind) BSONType() string {
	return string(k)
}

// FieldSpec describes one field of a collection schema.
type FieldSpec struct {
	Name        string
	Required    bool
	Kind        FieldKind
	Pattern     *regexp.Regexp
	Description string
}

// CollectionSchema is a typed document-shape descriptor. It renders into a
// MongoDB $jsonSchema validator and can enforce the same rules in process.
type CollectionSchema struct {
	Collection string
	Fields     []FieldSpec
}

// FieldViolation is a single schema failure.
type FieldViolation struct {
	Field   string
	Message string
}

// SchemaError lists every violation found in a document.
type SchemaError struct {
	Collection string
	Violations []FieldViolation
}

func (e *SchemaError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("document failed validation for %s", e.Collection)
	}
	v := e.Violations[0]
	return fmt.Sprintf("document failed validation for %s: %s %s (%d violations)",
		e.Collection, v.Field, v.Message, len(e.Violations))
}

// RequiredFields returns the names of required fields in declaration order.
func (s CollectionSchema) RequiredFields() []string {
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return required
}

// Field looks up a field spec by name.
func (s CollectionSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// JSONSchema renders the validator document passed to createCollection.
func (s CollectionSchema) JSONSchema() bson.D {
	required := bson.A{}
	for _, name := range s.RequiredFields() {
		required = append(required, name)
	}

	properties := bson.D{}
	for _, f := range s.Fields {
		prop := bson.D{{Key: "bsonType", Value: f.Kind.BSONType()}}
		if f.Pattern != nil {
			prop = append(prop, bson.E{Key: "pattern", Value: f.Pattern.String()})
		}
		if f.Description != "" {
			prop = append(prop, bson.E{Key: "description", Value: f.Description})
		}
		properties = append(properties, bson.E{Key: f.Name, Value: prop})
	}

	return bson.D{{Key: "$jsonSchema", Value: bson.D{
		{Key: "bsonType", Value: "object"},
		{Key: "required", Value: required},
		{Key: "properties", Value: properties},
	}}}
}

// Validate checks doc the way the engine validator would. Fields that the
// schema does not declare are allowed.
func (s CollectionSchema) Validate(doc map[string]interface{}) error {
	var violations []FieldViolation

	for _, f := range s.Fields {
		value, present := doc[f.Name]
		if !present {
			if f.Required {
				violations = append(violations, FieldViolation{Field: f.Name, Message: "is required"})
			}
			continue
		}
		if msg := f.check(value); msg != "" {
			violations = append(violations, FieldViolation{Field: f.Name, Message: msg})
		}
	}

	if len(violations) > 0 {
		return &SchemaError{Collection: s.Collection, Violations: violations}
	}
	return nil
}

func (f FieldSpec) check(value interface{}) string {
	switch f.Kind {
	case FieldKindString:
		str, ok := value.(string)
		if !ok {
			return fmt.Sprintf("must be a string, got %T", value)
		}
		if f.Pattern != nil && !f.Pattern.MatchString(str) {
			return "does not match " + f.Pattern.String()
		}
	case FieldKindDate:
		switch value.(type) {
		case time.Time, primitive.DateTime:
		default:
			return fmt.Sprintf("must be a date, got %T", value)
		}
	default:
		return "has unknown kind " + string(f.Kind)
	}
	return ""
}
