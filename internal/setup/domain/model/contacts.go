package model

import "regexp"

// Field names of the contacts collection.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldSubject   = "subject"
	FieldMessage   = "message"
	FieldCreatedAt = "created_at"
	FieldIPAddress = "ip_address"
	FieldUserAgent = "user_agent"
)

// EmailPattern accepts local@domain.tld shaped strings. It checks syntax only.
var EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ContactsSchema returns the validator for the contact form collection.
func ContactsSchema(collection string) CollectionSchema {
	return CollectionSchema{
		Collection: collection,
		Fields: []FieldSpec{
			{Name: FieldName, Required: true, Kind: FieldKindString, Description: "must be a string and is required"},
			{Name: FieldEmail, Required: true, Kind: FieldKindString, Pattern: EmailPattern, Description: "must be a valid email and is required"},
			{Name: FieldSubject, Required: true, Kind: FieldKindString, Description: "must be a string and is required"},
			{Name: FieldMessage, Required: true, Kind: FieldKindString, Description: "must be a string and is required"},
			{Name: FieldCreatedAt, Required: true, Kind: FieldKindDate, Description: "must be a date and is required"},
			{Name: FieldIPAddress, Kind: FieldKindString, Description: "must be a string"},
			{Name: FieldUserAgent, Kind: FieldKindString, Description: "must be a string"},
		},
	}
}

// ContactIndexes returns the secondary indexes of the contacts collection.
func ContactIndexes() []IndexSpec {
	return []IndexSpec{
		NewIndex(Asc(FieldEmail)),
		NewIndex(Desc(FieldCreatedAt)),
		NewIndex(Asc(FieldName), Asc(FieldEmail)),
	}
}
