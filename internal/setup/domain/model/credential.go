package model

import "errors"

// RoleReadWrite grants read and write on a single database.
const RoleReadWrite = "readWrite"

// Credential is the application user provisioned at setup time.
type Credential struct {
	Username string
	Password string
	Role     string
	Database string
}

// Validate checks that every part of the credential is set.
func (c Credential) Validate() error {
	switch {
	case c.Username == "":
		return errors.New("username cannot be empty")
	case c.Password == "":
		return errors.New("password cannot be empty")
	case c.Role == "":
		return errors.New("role cannot be empty")
	case c.Database == "":
		return errors.New("database cannot be empty")
	}
	return nil
}

// RoleGrant is a role held by a user on one database.
type RoleGrant struct {
	Role     string `bson:"role"`
	Database string `bson:"db"`
}
