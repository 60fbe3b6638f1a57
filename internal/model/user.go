package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents an account in the credential system. An account is
// created disabled with a pending verification code; once the code is
// confirmed the account is enabled and both secret fields are cleared, so
// Enabled == true implies both pointers are nil.
type User struct {
	ID                        bson.ObjectID `bson:"_id,omitempty"          json:"id"`
	Username                  string        `bson:"username"               json:"username"`
	Email                     string        `bson:"email"                  json:"email"`
	PasswordHash              string        `bson:"password_hash"          json:"-"`
	Enabled                   bool          `bson:"enabled"                json:"enabled"`
	VerificationCode          *string       `bson:"verification_code,omitempty"            json:"-"`
	VerificationCodeExpiresAt *time.Time    `bson:"verification_code_expires_at,omitempty" json:"-"`
	CreatedAt                 time.Time     `bson:"created_at"             json:"created_at"`
	UpdatedAt                 time.Time     `bson:"updated_at"             json:"updated_at"`
}
