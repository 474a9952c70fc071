package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID `json:"id" db:"user_id"`                          // Primary key, assigned on insert
	Name         string    `json:"name" db:"name"`                           // Display name
	Email        string    `json:"email" db:"email"`                         // Unique email
	PasswordHash string    `json:"-" db:"password_hash"`                     // Bcrypt digest, never serialized
	CreatedAt    time.Time `json:"created_at" db:"created_at"`               // Creation timestamp
	VerifyToken  *string   `json:"verify_token,omitempty" db:"verify_token"` // Set only by an email-verification flow
}
