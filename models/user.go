package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered identity. PasswordHash is a one-way bcrypt
// hash with the salt embedded; the plaintext password is never stored and
// the hash is never serialized into API responses.
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	MonthlyIncome *float64  `json:"monthlyIncome,omitempty" db:"monthly_income"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(name, email, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
