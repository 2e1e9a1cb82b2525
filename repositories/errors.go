package repositories

import "errors"

// Sentinel errors shared by every repository implementation. Services map
// these onto their domain error taxonomy.
var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when creating a user with an email
	// that is already registered
	ErrDuplicateEmail = errors.New("email already registered")
)
