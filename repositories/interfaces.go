package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/finware/finance-manager/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// UserRepository handles user data operations
type UserRepository interface {
	// Create creates a new user. Returns ErrDuplicateEmail when the email
	// is already registered.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email (case-sensitive, as stored)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update updates a user's name, password hash and monthly income.
	// Email is immutable after registration.
	Update(ctx context.Context, user *models.User) error
}

// TransactionRepository handles financial transaction data operations
type TransactionRepository interface {
	// Create creates a new transaction
	Create(ctx context.Context, tx *models.Transaction) error

	// GetByID retrieves a transaction by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)

	// GetByUserID retrieves all transactions owned by the user,
	// sorted by date descending
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)

	// Update updates a transaction's mutable fields. The owner column is
	// never touched.
	Update(ctx context.Context, tx *models.Transaction) error

	// Delete deletes a transaction
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvestmentRepository handles investment data operations
type InvestmentRepository interface {
	// Create creates a new investment
	Create(ctx context.Context, inv *models.Investment) error

	// GetByID retrieves an investment by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Investment, error)

	// GetByUserID retrieves all investments owned by the user,
	// sorted by start date descending
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Investment, error)

	// Update updates an investment's mutable fields. The owner column is
	// never touched.
	Update(ctx context.Context, inv *models.Investment) error

	// Delete deletes an investment
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users        UserRepository
	Transactions TransactionRepository
	Investments  InvestmentRepository
}
