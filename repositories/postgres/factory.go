package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finware/finance-manager/config"
	"github.com/finware/finance-manager/repositories"
)

// RepositoryFactory creates and manages all repositories
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	return &RepositoryFactory{db: db, logger: logger}, nil
}

// InitSchema creates the tables this service needs if they do not exist yet.
func (f *RepositoryFactory) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			monthly_income NUMERIC,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			description TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			type TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions (user_id, date DESC)`,
		`CREATE TABLE IF NOT EXISTS investments (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			maturity_date TIMESTAMPTZ,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_investments_user_start ON investments (user_id, start_date DESC)`,
	}

	for _, stmt := range statements {
		if _, err := f.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	f.logger.Info("database schema initialized")
	return nil
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:        NewUserRepository(f.db, f.logger),
		Transactions: NewTransactionRepository(f.db, f.logger),
		Investments:  NewInvestmentRepository(f.db, f.logger),
	}
}

// GetTransactionManager returns a transaction manager
func (f *RepositoryFactory) GetTransactionManager() repositories.TransactionManager {
	return NewTransactionManager(f.db, f.logger)
}

// GetDB returns the database connection
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Close closes the database connection
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
