package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finware/finance-manager/models"
	"github.com/finware/finance-manager/repositories"
)

// TransactionRepository implements the repositories.TransactionRepository interface
type TransactionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB, logger *zap.Logger) repositories.TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, description, amount, type, payment_method, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Description,
		tx.Amount,
		tx.Type,
		tx.PaymentMethod,
		tx.Date,
		tx.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	r.logger.Debug("transaction created",
		zap.String("id", tx.ID.String()),
		zap.String("user_id", tx.UserID.String()))
	return nil
}

// GetByID retrieves a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, description, amount, type, payment_method, date, created_at
		FROM transactions
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	tx := &models.Transaction{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Description,
		&tx.Amount,
		&tx.Type,
		&tx.PaymentMethod,
		&tx.Date,
		&tx.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// GetByUserID retrieves all transactions owned by the user, newest date first
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, description, amount, type, payment_method, date, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Description,
			&tx.Amount,
			&tx.Type,
			&tx.PaymentMethod,
			&tx.Date,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}

// Update updates a transaction's mutable fields. user_id is never written,
// so ownership cannot be reassigned through this path.
func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := `
		UPDATE transactions
		SET description = $2,
		    amount = $3,
		    type = $4,
		    payment_method = $5,
		    date = $6
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		tx.ID,
		tx.Description,
		tx.Amount,
		tx.Type,
		tx.PaymentMethod,
		tx.Date,
	)

	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("transaction updated", zap.String("id", tx.ID.String()))
	return nil
}

// Delete deletes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM transactions WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("transaction deleted", zap.String("id", id.String()))
	return nil
}
