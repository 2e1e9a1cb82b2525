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

// InvestmentRepository implements the repositories.InvestmentRepository interface
type InvestmentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *DB, logger *zap.Logger) repositories.InvestmentRepository {
	return &InvestmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new investment
func (r *InvestmentRepository) Create(ctx context.Context, inv *models.Investment) error {
	query := `
		INSERT INTO investments (id, user_id, type, name, amount, start_date, maturity_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		inv.ID,
		inv.UserID,
		inv.Type,
		inv.Name,
		inv.Amount,
		inv.StartDate,
		inv.MaturityDate,
		inv.Status,
		inv.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}

	r.logger.Debug("investment created",
		zap.String("id", inv.ID.String()),
		zap.String("user_id", inv.UserID.String()))
	return nil
}

// GetByID retrieves an investment by ID
func (r *InvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	query := `
		SELECT id, user_id, type, name, amount, start_date, maturity_date, status, created_at
		FROM investments
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	inv := &models.Investment{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&inv.ID,
		&inv.UserID,
		&inv.Type,
		&inv.Name,
		&inv.Amount,
		&inv.StartDate,
		&inv.MaturityDate,
		&inv.Status,
		&inv.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}

	return inv, nil
}

// GetByUserID retrieves all investments owned by the user, newest start date first
func (r *InvestmentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Investment, error) {
	query := `
		SELECT id, user_id, type, name, amount, start_date, maturity_date, status, created_at
		FROM investments
		WHERE user_id = $1
		ORDER BY start_date DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer rows.Close()

	var investments []*models.Investment
	for rows.Next() {
		inv := &models.Investment{}
		err := rows.Scan(
			&inv.ID,
			&inv.UserID,
			&inv.Type,
			&inv.Name,
			&inv.Amount,
			&inv.StartDate,
			&inv.MaturityDate,
			&inv.Status,
			&inv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment rows: %w", err)
	}

	return investments, nil
}

// Update updates an investment's mutable fields. user_id is never written,
// so ownership cannot be reassigned through this path.
func (r *InvestmentRepository) Update(ctx context.Context, inv *models.Investment) error {
	query := `
		UPDATE investments
		SET type = $2,
		    name = $3,
		    amount = $4,
		    start_date = $5,
		    maturity_date = $6,
		    status = $7
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		inv.ID,
		inv.Type,
		inv.Name,
		inv.Amount,
		inv.StartDate,
		inv.MaturityDate,
		inv.Status,
	)

	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("investment updated", zap.String("id", inv.ID.String()))
	return nil
}

// Delete deletes an investment
func (r *InvestmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM investments WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("investment deleted", zap.String("id", id.String()))
	return nil
}
