package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finware/finance-manager/auth"
	"github.com/finware/finance-manager/models"
	"github.com/finware/finance-manager/repositories"
)

// TransactionInput carries the caller-supplied transaction fields. The owner
// is never part of the input: it always comes from the authenticated caller.
type TransactionInput struct {
	Description   string
	Amount        float64
	Type          models.TransactionType
	PaymentMethod models.PaymentMethod
	Date          time.Time
}

// TransactionService handles transaction records for the authenticated user
type TransactionService struct {
	transactions repositories.TransactionRepository
	logger       *zap.Logger
}

// NewTransactionService creates a new TransactionService instance
func NewTransactionService(transactions repositories.TransactionRepository, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		logger:       logger,
	}
}

// Create records a new transaction owned by the caller
func (s *TransactionService) Create(ctx context.Context, callerID uuid.UUID, input TransactionInput) (*models.Transaction, error) {
	tx := models.NewTransaction(callerID, input.Description, input.Amount, input.Type, input.PaymentMethod, input.Date)

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, WrapInternal("failed to create transaction", err)
	}

	return tx, nil
}

// List returns the caller's transactions, newest date first
func (s *TransactionService) List(ctx context.Context, callerID uuid.UUID) ([]*models.Transaction, error) {
	transactions, err := s.transactions.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, WrapInternal("failed to list transactions", err)
	}
	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	return transactions, nil
}

// Update replaces the mutable fields of the caller's transaction. A
// transaction owned by someone else is reported as not found, the same as a
// transaction that does not exist.
func (s *TransactionService) Update(ctx context.Context, callerID, id uuid.UUID, input TransactionInput) (*models.Transaction, error) {
	tx, err := s.getOwned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	tx.Description = input.Description
	tx.Amount = input.Amount
	tx.Type = input.Type
	tx.PaymentMethod = input.PaymentMethod
	tx.Date = input.Date

	if err := s.transactions.Update(ctx, tx); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, WrapInternal("failed to update transaction", err)
	}

	return tx, nil
}

// Delete removes the caller's transaction
func (s *TransactionService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.transactions.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return WrapInternal("failed to delete transaction", err)
	}

	return nil
}

// getOwned fetches the transaction and checks that the caller owns it.
// Both a missing row and an ownership miss come back as ErrTransactionNotFound
// so callers cannot probe for other users' record IDs.
func (s *TransactionService) getOwned(ctx context.Context, callerID, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, WrapInternal("failed to get transaction", err)
	}

	if err := auth.Authorize(callerID, tx); err != nil {
		s.logger.Warn("transaction access denied",
			zap.String("transaction_id", id.String()),
			zap.String("caller_id", callerID.String()))
		return nil, ErrTransactionNotFound
	}

	return tx, nil
}
