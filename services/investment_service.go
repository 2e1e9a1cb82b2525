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

// InvestmentInput carries the caller-supplied investment fields. The owner
// always comes from the authenticated caller.
type InvestmentInput struct {
	Type         models.InvestmentType
	Name         string
	Amount       float64
	StartDate    time.Time
	MaturityDate *time.Time
	Status       models.InvestmentStatus
}

// InvestmentService handles investment records for the authenticated user
type InvestmentService struct {
	investments repositories.InvestmentRepository
	logger      *zap.Logger
}

// NewInvestmentService creates a new InvestmentService instance
func NewInvestmentService(investments repositories.InvestmentRepository, logger *zap.Logger) *InvestmentService {
	return &InvestmentService{
		investments: investments,
		logger:      logger,
	}
}

// Create records a new investment owned by the caller. An empty status
// defaults to Active.
func (s *InvestmentService) Create(ctx context.Context, callerID uuid.UUID, input InvestmentInput) (*models.Investment, error) {
	inv := models.NewInvestment(callerID, input.Type, input.Name, input.Amount, input.StartDate, input.MaturityDate)
	if input.Status != "" {
		inv.Status = input.Status
	}

	if err := s.investments.Create(ctx, inv); err != nil {
		return nil, WrapInternal("failed to create investment", err)
	}

	return inv, nil
}

// List returns the caller's investments, newest start date first
func (s *InvestmentService) List(ctx context.Context, callerID uuid.UUID) ([]*models.Investment, error) {
	investments, err := s.investments.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, WrapInternal("failed to list investments", err)
	}
	if investments == nil {
		investments = []*models.Investment{}
	}
	return investments, nil
}

// Update replaces the mutable fields of the caller's investment. An
// investment owned by someone else is reported as not found, the same as an
// investment that does not exist.
func (s *InvestmentService) Update(ctx context.Context, callerID, id uuid.UUID, input InvestmentInput) (*models.Investment, error) {
	inv, err := s.getOwned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	inv.Type = input.Type
	inv.Name = input.Name
	inv.Amount = input.Amount
	inv.StartDate = input.StartDate
	inv.MaturityDate = input.MaturityDate
	if input.Status != "" {
		inv.Status = input.Status
	}

	if err := s.investments.Update(ctx, inv); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, WrapInternal("failed to update investment", err)
	}

	return inv, nil
}

// Delete removes the caller's investment
func (s *InvestmentService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.investments.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvestmentNotFound
		}
		return WrapInternal("failed to delete investment", err)
	}

	return nil
}

// getOwned fetches the investment and checks that the caller owns it.
// Both a missing row and an ownership miss come back as ErrInvestmentNotFound
// so callers cannot probe for other users' record IDs.
func (s *InvestmentService) getOwned(ctx context.Context, callerID, id uuid.UUID) (*models.Investment, error) {
	inv, err := s.investments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, WrapInternal("failed to get investment", err)
	}

	if err := auth.Authorize(callerID, inv); err != nil {
		s.logger.Warn("investment access denied",
			zap.String("investment_id", id.String()),
			zap.String("caller_id", callerID.String()))
		return nil, ErrInvestmentNotFound
	}

	return inv, nil
}
