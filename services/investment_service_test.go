package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finware/finance-manager/models"
	"github.com/finware/finance-manager/repositories"
)

// MockInvestmentRepository is a mock implementation of InvestmentRepository
type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) Create(ctx context.Context, inv *models.Investment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	args := m.Called(ctx, id)
	if inv := args.Get(0); inv != nil {
		return inv.(*models.Investment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInvestmentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Investment, error) {
	args := m.Called(ctx, userID)
	if invs := args.Get(0); invs != nil {
		return invs.([]*models.Investment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInvestmentRepository) Update(ctx context.Context, inv *models.Investment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvestmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func sampleInvestmentInput() InvestmentInput {
	return InvestmentInput{
		Type:      models.InvestmentTypeSIP,
		Name:      "Index Fund SIP",
		Amount:    500,
		StartDate: time.Now(),
	}
}

func TestInvestmentService_Create(t *testing.T) {
	t.Run("defaults status to Active", func(t *testing.T) {
		mockRepo := new(MockInvestmentRepository)
		service := NewInvestmentService(mockRepo, zap.NewNop())
		callerID := uuid.New()

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Investment")).Return(nil)

		inv, err := service.Create(context.Background(), callerID, sampleInvestmentInput())
		require.NoError(t, err)
		assert.Equal(t, callerID, inv.UserID)
		assert.Equal(t, models.InvestmentStatusActive, inv.Status)
		assert.Nil(t, inv.MaturityDate)
	})

	t.Run("keeps an explicit status", func(t *testing.T) {
		mockRepo := new(MockInvestmentRepository)
		service := NewInvestmentService(mockRepo, zap.NewNop())

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		input := sampleInvestmentInput()
		input.Status = models.InvestmentStatusMatured
		inv, err := service.Create(context.Background(), uuid.New(), input)
		require.NoError(t, err)
		assert.Equal(t, models.InvestmentStatusMatured, inv.Status)
	})
}

func TestInvestmentService_List(t *testing.T) {
	mockRepo := new(MockInvestmentRepository)
	service := NewInvestmentService(mockRepo, zap.NewNop())
	callerID := uuid.New()

	mockRepo.On("GetByUserID", mock.Anything, callerID).Return(nil, nil)

	investments, err := service.List(context.Background(), callerID)
	require.NoError(t, err)
	assert.NotNil(t, investments)
	assert.Empty(t, investments)
}

func TestInvestmentService_Update(t *testing.T) {
	t.Run("owner can update status and maturity", func(t *testing.T) {
		mockRepo := new(MockInvestmentRepository)
		service := NewInvestmentService(mockRepo, zap.NewNop())
		callerID := uuid.New()

		stored := models.NewInvestment(callerID, models.InvestmentTypeFD, "Bank FD", 10000, time.Now(), nil)
		mockRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		mockRepo.On("Update", mock.Anything, stored).Return(nil)

		maturity := time.Now().AddDate(5, 0, 0)
		input := InvestmentInput{
			Type:         models.InvestmentTypeFD,
			Name:         "Bank FD",
			Amount:       10000,
			StartDate:    stored.StartDate,
			MaturityDate: &maturity,
			Status:       models.InvestmentStatusMatured,
		}
		updated, err := service.Update(context.Background(), callerID, stored.ID, input)
		require.NoError(t, err)
		assert.Equal(t, models.InvestmentStatusMatured, updated.Status)
		require.NotNil(t, updated.MaturityDate)
		assert.Equal(t, callerID, updated.UserID)
	})

	t.Run("another user's investment reads as not found", func(t *testing.T) {
		mockRepo := new(MockInvestmentRepository)
		service := NewInvestmentService(mockRepo, zap.NewNop())
		ownerID := uuid.New()

		stored := models.NewInvestment(ownerID, models.InvestmentTypeStocks, "Blue chips", 2500, time.Now(), nil)
		mockRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

		_, err := service.Update(context.Background(), uuid.New(), stored.ID, sampleInvestmentInput())
		assert.ErrorIs(t, err, ErrInvestmentNotFound)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestInvestmentService_Delete(t *testing.T) {
	t.Run("owner can delete", func(t *testing.T) {
		mockRepo := new(MockInvestmentRepository)
		service := NewInvestmentService(mockRepo, zap.NewNop())
		callerID := uuid.New()

		stored := models.NewInvestment(callerID, models.InvestmentTypeOther, "Gold", 800, time.Now(), nil)
		mockRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		mockRepo.On("Delete", mock.Anything, stored.ID).Return(nil)

		err := service.Delete(context.Background(), callerID, stored.ID)
		require.NoError(t, err)
	})

	t.Run("missing investment reads as not found", func(t *testing.T) {
		mockRepo := new(MockInvestmentRepository)
		service := NewInvestmentService(mockRepo, zap.NewNop())
		id := uuid.New()

		mockRepo.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		err := service.Delete(context.Background(), uuid.New(), id)
		assert.ErrorIs(t, err, ErrInvestmentNotFound)
	})
}
