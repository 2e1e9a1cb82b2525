package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/finware/finance-manager/auth"
	"github.com/finware/finance-manager/middleware"
	"github.com/finware/finance-manager/models"
	"github.com/finware/finance-manager/repositories"
	"github.com/finware/finance-manager/services"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// passthroughTxManager runs the function directly so handler tests can use
// mock repositories, without a real database transaction.
type passthroughTxManager struct{}

func (passthroughTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return nil, nil
}

func (passthroughTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return fn(ctx, nil)
}

func newUserHandler(repo repositories.UserRepository) *UserHandler {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	service := services.NewUserService(repo, hasher, tokens, passthroughTxManager{}, zap.NewNop())
	return NewUserHandler(service, zap.NewNop())
}

func testHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.NewBcryptHasher(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)
	return hash
}

func authenticated(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestHandleRegister(t *testing.T) {
	t.Run("valid registration returns 201 with a token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		handler := newUserHandler(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

		body, _ := json.Marshal(RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter22"})
		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleRegister(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data AuthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Data.Token)
		assert.Equal(t, "alice@example.com", resp.Data.User.Email)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		handler := newUserHandler(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicateEmail)

		body, _ := json.Marshal(RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter22"})
		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleRegister(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		handler := newUserHandler(mockRepo)

		body, _ := json.Marshal(RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "pw"})
		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleRegister(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestHandleLogin(t *testing.T) {
	t.Run("valid credentials return 200 with a token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		handler := newUserHandler(mockRepo)

		user := models.NewUser("Alice", "alice@example.com", testHash(t, "hunter22"))
		mockRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)

		body, _ := json.Marshal(LoginRequest{Email: "alice@example.com", Password: "hunter22"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleLogin(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password and unknown email get the same response", func(t *testing.T) {
		bodies := make(map[string]string)
		codes := make(map[string]int)

		user := models.NewUser("Alice", "alice@example.com", testHash(t, "hunter22"))

		for name, setup := range map[string]func(m *MockUserRepository) LoginRequest{
			"wrong password": func(m *MockUserRepository) LoginRequest {
				m.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)
				return LoginRequest{Email: "alice@example.com", Password: "wrong"}
			},
			"unknown email": func(m *MockUserRepository) LoginRequest {
				m.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, repositories.ErrNotFound)
				return LoginRequest{Email: "nobody@example.com", Password: "hunter22"}
			},
		} {
			mockRepo := new(MockUserRepository)
			handler := newUserHandler(mockRepo)
			login := setup(mockRepo)

			body, _ := json.Marshal(login)
			req := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.HandleLogin(w, req)

			codes[name] = w.Code
			bodies[name] = w.Body.String()
		}

		assert.Equal(t, http.StatusBadRequest, codes["wrong password"])
		assert.Equal(t, codes["wrong password"], codes["unknown email"])
		assert.Equal(t, bodies["wrong password"], bodies["unknown email"])
	})
}

func TestHandleGetCurrentUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	handler := newUserHandler(mockRepo)

	user := models.NewUser("Alice", "alice@example.com", testHash(t, "hunter22"))
	mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/api/auth", nil), user.ID)
	w := httptest.NewRecorder()

	handler.HandleGetCurrentUser(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestHandleUpdateProfile(t *testing.T) {
	t.Run("wrong current password returns invalid_credential and leaves the hash alone", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		handler := newUserHandler(mockRepo)

		user := models.NewUser("Alice", "alice@example.com", testHash(t, "old-secret"))
		oldHash := user.PasswordHash
		mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		body, _ := json.Marshal(UpdateProfileRequest{Name: "Alice", CurrentPassword: "wrong", NewPassword: "new-secret"})
		req := authenticated(httptest.NewRequest(http.MethodPut, "/api/users/profile", bytes.NewReader(body)), user.ID)
		w := httptest.NewRecorder()

		handler.HandleUpdateProfile(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_credential")
		assert.Equal(t, oldHash, user.PasswordHash)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("new password without current password fails validation", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		handler := newUserHandler(mockRepo)

		body, _ := json.Marshal(UpdateProfileRequest{Name: "Alice", NewPassword: "new-secret"})
		req := authenticated(httptest.NewRequest(http.MethodPut, "/api/users/profile", bytes.NewReader(body)), uuid.New())
		w := httptest.NewRecorder()

		handler.HandleUpdateProfile(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "CurrentPassword")
		mockRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("name-only update succeeds", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		handler := newUserHandler(mockRepo)

		user := models.NewUser("Alice", "alice@example.com", testHash(t, "old-secret"))
		mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		mockRepo.On("Update", mock.Anything, user).Return(nil)

		body, _ := json.Marshal(UpdateProfileRequest{Name: "Alicia"})
		req := authenticated(httptest.NewRequest(http.MethodPut, "/api/users/profile", bytes.NewReader(body)), user.ID)
		w := httptest.NewRecorder()

		handler.HandleUpdateProfile(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Alicia")
	})
}

func TestHandleUpdateMonthlyIncome(t *testing.T) {
	t.Run("sets the income", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		handler := newUserHandler(mockRepo)

		user := models.NewUser("Alice", "alice@example.com", testHash(t, "hunter22"))
		mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		mockRepo.On("Update", mock.Anything, user).Return(nil)

		income := 4200.0
		body, _ := json.Marshal(UpdateMonthlyIncomeRequest{MonthlyIncome: &income})
		req := authenticated(httptest.NewRequest(http.MethodPut, "/api/users/monthly-income", bytes.NewReader(body)), user.ID)
		w := httptest.NewRecorder()

		handler.HandleUpdateMonthlyIncome(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, user.MonthlyIncome)
		assert.Equal(t, income, *user.MonthlyIncome)
	})

	t.Run("negative income fails validation", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		handler := newUserHandler(mockRepo)

		income := -5.0
		body, _ := json.Marshal(UpdateMonthlyIncomeRequest{MonthlyIncome: &income})
		req := authenticated(httptest.NewRequest(http.MethodPut, "/api/users/monthly-income", bytes.NewReader(body)), uuid.New())
		w := httptest.NewRecorder()

		handler.HandleUpdateMonthlyIncome(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "GetByID")
	})
}
