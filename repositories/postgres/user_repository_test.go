package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finware/finance-manager/models"
	"github.com/finware/finance-manager/repositories"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return &DB{DB: mockDB, logger: zap.NewNop()}, mock
}

func userColumns() []string {
	return []string{"id", "name", "email", "password_hash", "monthly_income", "created_at", "updated_at"}
}

func TestUserRepositoryCreate(t *testing.T) {
	t.Run("inserts user", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())
		user := models.NewUser("Alice", "alice@example.com", "$2a$10$hash")

		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, user.MonthlyIncome, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), user)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to ErrDuplicateEmail", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())
		user := models.NewUser("Alice", "alice@example.com", "$2a$10$hash")

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), user)
		assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
	})
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())
		id := uuid.New()
		now := time.Now()

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns()).
				AddRow(id, "Alice", "alice@example.com", "$2a$10$hash", nil, now, now))

		user, err := repo.GetByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "$2a$10$hash", user.PasswordHash)
		assert.Nil(t, user.MonthlyIncome)
	})

	t.Run("absent maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestUserRepositoryGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())
	id := uuid.New()
	income := 4200.0
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(id, "Alice", "alice@example.com", "$2a$10$hash", income, now, now))

	user, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, user.MonthlyIncome)
	assert.Equal(t, income, *user.MonthlyIncome)
}

func TestUserRepositoryUpdate(t *testing.T) {
	t.Run("updates mutable fields only", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())
		user := models.NewUser("Alice", "alice@example.com", "$2a$10$newhash")

		mock.ExpectExec("UPDATE users").
			WithArgs(user.ID, user.Name, user.PasswordHash, user.MonthlyIncome, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), user)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())
		user := models.NewUser("Alice", "alice@example.com", "$2a$10$hash")

		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), user)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}
