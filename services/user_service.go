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

// dummyPasswordHash is a precomputed bcrypt hash compared against when login
// targets an unknown email, so the miss costs roughly as much as a real
// verification.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// ProfileUpdate carries the mutable profile fields. CurrentPassword and
// NewPassword travel together: password rotation requires proof of the
// current secret.
type ProfileUpdate struct {
	Name            string
	CurrentPassword string
	NewPassword     string
}

// UserService handles registration, login and profile management
type UserService struct {
	users     repositories.UserRepository
	hasher    auth.PasswordHasher
	tokens    *auth.TokenService
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(users repositories.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenService, txManager repositories.TransactionManager, logger *zap.Logger) *UserService {
	return &UserService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		txManager: txManager,
		logger:    logger,
	}
}

// Register creates a new user and returns a freshly issued token for it.
// The email must not already be registered.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, *models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, WrapInternal("failed to hash password", err)
	}

	user := models.NewUser(name, email, hash)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return "", nil, ErrDuplicateEmail
		}
		return "", nil, WrapInternal("failed to create user", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, WrapInternal("failed to issue token", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return token, user, nil
}

// Login verifies the credentials and returns a token on success. An unknown
// email and a wrong password produce the same error, and the unknown-email
// path still performs a hash comparison so the two are indistinguishable by
// timing as well.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.hasher.Verify(password, dummyPasswordHash)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, WrapInternal("failed to look up user", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", nil, WrapInternal("failed to verify password", err)
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, WrapInternal("failed to issue token", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	return token, user, nil
}

// GetByID returns the user for the given ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, WrapInternal("failed to get user", err)
	}
	return user, nil
}

// UpdateProfile updates the user's name and, when both password fields are
// present, rotates the password. The current password is verified before the
// new one is hashed; a failed verification leaves the stored hash untouched.
// The read-verify-write sequence runs inside one store transaction so a
// concurrent profile write cannot interleave with the rotation.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	rotating := upd.CurrentPassword != "" || upd.NewPassword != ""
	if rotating && (upd.CurrentPassword == "" || upd.NewPassword == "") {
		return nil, NewDomainError(ErrorTypeValidation, "current and new password must be provided together", nil)
	}

	var user *models.User
	err := s.txManager.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		var err error
		user, err = s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrUserNotFound
			}
			return WrapInternal("failed to get user", err)
		}

		if rotating {
			ok, err := s.hasher.Verify(upd.CurrentPassword, user.PasswordHash)
			if err != nil {
				return WrapInternal("failed to verify password", err)
			}
			if !ok {
				return ErrInvalidCredentials
			}

			hash, err := s.hasher.Hash(upd.NewPassword)
			if err != nil {
				return WrapInternal("failed to hash password", err)
			}
			user.PasswordHash = hash
		}

		if upd.Name != "" {
			user.Name = upd.Name
		}
		user.UpdatedAt = time.Now().UTC()

		if err := s.users.Update(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrUserNotFound
			}
			return WrapInternal("failed to update user", err)
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "profile update failed")
	}

	if rotating {
		s.logger.Info("password rotated", zap.String("user_id", user.ID.String()))
	}
	return user, nil
}

// UpdateMonthlyIncome sets the user's monthly income. Like UpdateProfile,
// the read-modify-write runs inside one store transaction.
func (s *UserService) UpdateMonthlyIncome(ctx context.Context, userID uuid.UUID, income float64) (*models.User, error) {
	var user *models.User
	err := s.txManager.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		var err error
		user, err = s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrUserNotFound
			}
			return WrapInternal("failed to get user", err)
		}

		user.MonthlyIncome = &income
		user.UpdatedAt = time.Now().UTC()

		if err := s.users.Update(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrUserNotFound
			}
			return WrapInternal("failed to update user", err)
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "monthly income update failed")
	}

	return user, nil
}
