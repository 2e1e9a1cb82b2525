package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/finware/finance-manager/auth"
)

// MockTokenVerifier is a mock implementation of TokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func TestRequireAuth(t *testing.T) {
	logger := zap.NewNop()

	t.Run("valid token allows request and sets the user in context", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		mw := NewAuthMiddleware(mockVerifier, logger)
		userID := uuid.New()

		mockVerifier.On("Verify", "valid-token").Return(userID, nil)

		handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, userID, GetUserIDFromContext(r.Context()))
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthTokenHeader, "valid-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockVerifier.AssertExpectations(t)
	})

	t.Run("missing token returns 401 without touching the verifier", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		mw := NewAuthMiddleware(mockVerifier, logger)

		handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockVerifier.AssertNotCalled(t, "Verify")
	})

	t.Run("expired and tampered tokens get the same 401 body", func(t *testing.T) {
		bodies := make(map[string]string)

		for name, verifyErr := range map[string]error{
			"expired":  auth.ErrTokenExpired,
			"tampered": auth.ErrTokenSignatureInvalid,
		} {
			mockVerifier := new(MockTokenVerifier)
			mw := NewAuthMiddleware(mockVerifier, logger)
			mockVerifier.On("Verify", "bad-token").Return(uuid.Nil, verifyErr)

			handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be called")
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(AuthTokenHeader, "bad-token")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			bodies[name] = w.Body.String()
		}

		assert.Equal(t, bodies["expired"], bodies["tampered"])
	})

	t.Run("401 body carries no token detail", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		mw := NewAuthMiddleware(mockVerifier, logger)
		mockVerifier.On("Verify", "bad-token").Return(uuid.Nil, auth.ErrTokenMalformed)

		handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthTokenHeader, "bad-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		var body map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "unauthorized", body["error"])
		assert.NotContains(t, body, "details")
	})
}

func TestContextHelpers(t *testing.T) {
	t.Run("user id round trip", func(t *testing.T) {
		userID := uuid.New()
		ctx := WithUserID(context.Background(), userID)
		assert.Equal(t, userID, GetUserIDFromContext(ctx))
	})

	t.Run("absent user id is Nil", func(t *testing.T) {
		assert.Equal(t, uuid.Nil, GetUserIDFromContext(context.Background()))
	})
}
