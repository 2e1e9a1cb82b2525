package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finware/finance-manager/utils"
)

// AuthTokenHeader is the request header carrying the session token. The
// value is the raw token, with no scheme prefix.
const AuthTokenHeader = "X-Auth-Token"

// TokenVerifier verifies a session token and returns the user ID it was
// issued for
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth requires a valid session token in the X-Auth-Token header.
// Every failure mode returns the same 401 body; the concrete reason only
// shows up in the logs.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := r.Header.Get(AuthTokenHeader)
		if token == "" {
			m.logger.Warn("missing auth token",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, "Missing authentication token")
			return
		}

		userID, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warn("token verification failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		ctx = WithUserID(ctx, userID)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("user_id", userID.String()))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
