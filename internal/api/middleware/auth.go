package middleware

import (
	"context"
	"net/http"
	"strings"

	"mesto_backend/internal/common"
	"mesto_backend/internal/common/security"
)

type contextKey string

const UserIDCtxKey contextKey = "userID"

const (
	MsgAuthorizationRequired = "authorization required"
	MsgTokenInvalid          = "token invalid"
)

const bearerPrefix = "Bearer "

// TokenFromBearerHeader accepts only the exact "Bearer " scheme prefix.
func TokenFromBearerHeader(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(authorization, bearerPrefix)
}

// Authenticate verifies the bearer token and stores the caller's id in the
// request context. The user is not looked up in storage.
func Authenticate(tokens *security.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := TokenFromBearerHeader(r)
			if tokenString == "" {
				common.RespondWithAppError(w, r, common.Unauthorized(MsgAuthorizationRequired))
				return
			}

			userID, err := tokens.VerifyToken(tokenString)
			if err != nil {
				common.RespondWithAppError(w, r, common.Unauthorized(MsgTokenInvalid).WithCause(err))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}
