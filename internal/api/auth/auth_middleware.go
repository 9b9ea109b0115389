package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/travel-diary-api/app/observability/metrics"
	"github.com/FACorreiaa/travel-diary-api/internal/api"
	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

// Define typed context keys
type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UsernameKey contextKey = "username"
	ClaimsKey   contextKey = "claims"
)

// TokenVerifier is the part of AuthService the gate needs.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, authHeader string) (*types.Claims, error)
}

// Authenticate admits a request only when its Authorization header carries a
// valid access token. The verified identity is put on the request context.
func Authenticate(logger *slog.Logger, verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			claims, err := verifier.VerifyToken(ctx, r.Header.Get("Authorization"))
			if err != nil {
				reason, msg := "invalid_token", "Invalid JWT token"
				if errors.Is(err, types.ErrMissingToken) {
					reason, msg = "missing_token", "Missing JWT token"
				}
				metrics.Get().AuthGateRejectionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
				l.WarnContext(ctx, "Request rejected", slog.String("reason", reason), slog.String("path", r.URL.Path), slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, msg)
				return
			}

			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			l.DebugContext(ctx, "Authentication successful, claims added to context", slog.Int64("userID", claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper functions to get claims from context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

func GetClaimsFromContext(ctx context.Context) (*types.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*types.Claims)
	return claims, ok
}

// WithUserID returns a context carrying an authenticated user id, as
// Authenticate would set it.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
