package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/travel-diary-api/app/observability/metrics"
	"github.com/FACorreiaa/travel-diary-api/config"
	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService registers users, issues tokens and checks them.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (int64, error)
	// Login verifies the password and returns a signed access token.
	Login(ctx context.Context, username, password string) (string, error)
	// UpdateProfile rewrites the user's username, password and email.
	// actorID is the authenticated caller and must equal userID.
	UpdateProfile(ctx context.Context, actorID, userID int64, username, password, email string) error
	// VerifyToken reads an Authorization header value and returns the claims
	// it carries, or ErrMissingToken / ErrInvalidToken.
	VerifyToken(ctx context.Context, authHeader string) (*types.Claims, error)
}

type AuthServiceImpl struct {
	logger     *slog.Logger
	repo       AuthRepo
	tokens     *TokenManager
	bcryptCost int
	// dummyHash is compared against when the user does not exist, so an
	// unknown username costs as much as a wrong password.
	dummyHash []byte
}

func NewAuthService(repo AuthRepo, tokens *TokenManager, cfg *config.Config, logger *slog.Logger) (*AuthServiceImpl, error) {
	cost := cfg.Auth.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth.bcryptCost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("travel-diary-placeholder"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	return &AuthServiceImpl{
		logger:     logger,
		repo:       repo,
		tokens:     tokens,
		bcryptCost: cost,
		dummyHash:  dummy,
	}, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, password, email string) (int64, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("user.username", username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Register"), slog.String("username", username))
	l.DebugContext(ctx, "Registering user")

	outcome := "created"
	defer func() {
		metrics.Get().RegisterRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}()

	if err := validateCredentials(username, password); err != nil {
		outcome = "invalid"
		return 0, err
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		outcome = "error"
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Hashing failed")
		return 0, err
	}

	id, err := s.repo.CreateUser(ctx, username, hash, email)
	if err != nil {
		if errors.Is(err, types.ErrDuplicateUsername) {
			outcome = "duplicate"
			span.SetStatus(codes.Error, "Duplicate username")
			return 0, err
		}
		outcome = "error"
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create user")
		return 0, fmt.Errorf("error registering user: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.Int64("userID", id))
	span.SetAttributes(attribute.Int64("user.id", id))
	span.SetStatus(codes.Ok, "User registered")
	return id, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login", trace.WithAttributes(
		attribute.String("user.username", username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"), slog.String("username", username))

	outcome := "success"
	defer func() {
		metrics.Get().LoginRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}()

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			outcome = "invalid_user"
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			l.InfoContext(ctx, "Login for unknown user")
			span.SetStatus(codes.Error, "Invalid user")
			return "", types.ErrInvalidUser
		}
		outcome = "error"
		l.ErrorContext(ctx, "Failed to look up user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return "", fmt.Errorf("error looking up user: %w", err)
	}

	// bcrypt ignores input past 72 bytes, so a longer password would match on
	// its prefix alone. Such a password was never accepted at registration.
	if len(password) > maxPasswordBytes {
		outcome = "invalid_password"
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password[:maxPasswordBytes]))
		l.InfoContext(ctx, "Login with oversized password", slog.Int64("userID", user.ID))
		span.SetStatus(codes.Error, "Invalid password")
		return "", types.ErrInvalidPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			outcome = "invalid_password"
			l.InfoContext(ctx, "Login with wrong password", slog.Int64("userID", user.ID))
			span.SetStatus(codes.Error, "Invalid password")
			return "", types.ErrInvalidPassword
		}
		outcome = "error"
		l.ErrorContext(ctx, "Stored password hash is unusable", slog.Int64("userID", user.ID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Hash compare failed")
		return "", fmt.Errorf("error verifying password: %w", err)
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		outcome = "error"
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token signing failed")
		return "", err
	}

	l.InfoContext(ctx, "User logged in", slog.Int64("userID", user.ID))
	span.SetAttributes(attribute.Int64("user.id", user.ID))
	span.SetStatus(codes.Ok, "Token issued")
	return token, nil
}

func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, actorID, userID int64, username, password, email string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "UpdateProfile", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("actor.id", actorID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateProfile"), slog.Int64("userID", userID))

	if actorID != userID {
		l.WarnContext(ctx, "Attempt to update another user's profile", slog.Int64("actorID", actorID))
		span.SetStatus(codes.Error, "Forbidden")
		return fmt.Errorf("%w: cannot update another user's profile", types.ErrForbidden)
	}
	if err := validateCredentials(username, password); err != nil {
		return err
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := s.repo.UpdateUser(ctx, userID, username, hash, email); err != nil {
		if !errors.Is(err, types.ErrNotFound) && !errors.Is(err, types.ErrDuplicateUsername) {
			l.ErrorContext(ctx, "Failed to update user profile", slog.Any("error", err))
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "Update failed")
		return err
	}

	l.InfoContext(ctx, "User profile updated")
	span.SetStatus(codes.Ok, "Profile updated")
	return nil
}

func (s *AuthServiceImpl) VerifyToken(ctx context.Context, authHeader string) (*types.Claims, error) {
	_, span := otel.Tracer("AuthService").Start(ctx, "VerifyToken")
	defer span.End()

	token, err := ExtractBearerToken(authHeader)
	if err != nil {
		span.SetStatus(codes.Error, "Missing token")
		return nil, err
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid token")
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", claims.UserID))
	return claims, nil
}

func (s *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", types.ErrBadRequest)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", types.ErrBadRequest)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must not exceed %d bytes", types.ErrBadRequest, maxPasswordBytes)
	}
	return nil
}
