package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/travel-diary-api/app/db"
	"github.com/FACorreiaa/travel-diary-api/app/observability/metrics"
	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the credential store. Password material always arrives hashed.
type AuthRepo interface {
	// FindByUsername returns types.ErrNotFound when no user has that name.
	FindByUsername(ctx context.Context, username string) (*types.User, error)
	// CreateUser inserts a user and returns its id. A taken username yields
	// types.ErrDuplicateUsername and leaves the store unchanged.
	CreateUser(ctx context.Context, username, passwordHash, email string) (int64, error)
	// UpdateUser rewrites all mutable fields. Returns types.ErrNotFound or
	// types.ErrDuplicateUsername.
	UpdateUser(ctx context.Context, userID int64, username, passwordHash, email string) error
}

type PostgresAuthRepo struct {
	logger       *slog.Logger
	pgpool       database.PgxIface
	queryTimeout time.Duration
}

func NewPostgresAuthRepo(pgpool database.PgxIface, queryTimeout time.Duration, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger:       logger,
		pgpool:       pgpool,
		queryTimeout: queryTimeout,
	}
}

func (r *PostgresAuthRepo) FindByUsername(ctx context.Context, username string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "FindByUsername", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	var user types.User
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, username, password_hash, email, created_at, updated_at
		 FROM users WHERE username = $1`,
		username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.Get().RecordQuery(ctx, "users.select", time.Since(start), false)
			span.SetStatus(codes.Ok, "User not found")
			return nil, types.ErrNotFound
		}
		metrics.Get().RecordQuery(ctx, "users.select", time.Since(start), true)
		r.logger.ErrorContext(ctx, "Failed to look up user", slog.String("method", "FindByUsername"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("%w: find user: %w", types.ErrStorageFailure, err)
	}

	metrics.Get().RecordQuery(ctx, "users.select", time.Since(start), false)
	span.SetAttributes(attribute.Int64("db.user.id", user.ID))
	return &user, nil
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, passwordHash, email string) (int64, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"))

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	// The unique constraint on users.username is the only uniqueness check,
	// so two concurrent registrations cannot both succeed.
	start := time.Now()
	var id int64
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, email)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		username, passwordHash, email).Scan(&id)
	if err != nil {
		if isPgUniqueViolation(err) {
			metrics.Get().RecordQuery(ctx, "users.insert", time.Since(start), false)
			l.WarnContext(ctx, "Attempted to register duplicate username")
			span.SetStatus(codes.Error, "Duplicate username")
			return 0, types.ErrDuplicateUsername
		}
		metrics.Get().RecordQuery(ctx, "users.insert", time.Since(start), true)
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return 0, fmt.Errorf("%w: insert user: %w", types.ErrStorageFailure, err)
	}

	metrics.Get().RecordQuery(ctx, "users.insert", time.Since(start), false)
	l.InfoContext(ctx, "User created", slog.Int64("userID", id))
	span.SetAttributes(attribute.Int64("db.user.id", id))
	return id, nil
}

func (r *PostgresAuthRepo) UpdateUser(ctx context.Context, userID int64, username, passwordHash, email string) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "UpdateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.Int64("db.user.id", userID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateUser"), slog.Int64("userID", userID))

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users
		 SET username = $1, password_hash = $2, email = $3, updated_at = NOW()
		 WHERE id = $4`,
		username, passwordHash, email, userID)
	if err != nil {
		if isPgUniqueViolation(err) {
			metrics.Get().RecordQuery(ctx, "users.update", time.Since(start), false)
			l.WarnContext(ctx, "Profile update collides with an existing username")
			span.SetStatus(codes.Error, "Duplicate username")
			return types.ErrDuplicateUsername
		}
		metrics.Get().RecordQuery(ctx, "users.update", time.Since(start), true)
		l.ErrorContext(ctx, "Failed to update user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("%w: update user: %w", types.ErrStorageFailure, err)
	}
	metrics.Get().RecordQuery(ctx, "users.update", time.Since(start), false)

	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return types.ErrNotFound
	}

	l.InfoContext(ctx, "User profile updated")
	return nil
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
