package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/FACorreiaa/travel-diary-api/app/observability/metrics"
	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

var _ AuthRepo = (*SQLiteAuthRepo)(nil)

// SQLiteAuthRepo is the credential store for the single-file sqlite mode.
type SQLiteAuthRepo struct {
	logger       *slog.Logger
	db           *sql.DB
	queryTimeout time.Duration
}

func NewSQLiteAuthRepo(db *sql.DB, queryTimeout time.Duration, logger *slog.Logger) *SQLiteAuthRepo {
	return &SQLiteAuthRepo{
		logger:       logger,
		db:           db,
		queryTimeout: queryTimeout,
	}
}

func (r *SQLiteAuthRepo) FindByUsername(ctx context.Context, username string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "FindByUsername", trace.WithAttributes(
		semconv.DBSystemSqlite,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	var user types.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, email, created_at, updated_at
		 FROM users WHERE username = ?`,
		username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.Get().RecordQuery(ctx, "users.select", time.Since(start), false)
			return nil, types.ErrNotFound
		}
		metrics.Get().RecordQuery(ctx, "users.select", time.Since(start), true)
		r.logger.ErrorContext(ctx, "Failed to look up user", slog.String("method", "FindByUsername"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("%w: find user: %w", types.ErrStorageFailure, err)
	}

	metrics.Get().RecordQuery(ctx, "users.select", time.Since(start), false)
	return &user, nil
}

func (r *SQLiteAuthRepo) CreateUser(ctx context.Context, username, passwordHash, email string) (int64, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemSqlite,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"))

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, email) VALUES (?, ?, ?)`,
		username, passwordHash, email)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
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

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: read new user id: %w", types.ErrStorageFailure, err)
	}

	l.InfoContext(ctx, "User created", slog.Int64("userID", id))
	span.SetAttributes(attribute.Int64("db.user.id", id))
	return id, nil
}

func (r *SQLiteAuthRepo) UpdateUser(ctx context.Context, userID int64, username, passwordHash, email string) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "UpdateUser", trace.WithAttributes(
		semconv.DBSystemSqlite,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.Int64("db.user.id", userID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateUser"), slog.Int64("userID", userID))

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET username = ?, password_hash = ?, email = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		username, passwordHash, email, userID)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			metrics.Get().RecordQuery(ctx, "users.update", time.Since(start), false)
			l.WarnContext(ctx, "Profile update collides with an existing username")
			return types.ErrDuplicateUsername
		}
		metrics.Get().RecordQuery(ctx, "users.update", time.Since(start), true)
		l.ErrorContext(ctx, "Failed to update user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("%w: update user: %w", types.ErrStorageFailure, err)
	}
	metrics.Get().RecordQuery(ctx, "users.update", time.Since(start), false)

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update user: %w", types.ErrStorageFailure, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	l.InfoContext(ctx, "User profile updated")
	return nil
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
