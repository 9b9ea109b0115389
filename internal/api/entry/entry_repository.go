package entry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/travel-diary-api/app/db"
	"github.com/FACorreiaa/travel-diary-api/app/observability/metrics"
	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

var _ EntryRepo = (*PostgresEntryRepo)(nil)

// EntryRepo stores diary entries. Every read and write is scoped to the owning
// user, so another user's entry behaves as if it did not exist.
type EntryRepo interface {
	Create(ctx context.Context, entry *types.Entry) (int64, error)
	GetByID(ctx context.Context, userID, entryID int64) (*types.Entry, error)
	ListByUser(ctx context.Context, userID int64) ([]types.Entry, error)
	// Update rewrites title, content, date and location.
	Update(ctx context.Context, entry *types.Entry) error
	Delete(ctx context.Context, userID, entryID int64) error
}

type PostgresEntryRepo struct {
	logger       *slog.Logger
	pgpool       database.PgxIface
	queryTimeout time.Duration
}

func NewPostgresEntryRepo(pgpool database.PgxIface, queryTimeout time.Duration, logger *slog.Logger) *PostgresEntryRepo {
	return &PostgresEntryRepo{
		logger:       logger,
		pgpool:       pgpool,
		queryTimeout: queryTimeout,
	}
}

func (r *PostgresEntryRepo) Create(ctx context.Context, entry *types.Entry) (int64, error) {
	ctx, span := otel.Tracer("EntryRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "entries"),
		attribute.Int64("db.user.id", entry.UserID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	var id int64
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO entries (user_id, title, content, entry_date, location)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		entry.UserID, entry.Title, entry.Content, entry.Date, entry.Location).Scan(&id)
	metrics.Get().RecordQuery(ctx, "entries.insert", time.Since(start), err != nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert entry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return 0, fmt.Errorf("%w: insert entry: %w", types.ErrStorageFailure, err)
	}

	span.SetAttributes(attribute.Int64("db.entry.id", id))
	return id, nil
}

func (r *PostgresEntryRepo) GetByID(ctx context.Context, userID, entryID int64) (*types.Entry, error) {
	ctx, span := otel.Tracer("EntryRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "entries"),
		attribute.Int64("db.entry.id", entryID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	var e types.Entry
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, user_id, title, content, entry_date, location, created_at, updated_at
		 FROM entries WHERE id = $1 AND user_id = $2`,
		entryID, userID).Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.Date, &e.Location, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.Get().RecordQuery(ctx, "entries.select", time.Since(start), false)
			return nil, types.ErrNotFound
		}
		metrics.Get().RecordQuery(ctx, "entries.select", time.Since(start), true)
		r.logger.ErrorContext(ctx, "Failed to fetch entry", slog.Int64("entryID", entryID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("%w: fetch entry: %w", types.ErrStorageFailure, err)
	}
	metrics.Get().RecordQuery(ctx, "entries.select", time.Since(start), false)
	return &e, nil
}

func (r *PostgresEntryRepo) ListByUser(ctx context.Context, userID int64) ([]types.Entry, error) {
	ctx, span := otel.Tracer("EntryRepo").Start(ctx, "ListByUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "entries"),
		attribute.Int64("db.user.id", userID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, user_id, title, content, entry_date, location, created_at, updated_at
		 FROM entries WHERE user_id = $1
		 ORDER BY id`,
		userID)
	if err != nil {
		metrics.Get().RecordQuery(ctx, "entries.list", time.Since(start), true)
		r.logger.ErrorContext(ctx, "Failed to list entries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("%w: list entries: %w", types.ErrStorageFailure, err)
	}
	defer rows.Close()

	entries := []types.Entry{}
	for rows.Next() {
		var e types.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.Date, &e.Location, &e.CreatedAt, &e.UpdatedAt); err != nil {
			metrics.Get().RecordQuery(ctx, "entries.list", time.Since(start), true)
			span.RecordError(err)
			return nil, fmt.Errorf("%w: scan entry: %w", types.ErrStorageFailure, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		metrics.Get().RecordQuery(ctx, "entries.list", time.Since(start), true)
		span.RecordError(err)
		return nil, fmt.Errorf("%w: iterate entries: %w", types.ErrStorageFailure, err)
	}

	metrics.Get().RecordQuery(ctx, "entries.list", time.Since(start), false)
	span.SetAttributes(attribute.Int("db.rows", len(entries)))
	return entries, nil
}

func (r *PostgresEntryRepo) Update(ctx context.Context, entry *types.Entry) error {
	ctx, span := otel.Tracer("EntryRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "entries"),
		attribute.Int64("db.entry.id", entry.ID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE entries
		 SET title = $1, content = $2, entry_date = $3, location = $4, updated_at = NOW()
		 WHERE id = $5 AND user_id = $6`,
		entry.Title, entry.Content, entry.Date, entry.Location, entry.ID, entry.UserID)
	metrics.Get().RecordQuery(ctx, "entries.update", time.Since(start), err != nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update entry", slog.Int64("entryID", entry.ID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("%w: update entry: %w", types.ErrStorageFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *PostgresEntryRepo) Delete(ctx context.Context, userID, entryID int64) error {
	ctx, span := otel.Tracer("EntryRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "entries"),
		attribute.Int64("db.entry.id", entryID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM entries WHERE id = $1 AND user_id = $2`, entryID, userID)
	metrics.Get().RecordQuery(ctx, "entries.delete", time.Since(start), err != nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete entry", slog.Int64("entryID", entryID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("%w: delete entry: %w", types.ErrStorageFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}
