package entry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/travel-diary-api/app/observability/metrics"
	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

var _ EntryRepo = (*SQLiteEntryRepo)(nil)

type SQLiteEntryRepo struct {
	logger       *slog.Logger
	db           *sql.DB
	queryTimeout time.Duration
}

func NewSQLiteEntryRepo(db *sql.DB, queryTimeout time.Duration, logger *slog.Logger) *SQLiteEntryRepo {
	return &SQLiteEntryRepo{
		logger:       logger,
		db:           db,
		queryTimeout: queryTimeout,
	}
}

func (r *SQLiteEntryRepo) startSpan(ctx context.Context, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{
		semconv.DBSystemSqlite,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "entries"),
	}, attrs...)
	return otel.Tracer("EntryRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *SQLiteEntryRepo) Create(ctx context.Context, entry *types.Entry) (int64, error) {
	ctx, span := r.startSpan(ctx, "Create", "INSERT", attribute.Int64("db.user.id", entry.UserID))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (user_id, title, content, entry_date, location) VALUES (?, ?, ?, ?, ?)`,
		entry.UserID, entry.Title, entry.Content, entry.Date, entry.Location)
	metrics.Get().RecordQuery(ctx, "entries.insert", time.Since(start), err != nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert entry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return 0, fmt.Errorf("%w: insert entry: %w", types.ErrStorageFailure, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: read new entry id: %w", types.ErrStorageFailure, err)
	}
	span.SetAttributes(attribute.Int64("db.entry.id", id))
	return id, nil
}

func (r *SQLiteEntryRepo) GetByID(ctx context.Context, userID, entryID int64) (*types.Entry, error) {
	ctx, span := r.startSpan(ctx, "GetByID", "SELECT", attribute.Int64("db.entry.id", entryID))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	var e types.Entry
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, entry_date, location, created_at, updated_at
		 FROM entries WHERE id = ? AND user_id = ?`,
		entryID, userID).Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.Date, &e.Location, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (r *SQLiteEntryRepo) ListByUser(ctx context.Context, userID int64) ([]types.Entry, error) {
	ctx, span := r.startSpan(ctx, "ListByUser", "SELECT", attribute.Int64("db.user.id", userID))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, entry_date, location, created_at, updated_at
		 FROM entries WHERE user_id = ?
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
	return entries, nil
}

func (r *SQLiteEntryRepo) Update(ctx context.Context, entry *types.Entry) error {
	ctx, span := r.startSpan(ctx, "Update", "UPDATE", attribute.Int64("db.entry.id", entry.ID))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries
		 SET title = ?, content = ?, entry_date = ?, location = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		entry.Title, entry.Content, entry.Date, entry.Location, entry.ID, entry.UserID)
	metrics.Get().RecordQuery(ctx, "entries.update", time.Since(start), err != nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update entry", slog.Int64("entryID", entry.ID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("%w: update entry: %w", types.ErrStorageFailure, err)
	}
	return requireOneRow(res)
}

func (r *SQLiteEntryRepo) Delete(ctx context.Context, userID, entryID int64) error {
	ctx, span := r.startSpan(ctx, "Delete", "DELETE", attribute.Int64("db.entry.id", entryID))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ? AND user_id = ?`, entryID, userID)
	metrics.Get().RecordQuery(ctx, "entries.delete", time.Since(start), err != nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete entry", slog.Int64("entryID", entryID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("%w: delete entry: %w", types.ErrStorageFailure, err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %w", types.ErrStorageFailure, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
