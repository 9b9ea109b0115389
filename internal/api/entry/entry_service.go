package entry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

var _ EntryService = (*EntryServiceImpl)(nil)

// EntryService applies ownership rules on top of EntryRepo. actorID is
// always the authenticated caller.
type EntryService interface {
	Create(ctx context.Context, actorID int64, req types.EntryRequest) (int64, error)
	Get(ctx context.Context, actorID, entryID int64) (*types.Entry, error)
	// ListByUser returns ownerID's entries; only the owner may list them.
	ListByUser(ctx context.Context, actorID, ownerID int64) ([]types.Entry, error)
	Update(ctx context.Context, actorID, entryID int64, req types.EntryRequest) error
	Delete(ctx context.Context, actorID, entryID int64) error
}

type EntryServiceImpl struct {
	logger *slog.Logger
	repo   EntryRepo
}

func NewEntryService(repo EntryRepo, logger *slog.Logger) *EntryServiceImpl {
	return &EntryServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *EntryServiceImpl) Create(ctx context.Context, actorID int64, req types.EntryRequest) (int64, error) {
	ctx, span := otel.Tracer("EntryService").Start(ctx, "Create", trace.WithAttributes(
		attribute.Int64("user.id", actorID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Create"), slog.Int64("userID", actorID))

	if req.UserID != nil && *req.UserID != actorID {
		l.WarnContext(ctx, "Attempt to create an entry for another user", slog.Int64("requestedUserID", *req.UserID))
		span.SetStatus(codes.Error, "Forbidden")
		return 0, fmt.Errorf("%w: cannot create entries for another user", types.ErrForbidden)
	}
	if err := validateEntry(req); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, entryFromRequest(actorID, 0, req))
	if err != nil {
		l.ErrorContext(ctx, "Failed to create entry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		return 0, fmt.Errorf("error creating entry: %w", err)
	}

	l.InfoContext(ctx, "Entry created", slog.Int64("entryID", id))
	span.SetStatus(codes.Ok, "Entry created")
	return id, nil
}

func (s *EntryServiceImpl) Get(ctx context.Context, actorID, entryID int64) (*types.Entry, error) {
	ctx, span := otel.Tracer("EntryService").Start(ctx, "Get", trace.WithAttributes(
		attribute.Int64("user.id", actorID),
		attribute.Int64("entry.id", entryID),
	))
	defer span.End()

	e, err := s.repo.GetByID(ctx, actorID, entryID)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "Get failed")
		return nil, err
	}
	return e, nil
}

func (s *EntryServiceImpl) ListByUser(ctx context.Context, actorID, ownerID int64) ([]types.Entry, error) {
	ctx, span := otel.Tracer("EntryService").Start(ctx, "ListByUser", trace.WithAttributes(
		attribute.Int64("user.id", actorID),
		attribute.Int64("owner.id", ownerID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ListByUser"), slog.Int64("userID", actorID))

	if actorID != ownerID {
		l.WarnContext(ctx, "Attempt to list another user's entries", slog.Int64("ownerID", ownerID))
		span.SetStatus(codes.Error, "Forbidden")
		return nil, fmt.Errorf("%w: cannot list another user's entries", types.ErrForbidden)
	}

	entries, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list entries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		return nil, fmt.Errorf("error listing entries: %w", err)
	}

	l.DebugContext(ctx, "Entries listed", slog.Int("count", len(entries)))
	return entries, nil
}

func (s *EntryServiceImpl) Update(ctx context.Context, actorID, entryID int64, req types.EntryRequest) error {
	ctx, span := otel.Tracer("EntryService").Start(ctx, "Update", trace.WithAttributes(
		attribute.Int64("user.id", actorID),
		attribute.Int64("entry.id", entryID),
	))
	defer span.End()

	if req.UserID != nil && *req.UserID != actorID {
		span.SetStatus(codes.Error, "Forbidden")
		return fmt.Errorf("%w: cannot move an entry to another user", types.ErrForbidden)
	}
	if err := validateEntry(req); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, entryFromRequest(actorID, entryID, req)); err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			s.logger.ErrorContext(ctx, "Failed to update entry", slog.Int64("entryID", entryID), slog.Any("error", err))
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "Update failed")
		return err
	}
	return nil
}

func (s *EntryServiceImpl) Delete(ctx context.Context, actorID, entryID int64) error {
	ctx, span := otel.Tracer("EntryService").Start(ctx, "Delete", trace.WithAttributes(
		attribute.Int64("user.id", actorID),
		attribute.Int64("entry.id", entryID),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, actorID, entryID); err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			s.logger.ErrorContext(ctx, "Failed to delete entry", slog.Int64("entryID", entryID), slog.Any("error", err))
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "Delete failed")
		return err
	}
	s.logger.InfoContext(ctx, "Entry deleted", slog.Int64("entryID", entryID), slog.Int64("userID", actorID))
	return nil
}

func validateEntry(req types.EntryRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", types.ErrBadRequest)
	}
	if _, err := time.Parse(types.EntryDateLayout, req.Date); err != nil {
		return fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", types.ErrBadRequest)
	}
	return nil
}

func entryFromRequest(userID, entryID int64, req types.EntryRequest) *types.Entry {
	return &types.Entry{
		ID:       entryID,
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		Date:     req.Date,
		Location: req.Location,
	}
}
