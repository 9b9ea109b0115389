package auth

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

var _ AuthRepo = (*CachedAuthRepo)(nil)

// CachedAuthRepo keeps recently looked up users in memory so repeated logins
// skip the store. Only hits are cached.
type CachedAuthRepo struct {
	logger *slog.Logger
	next   AuthRepo
	cache  *cache.Cache
	group  singleflight.Group
	// generation moves on every write; loads that started under an older
	// generation are not stored. mu makes the generation check and the store
	// atomic with respect to a write's bump and eviction.
	generation atomic.Uint64
	mu         sync.Mutex
}

func NewCachedAuthRepo(next AuthRepo, ttl time.Duration, logger *slog.Logger) *CachedAuthRepo {
	return &CachedAuthRepo{
		logger: logger,
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
	}
}

func (r *CachedAuthRepo) FindByUsername(ctx context.Context, username string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CachedFindByUsername")
	defer span.End()

	cacheKey := "user:" + username
	span.SetAttributes(attribute.String("cache.key", cacheKey))

	if cached, found := r.cache.Get(cacheKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		u := *cached.(*types.User)
		return &u, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	// One caller's cancellation must not fail the others waiting on the same key;
	// the store still applies its own query timeout.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(cacheKey, func() (interface{}, error) {
		gen := r.generation.Load()
		user, err := r.next.FindByUsername(loadCtx, username)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		if r.generation.Load() == gen {
			r.cache.Set(cacheKey, user, cache.DefaultExpiration)
		}
		r.mu.Unlock()
		return user, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		u := *res.Val.(*types.User)
		return &u, nil
	}
}

func (r *CachedAuthRepo) CreateUser(ctx context.Context, username, passwordHash, email string) (int64, error) {
	id, err := r.next.CreateUser(ctx, username, passwordHash, email)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	r.generation.Add(1)
	r.cache.Delete("user:" + username)
	r.mu.Unlock()
	return id, nil
}

func (r *CachedAuthRepo) UpdateUser(ctx context.Context, userID int64, username, passwordHash, email string) error {
	err := r.next.UpdateUser(ctx, userID, username, passwordHash, email)
	r.mu.Lock()
	r.generation.Add(1)
	r.invalidateUser(userID)
	r.cache.Delete("user:" + username)
	r.mu.Unlock()
	return err
}

// invalidateUser drops every entry for userID; the old username is not known
// to the caller after a rename.
func (r *CachedAuthRepo) invalidateUser(userID int64) {
	for key, item := range r.cache.Items() {
		if u, ok := item.Object.(*types.User); ok && u.ID == userID {
			r.cache.Delete(key)
			r.logger.Debug("Evicted cached user", slog.String("key", key), slog.Int64("userID", userID))
		}
	}
}
