package auth

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	database "github.com/FACorreiaa/travel-diary-api/app/db"
	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

func openTestSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunSQLiteMigrations(db, discardLogger()))
	return db
}

func TestSQLiteAuthRepo_CreateAndFind(t *testing.T) {
	repo := NewSQLiteAuthRepo(openTestSQLite(t), time.Second, discardLogger())
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("pw123"), bcrypt.MinCost)
	require.NoError(t, err)

	id, err := repo.CreateUser(ctx, "alice", string(hash), "a@x.com")
	require.NoError(t, err)
	assert.Positive(t, id)

	user, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "pw123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123")))
	assert.False(t, user.CreatedAt.IsZero())

	for i := 0; i < 3; i++ {
		_, err = repo.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, types.ErrNotFound)
	}
}

func TestSQLiteAuthRepo_DuplicateUsername(t *testing.T) {
	repo := NewSQLiteAuthRepo(openTestSQLite(t), time.Second, discardLogger())
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, "alice", "h1", "a@x.com")
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, "alice", "h2", "other@x.com")
	assert.ErrorIs(t, err, types.ErrDuplicateUsername)

	user, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h1", user.PasswordHash)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestSQLiteAuthRepo_ConcurrentRegistration(t *testing.T) {
	repo := NewSQLiteAuthRepo(openTestSQLite(t), 5*time.Second, discardLogger())
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.CreateUser(ctx, "racer", "hash", "r@x.com")
		}(i)
	}
	wg.Wait()

	var created, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, types.ErrDuplicateUsername):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, duplicates)
}

func TestSQLiteAuthRepo_UpdateUser(t *testing.T) {
	repo := NewSQLiteAuthRepo(openTestSQLite(t), time.Second, discardLogger())
	ctx := context.Background()

	aliceID, err := repo.CreateUser(ctx, "alice", "h1", "a@x.com")
	require.NoError(t, err)
	_, err = repo.CreateUser(ctx, "bob", "h2", "b@x.com")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateUser(ctx, aliceID, "alice2", "h3", "new@x.com"))

	_, err = repo.FindByUsername(ctx, "alice")
	assert.ErrorIs(t, err, types.ErrNotFound)
	user, err := repo.FindByUsername(ctx, "alice2")
	require.NoError(t, err)
	assert.Equal(t, "h3", user.PasswordHash)

	err = repo.UpdateUser(ctx, aliceID, "bob", "h3", "new@x.com")
	assert.ErrorIs(t, err, types.ErrDuplicateUsername)

	err = repo.UpdateUser(ctx, 999, "zed", "h", "z@x.com")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
