package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

func newMockPostgresRepo(t *testing.T) (*PostgresAuthRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresAuthRepo(mockPool, time.Second, discardLogger()), mockPool
}

func TestPostgresAuthRepo_FindByUsername(t *testing.T) {
	cols := []string{"id", "username", "password_hash", "email", "created_at", "updated_at"}

	t.Run("Found", func(t *testing.T) {
		repo, mockPool := newMockPostgresRepo(t)
		now := time.Now().UTC()
		mockPool.ExpectQuery("SELECT id, username, password_hash, email, created_at, updated_at").
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(1), "alice", "$2a$hash", "a@x.com", now, now))

		user, err := repo.FindByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "$2a$hash", user.PasswordHash)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mockPool := newMockPostgresRepo(t)
		for i := 0; i < 2; i++ {
			mockPool.ExpectQuery("FROM users WHERE username").
				WithArgs("ghost").
				WillReturnRows(pgxmock.NewRows(cols))
		}

		for i := 0; i < 2; i++ {
			_, err := repo.FindByUsername(context.Background(), "ghost")
			assert.ErrorIs(t, err, types.ErrNotFound)
		}
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("StorageFailure", func(t *testing.T) {
		repo, mockPool := newMockPostgresRepo(t)
		mockPool.ExpectQuery("FROM users WHERE username").
			WithArgs("alice").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.FindByUsername(context.Background(), "alice")
		assert.ErrorIs(t, err, types.ErrStorageFailure)
		assert.NotErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresAuthRepo_CreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mockPool := newMockPostgresRepo(t)
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs("alice", "$2a$hash", "a@x.com").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

		id, err := repo.CreateUser(context.Background(), "alice", "$2a$hash", "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Duplicate", func(t *testing.T) {
		repo, mockPool := newMockPostgresRepo(t)
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs("alice", "$2a$hash", "a@x.com").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		_, err := repo.CreateUser(context.Background(), "alice", "$2a$hash", "a@x.com")
		assert.ErrorIs(t, err, types.ErrDuplicateUsername)
		assert.ErrorIs(t, err, types.ErrConflict)
	})

	t.Run("OtherError", func(t *testing.T) {
		repo, mockPool := newMockPostgresRepo(t)
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs("alice", "$2a$hash", "a@x.com").
			WillReturnError(&pgconn.PgError{Code: "23502"})

		_, err := repo.CreateUser(context.Background(), "alice", "$2a$hash", "a@x.com")
		assert.ErrorIs(t, err, types.ErrStorageFailure)
	})
}

func TestPostgresAuthRepo_UpdateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mockPool := newMockPostgresRepo(t)
		mockPool.ExpectExec("UPDATE users").
			WithArgs("alice2", "$2a$new", "new@x.com", int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdateUser(context.Background(), 3, "alice2", "$2a$new", "new@x.com"))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mockPool := newMockPostgresRepo(t)
		mockPool.ExpectExec("UPDATE users").
			WithArgs("alice2", "$2a$new", "new@x.com", int64(99)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateUser(context.Background(), 99, "alice2", "$2a$new", "new@x.com")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("Duplicate", func(t *testing.T) {
		repo, mockPool := newMockPostgresRepo(t)
		mockPool.ExpectExec("UPDATE users").
			WithArgs("bob", "$2a$new", "new@x.com", int64(3)).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.UpdateUser(context.Background(), 3, "bob", "$2a$new", "new@x.com")
		assert.ErrorIs(t, err, types.ErrDuplicateUsername)
	})
}
