package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/travel-diary-api/config"
	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) FindByUsername(ctx context.Context, username string) (*types.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, username, passwordHash, email string) (int64, error) {
	args := m.Called(ctx, username, passwordHash, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuthRepo) UpdateUser(ctx context.Context, userID int64, username, passwordHash, email string) error {
	args := m.Called(ctx, userID, username, passwordHash, email)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		JWT:  testJWTConfig(),
		Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}
}

func newTestService(t *testing.T, repo AuthRepo) *AuthServiceImpl {
	t.Helper()
	svc, err := NewAuthService(repo, newTestTokenManager(t), testConfig(), discardLogger())
	require.NoError(t, err)
	return svc
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestNewAuthService_RejectsBadCost(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.BcryptCost = bcrypt.MaxCost + 1
	_, err := NewAuthService(new(MockAuthRepo), newTestTokenManager(t), cfg, discardLogger())
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)

		var storedHash string
		repo.On("CreateUser", mock.Anything, "alice", mock.MatchedBy(func(h string) bool {
			storedHash = h
			return true
		}), "a@x.com").Return(int64(1), nil).Once()

		id, err := svc.Register(context.Background(), "alice", "pw123", "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.NotEqual(t, "pw123", storedHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("pw123")))
		repo.AssertExpectations(t)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)
		repo.On("CreateUser", mock.Anything, "alice", mock.Anything, "a@x.com").
			Return(int64(0), types.ErrDuplicateUsername).Once()

		_, err := svc.Register(context.Background(), "alice", "pw123", "a@x.com")
		assert.ErrorIs(t, err, types.ErrDuplicateUsername)
		repo.AssertExpectations(t)
	})

	t.Run("StorageFailure", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)
		repo.On("CreateUser", mock.Anything, "alice", mock.Anything, "a@x.com").
			Return(int64(0), fmt.Errorf("%w: boom", types.ErrStorageFailure)).Once()

		_, err := svc.Register(context.Background(), "alice", "pw123", "a@x.com")
		assert.ErrorIs(t, err, types.ErrStorageFailure)
		assert.NotErrorIs(t, err, types.ErrDuplicateUsername)
	})

	t.Run("Validation", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)

		_, err := svc.Register(context.Background(), " ", "pw123", "a@x.com")
		assert.ErrorIs(t, err, types.ErrBadRequest)

		_, err = svc.Register(context.Background(), "alice", "", "a@x.com")
		assert.ErrorIs(t, err, types.ErrBadRequest)

		long := make([]byte, maxPasswordBytes+1)
		for i := range long {
			long[i] = 'x'
		}
		_, err = svc.Register(context.Background(), "alice", string(long), "a@x.com")
		assert.ErrorIs(t, err, types.ErrBadRequest)

		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	user := &types.User{ID: 3, Username: "alice", PasswordHash: hashFor(t, "pw123"), Email: "a@x.com"}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)
		repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil).Once()

		token, err := svc.Login(context.Background(), "alice", "pw123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.VerifyToken(context.Background(), "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, int64(3), claims.UserID)
		repo.AssertExpectations(t)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)
		repo.On("FindByUsername", mock.Anything, "nobody").Return(nil, types.ErrNotFound).Once()

		token, err := svc.Login(context.Background(), "nobody", "pw123")
		assert.ErrorIs(t, err, types.ErrInvalidUser)
		assert.Empty(t, token)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)
		repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil).Once()

		token, err := svc.Login(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, types.ErrInvalidPassword)
		assert.Empty(t, token)
	})

	t.Run("PasswordBeyondBcryptLimit", func(t *testing.T) {
		longPw := strings.Repeat("a", maxPasswordBytes)
		longUser := &types.User{ID: 4, Username: "bob", PasswordHash: hashFor(t, longPw)}
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)
		repo.On("FindByUsername", mock.Anything, "bob").Return(longUser, nil).Twice()

		token, err := svc.Login(context.Background(), "bob", longPw+"EXTRA-SUFFIX")
		assert.ErrorIs(t, err, types.ErrInvalidPassword)
		assert.Empty(t, token)

		token, err = svc.Login(context.Background(), "bob", longPw)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		repo.AssertExpectations(t)
	})

	t.Run("StorageFailure", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)
		repo.On("FindByUsername", mock.Anything, "alice").
			Return(nil, fmt.Errorf("%w: timeout", types.ErrStorageFailure)).Once()

		_, err := svc.Login(context.Background(), "alice", "pw123")
		assert.ErrorIs(t, err, types.ErrStorageFailure)
		assert.False(t, errors.Is(err, types.ErrInvalidUser))
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("RehashesPassword", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)

		var storedHash string
		repo.On("UpdateUser", mock.Anything, int64(5), "alice2", mock.MatchedBy(func(h string) bool {
			storedHash = h
			return true
		}), "new@x.com").Return(nil).Once()

		err := svc.UpdateProfile(context.Background(), 5, 5, "alice2", "n3w-pw", "new@x.com")
		require.NoError(t, err)
		assert.NotEqual(t, "n3w-pw", storedHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("n3w-pw")))
		repo.AssertExpectations(t)
	})

	t.Run("OtherUser", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)

		err := svc.UpdateProfile(context.Background(), 5, 6, "alice2", "n3w-pw", "new@x.com")
		assert.ErrorIs(t, err, types.ErrForbidden)
		repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := newTestService(t, repo)
		repo.On("UpdateUser", mock.Anything, int64(5), "alice2", mock.Anything, "new@x.com").
			Return(types.ErrNotFound).Once()

		err := svc.UpdateProfile(context.Background(), 5, 5, "alice2", "n3w-pw", "new@x.com")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestVerifyToken(t *testing.T) {
	svc := newTestService(t, new(MockAuthRepo))
	token, _, err := svc.tokens.Issue(&types.User{ID: 9, Username: "carol"})
	require.NoError(t, err)

	claims, err := svc.VerifyToken(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "carol", claims.Username)

	_, err = svc.VerifyToken(context.Background(), "")
	assert.ErrorIs(t, err, types.ErrMissingToken)

	_, err = svc.VerifyToken(context.Background(), "Bearer "+token+"x")
	assert.ErrorIs(t, err, types.ErrInvalidToken)
}
