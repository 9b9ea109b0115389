package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

func TestCachedAuthRepo_HitsSkipStore(t *testing.T) {
	next := new(MockAuthRepo)
	repo := NewCachedAuthRepo(next, time.Minute, discardLogger())
	next.On("FindByUsername", mock.Anything, "alice").
		Return(&types.User{ID: 1, Username: "alice", PasswordHash: "h"}, nil).Once()

	for i := 0; i < 3; i++ {
		user, err := repo.FindByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
	}
	next.AssertNumberOfCalls(t, "FindByUsername", 1)
}

func TestCachedAuthRepo_ReturnsCopies(t *testing.T) {
	next := new(MockAuthRepo)
	repo := NewCachedAuthRepo(next, time.Minute, discardLogger())
	next.On("FindByUsername", mock.Anything, "alice").
		Return(&types.User{ID: 1, Username: "alice", PasswordHash: "h"}, nil).Once()

	first, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	first.PasswordHash = "mutated"

	second, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", second.PasswordHash)
}

func TestCachedAuthRepo_MissesAreNotCached(t *testing.T) {
	next := new(MockAuthRepo)
	repo := NewCachedAuthRepo(next, time.Minute, discardLogger())
	next.On("FindByUsername", mock.Anything, "ghost").Return(nil, types.ErrNotFound).Twice()

	for i := 0; i < 2; i++ {
		_, err := repo.FindByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, types.ErrNotFound)
	}
	next.AssertExpectations(t)
}

func TestCachedAuthRepo_UpdateEvictsOldUsername(t *testing.T) {
	next := new(MockAuthRepo)
	repo := NewCachedAuthRepo(next, time.Minute, discardLogger())
	next.On("FindByUsername", mock.Anything, "alice").
		Return(&types.User{ID: 1, Username: "alice", PasswordHash: "old"}, nil).Once()
	next.On("UpdateUser", mock.Anything, int64(1), "alice2", "new", "a@x.com").Return(nil).Once()
	next.On("FindByUsername", mock.Anything, "alice").Return(nil, types.ErrNotFound).Once()

	_, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateUser(context.Background(), 1, "alice2", "new", "a@x.com"))

	_, err = repo.FindByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, types.ErrNotFound)
	next.AssertExpectations(t)
}

func TestCachedAuthRepo_ConcurrentLookupsShareOneLoad(t *testing.T) {
	next := new(MockAuthRepo)
	repo := NewCachedAuthRepo(next, time.Minute, discardLogger())
	release := make(chan struct{})
	next.On("FindByUsername", mock.Anything, "alice").
		Run(func(mock.Arguments) { <-release }).
		Return(&types.User{ID: 1, Username: "alice"}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user, err := repo.FindByUsername(context.Background(), "alice")
			assert.NoError(t, err)
			assert.Equal(t, "alice", user.Username)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	calls := 0
	for _, c := range next.Calls {
		if c.Method == "FindByUsername" {
			calls++
		}
	}
	assert.Equal(t, 1, calls)
}

func TestCachedAuthRepo_LoadRacingUpdateIsNotCached(t *testing.T) {
	next := new(MockAuthRepo)
	repo := NewCachedAuthRepo(next, time.Minute, discardLogger())
	started := make(chan struct{})
	release := make(chan struct{})
	next.On("FindByUsername", mock.Anything, "alice").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&types.User{ID: 1, Username: "alice", PasswordHash: "old"}, nil).Once()
	next.On("UpdateUser", mock.Anything, int64(1), "alice", "new", "a@x.com").Return(nil).Once()
	next.On("FindByUsername", mock.Anything, "alice").
		Return(&types.User{ID: 1, Username: "alice", PasswordHash: "new"}, nil).Once()

	done := make(chan *types.User)
	go func() {
		user, err := repo.FindByUsername(context.Background(), "alice")
		assert.NoError(t, err)
		done <- user
	}()

	<-started
	require.NoError(t, repo.UpdateUser(context.Background(), 1, "alice", "new", "a@x.com"))
	close(release)
	stale := <-done
	assert.Equal(t, "old", stale.PasswordHash)

	user, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "new", user.PasswordHash)
	next.AssertExpectations(t)
}
