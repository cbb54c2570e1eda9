package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terracast/auth-service/internal/core/domain"
)

func TestMemoryUserRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "alice", "a@x.com", "hash"))

	rec, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, "a@x.com", rec.Email)
	assert.Equal(t, "hash", rec.PasswordHash)

	missing, err := repo.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryUserRepository_DuplicateCreate(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "alice", "a@x.com", "hash"))
	assert.ErrorIs(t, repo.Create(ctx, "alice", "other@x.com", "hash2"), domain.ErrDuplicateUsername)
}

// Concurrent creates for the same username: exactly one wins, the rest
// observe ErrDuplicateUsername, regardless of interleaving.
func TestMemoryUserRepository_ConcurrentCreate(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	const workers = 32
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, "alice", "a@x.com", "hash")
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, domain.ErrDuplicateUsername)
			duplicates++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, duplicates)
}

func TestMemoryUserRepository_UpdateEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "alice", "a@x.com", "hash"))
	require.NoError(t, repo.UpdateEmail(ctx, "alice", "b@x.com"))

	rec, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", rec.Email)

	assert.ErrorIs(t, repo.UpdateEmail(ctx, "bob", "b@x.com"), domain.ErrNotFound)
}

func TestMemoryUserRepository_UpdatePasswordHash(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "alice", "a@x.com", "hash"))
	require.NoError(t, repo.UpdatePasswordHash(ctx, "alice", "newhash"))

	rec, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "newhash", rec.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, "bob", "newhash"), domain.ErrNotFound)
}

func TestMemorySessionStore_Lifecycle(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	now := time.Now()
	session := domain.SessionRecord{
		Token:     "tok",
		Username:  "alice",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, store.Create(ctx, session))

	rec, err := store.GetByToken(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "alice", rec.Username)

	missing, err := store.GetByToken(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Delete(ctx, "tok"))
	rec, err = store.GetByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, "tok"))
}

func TestMemorySessionStore_ConcurrentDelete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, domain.SessionRecord{Token: "tok", Username: "alice"}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Delete(ctx, "tok"))
		}()
	}
	wg.Wait()

	rec, err := store.GetByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
