package sessions_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/jrsteele09/go-oauth-client/oauth2"
	"github.com/jrsteele09/go-oauth-client/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newSession(id string) sessions.Session {
	now := time.Now()
	return sessions.Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func repos(t *testing.T) map[string]sessions.Repo {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]sessions.Repo{
		"memory": sessions.NewInMemoryRepo(),
		"redis":  sessions.NewRedisRepoWithClient(client, "test:"),
	}
}

func TestRepoCreateGetDelete(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Create(ctx, newSession("s1")))

			got, err := repo.Get(ctx, "s1")
			require.NoError(t, err)
			require.Equal(t, "s1", got.ID)
			require.False(t, got.Authenticated())

			require.NoError(t, repo.Delete(ctx, "s1"))
			_, err = repo.Get(ctx, "s1")
			require.ErrorIs(t, err, errors.ErrSessionNotFound)

			require.NoError(t, repo.Delete(ctx, "s1"))
		})
	}
}

func TestRepoRequiresID(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.Error(t, repo.Create(ctx, sessions.Session{}))
			_, err := repo.Get(ctx, "")
			require.Error(t, err)
			require.Error(t, repo.Update(ctx, "", func(*sessions.Session) error { return nil }))
			require.Error(t, repo.Delete(ctx, ""))
		})
	}
}

func TestRepoUpdate(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Create(ctx, newSession("s1")))

			now := time.Now()
			err := repo.Update(ctx, "s1", func(s *sessions.Session) error {
				s.BindTokens(&oauth2.TokenResponse{AccessToken: "T1", ExpiresIn: 3600, RefreshToken: "R1"}, now)
				return nil
			})
			require.NoError(t, err)

			got, err := repo.Get(ctx, "s1")
			require.NoError(t, err)
			require.True(t, got.Authenticated())
			require.Equal(t, "T1", got.AccessToken)
			require.Equal(t, "R1", got.RefreshToken)
			require.WithinDuration(t, now.Add(time.Hour), got.TokenExpiresAt, time.Second)
		})
	}
}

func TestRepoUpdateAbortLeavesRecord(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newSession("s1")
			s.PendingState = "abc123"
			require.NoError(t, repo.Create(ctx, s))

			abort := stderrors.New("abort")
			err := repo.Update(ctx, "s1", func(s *sessions.Session) error {
				s.PendingState = ""
				s.AccessToken = "T1"
				return abort
			})
			require.ErrorIs(t, err, abort)

			got, err := repo.Get(ctx, "s1")
			require.NoError(t, err)
			require.Equal(t, "abc123", got.PendingState)
			require.Empty(t, got.AccessToken)
		})
	}
}

func TestRepoUpdateMissing(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			err := repo.Update(context.Background(), "nope", func(*sessions.Session) error { return nil })
			require.ErrorIs(t, err, errors.ErrSessionNotFound)
		})
	}
}

func TestRepoConcurrentUpdates(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newSession("s1")
			s.PendingState = "abc123"
			require.NoError(t, repo.Create(ctx, s))

			// Only one of the racing binds may consume the pending state.
			var wg sync.WaitGroup
			var mu sync.Mutex
			wins := 0
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := repo.Update(ctx, "s1", func(s *sessions.Session) error {
						if s.PendingState != "abc123" {
							return errors.ErrSessionConflict
						}
						s.PendingState = ""
						s.AccessToken = "T1"
						return nil
					})
					if err == nil {
						mu.Lock()
						wins++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			require.Equal(t, 1, wins)
		})
	}
}

func TestInMemoryRepoExpired(t *testing.T) {
	repo := sessions.NewInMemoryRepo()
	ctx := context.Background()
	s := newSession("old")
	s.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Create(ctx, s))

	_, err := repo.Get(ctx, "old")
	require.ErrorIs(t, err, errors.ErrSessionExpired)

	_, err = repo.Get(ctx, "old")
	require.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestRedisRepoTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	repo := sessions.NewRedisRepoWithClient(client, "")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("s1")))
	require.True(t, mr.Exists("oauth-client:session:s1"))
	ttl := mr.TTL("oauth-client:session:s1")
	require.Greater(t, ttl, 59*time.Minute)

	mr.FastForward(2 * time.Hour)
	_, err := repo.Get(ctx, "s1")
	require.ErrorIs(t, err, errors.ErrSessionNotFound)

	expired := newSession("s2")
	expired.ExpiresAt = time.Now().Add(-time.Second)
	require.ErrorIs(t, repo.Create(ctx, expired), errors.ErrSessionExpired)
}

func TestRedisRepoConflict(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer other.Close()

	repo := sessions.NewRedisRepoWithClient(client, "test:")
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("s1")))

	// Every attempt is interrupted by a write from another connection.
	attempts := 0
	err := repo.Update(ctx, "s1", func(s *sessions.Session) error {
		attempts++
		raw, err := other.Get(ctx, "test:s1").Result()
		require.NoError(t, err)
		require.NoError(t, other.Set(ctx, "test:s1", raw, time.Hour).Err())
		s.AccessToken = "T1"
		return nil
	})
	require.ErrorIs(t, err, errors.ErrSessionConflict)
	require.Equal(t, 3, attempts)

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, got.AccessToken)
}

func TestNewRedisRepo(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	repo, err := sessions.NewRedisRepo(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.Health(ctx))

	_, err = sessions.NewRedisRepo(ctx, "not-a-url")
	require.Error(t, err)
}

func TestInMemoryRepoSweepInterval(t *testing.T) {
	now := time.Now()
	repo := sessions.NewInMemoryRepo(
		sessions.WithRepoClock(func() time.Time { return now }),
		sessions.WithSweepInterval(10*time.Minute),
	)
	ctx := context.Background()

	old := sessions.Session{ID: "old", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, old))

	// Expired, but the sweep interval has not passed yet.
	now = now.Add(5 * time.Minute)
	require.NoError(t, repo.Create(ctx, sessions.Session{ID: "a", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	require.Equal(t, 2, repo.Len())

	now = now.Add(5 * time.Minute)
	require.NoError(t, repo.Create(ctx, sessions.Session{ID: "b", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	require.Equal(t, 2, repo.Len())
	_, err := repo.Get(ctx, "a")
	require.NoError(t, err)
}
