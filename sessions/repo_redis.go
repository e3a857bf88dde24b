package sessions

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "oauth-client:session:"
	maxUpdateRetries = 3
)

// RedisRepo stores sessions as JSON values whose key TTL tracks the session expiry.
// Update uses WATCH/MULTI so a concurrent writer aborts the transaction instead
// of being overwritten.
type RedisRepo struct {
	client    redis.UniversalClient
	keyPrefix string
}

var _ Repo = (*RedisRepo)(nil)

// NewRedisRepo connects to url (redis://host:port/db) and checks the connection.
func NewRedisRepo(ctx context.Context, url string) (*RedisRepo, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("[sessions NewRedisRepo] parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[sessions NewRedisRepo] redis ping failed: %w", err)
	}
	return NewRedisRepoWithClient(client, defaultKeyPrefix), nil
}

// NewRedisRepoWithClient wraps a pre-configured client.
func NewRedisRepoWithClient(client redis.UniversalClient, keyPrefix string) *RedisRepo {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisRepo{client: client, keyPrefix: keyPrefix}
}

// Health pings the server.
func (r *RedisRepo) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepo) Close() error {
	return r.client.Close()
}

func (r *RedisRepo) key(sessionID string) string {
	return r.keyPrefix + sessionID
}

func (r *RedisRepo) Create(ctx context.Context, session Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is required")
	}
	data, ttl, err := encode(session)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("[sessions RedisRepo.Create] %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}
	raw, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return Session{}, errors.ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("[sessions RedisRepo.Get] %w", err)
	}
	return decode(raw)
}

func (r *RedisRepo) Update(ctx context.Context, sessionID string, fn func(*Session) error) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}
	key := r.key(sessionID)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if stderrors.Is(err, redis.Nil) {
			return errors.ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		session, err := decode(raw)
		if err != nil {
			return err
		}
		if err := fn(&session); err != nil {
			return err
		}
		session.ID = sessionID

		data, ttl, err := encode(session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if !stderrors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return errors.ErrSessionConflict
}

func (r *RedisRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("[sessions RedisRepo.Delete] %w", err)
	}
	return nil
}

func encode(session Session) ([]byte, time.Duration, error) {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil, 0, errors.ErrSessionExpired
	}
	data, err := json.Marshal(session)
	if err != nil {
		return nil, 0, fmt.Errorf("[sessions encode] %w", err)
	}
	return data, ttl, nil
}

func decode(raw []byte) (Session, error) {
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return Session{}, fmt.Errorf("[sessions decode] %w", err)
	}
	return session, nil
}
