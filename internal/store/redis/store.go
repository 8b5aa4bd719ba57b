package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/shelf/internal/store"
)

// maxUpdateAttempts bounds optimistic retries when another writer touches the key
const maxUpdateAttempts = 10

// ErrUpdateConflict is returned when the key kept changing under WATCH
var ErrUpdateConflict = errors.New("concurrent update conflict")

// Store persists bookmark lists as plain string values in Redis.
// Keys never expire: a list lives until it is overwritten or removed.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Get retrieves the raw value stored for key
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, BookmarksKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set replaces the value stored for key
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, BookmarksKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Update applies fn to the value under key inside a WATCH/MULTI transaction.
// The transaction is retried when the key changes before EXEC.
func (s *Store) Update(ctx context.Context, key string, fn store.UpdateFunc) error {
	k := BookmarksKey(key)

	txf := func(tx *redis.Tx) error {
		value, err := tx.Get(ctx, k).Result()
		ok := true
		if errors.Is(err, redis.Nil) {
			value, ok = "", false
		} else if err != nil {
			return err
		}

		next, err := fn(value, ok)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, k)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("failed to update %s: %w", key, err)
	}
	return fmt.Errorf("failed to update %s: %w", key, ErrUpdateConflict)
}

// Remove deletes key; deleting a missing key is not an error
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, BookmarksKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection with a short deadline
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}
