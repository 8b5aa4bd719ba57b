// Package bookmarks persists per-user bookmark lists on top of a key-value substrate.
package bookmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
	"github.com/MrSnakeDoc/shelf/internal/store"
)

// ErrMalformedData is returned when a stored value cannot be decoded as a bookmark list.
var ErrMalformedData = errors.New("malformed bookmark data")

// Storage reads and writes whole bookmark lists keyed by user identifier.
// It keeps no cache: every call goes to the substrate.
type Storage struct {
	kv      store.KV
	userIDs []string
	logger  logger.Logger
	locks   *userLocks
}

// NewStorage wires the adapter to a substrate and the configured user identifiers.
func NewStorage(kv store.KV, userIDs []string, log logger.Logger) *Storage {
	return &Storage{
		kv:      kv,
		userIDs: slices.Clone(userIDs),
		logger:  log,
		locks:   newUserLocks(),
	}
}

// GetData returns the list stored for userID.
// ok is false when nothing was ever written or the list was cleared.
func (s *Storage) GetData(ctx context.Context, userID string) ([]domain.Bookmark, bool, error) {
	raw, ok, err := s.kv.Get(ctx, userID)
	if err != nil {
		metrics.ObserveStorage("get", metrics.ResultError)
		return nil, false, fmt.Errorf("failed to read bookmarks for user %s: %w", userID, err)
	}
	if !ok {
		metrics.ObserveStorage("get", metrics.ResultAbsent)
		return nil, false, nil
	}

	list, ok, err := s.decode(userID, raw)
	switch {
	case err != nil:
		metrics.ObserveStorage("get", metrics.ResultMalformed)
	case !ok:
		metrics.ObserveStorage("get", metrics.ResultAbsent)
	default:
		metrics.ObserveStorage("get", metrics.ResultOK)
	}
	return list, ok, err
}

// SetData stores bookmarks for userID, replacing any previous list.
func (s *Storage) SetData(ctx context.Context, userID string, bookmarks []domain.Bookmark) error {
	if bookmarks == nil {
		bookmarks = []domain.Bookmark{}
	}

	data, err := json.Marshal(bookmarks)
	if err != nil {
		metrics.ObserveStorage("set", metrics.ResultError)
		return fmt.Errorf("failed to marshal bookmarks for user %s: %w", userID, err)
	}

	if err := s.kv.Set(ctx, userID, string(data)); err != nil {
		metrics.ObserveStorage("set", metrics.ResultError)
		return fmt.Errorf("failed to save bookmarks for user %s: %w", userID, err)
	}

	metrics.ObserveStorage("set", metrics.ResultOK)
	s.logger.Debug("bookmarks saved",
		logger.String("user_id", userID),
		logger.Int("count", len(bookmarks)))
	return nil
}

// Update replaces the list stored for userID with fn applied to the current
// one, and returns the list it wrote. fn receives nil when nothing is stored.
// Concurrent updates of the same user are serialized, so none is lost.
func (s *Storage) Update(ctx context.Context, userID string, fn func([]domain.Bookmark) []domain.Bookmark) ([]domain.Bookmark, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	var written []domain.Bookmark
	apply := func(raw string, ok bool) (string, error) {
		var current []domain.Bookmark
		if ok {
			list, _, err := s.decode(userID, raw)
			if err != nil {
				return "", err
			}
			current = list
		}

		written = fn(current)
		if written == nil {
			written = []domain.Bookmark{}
		}
		data, err := json.Marshal(written)
		if err != nil {
			return "", fmt.Errorf("failed to marshal bookmarks for user %s: %w", userID, err)
		}
		return string(data), nil
	}

	var err error
	if u, ok := s.kv.(store.Updater); ok {
		err = u.Update(ctx, userID, apply)
	} else {
		err = s.readModifyWrite(ctx, userID, apply)
	}
	if err != nil {
		if errors.Is(err, ErrMalformedData) {
			metrics.ObserveStorage("update", metrics.ResultMalformed)
		} else {
			metrics.ObserveStorage("update", metrics.ResultError)
		}
		return nil, fmt.Errorf("failed to update bookmarks for user %s: %w", userID, err)
	}

	metrics.ObserveStorage("update", metrics.ResultOK)
	s.logger.Debug("bookmarks updated",
		logger.String("user_id", userID),
		logger.Int("count", len(written)))
	return written, nil
}

// readModifyWrite is the Update path for substrates without atomic updates.
// The caller holds the user's lock.
func (s *Storage) readModifyWrite(ctx context.Context, userID string, fn store.UpdateFunc) error {
	raw, ok, err := s.kv.Get(ctx, userID)
	if err != nil {
		return err
	}
	next, err := fn(raw, ok)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, userID, next)
}

// decode parses a stored value. JSON null means "no list" rather than an empty one.
func (s *Storage) decode(userID, raw string) ([]domain.Bookmark, bool, error) {
	var list []domain.Bookmark
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Error("stored bookmarks are not valid JSON",
			logger.String("user_id", userID),
			logger.Error(err))
		return nil, false, fmt.Errorf("user %s: %w: %v", userID, ErrMalformedData, err)
	}
	if list == nil {
		return nil, false, nil
	}
	return list, true, nil
}

// ClearData removes the list stored for userID. Clearing an absent list is a no-op.
func (s *Storage) ClearData(ctx context.Context, userID string) error {
	if err := s.kv.Remove(ctx, userID); err != nil {
		metrics.ObserveStorage("clear", metrics.ResultError)
		return fmt.Errorf("failed to clear bookmarks for user %s: %w", userID, err)
	}
	metrics.ObserveStorage("clear", metrics.ResultOK)
	return nil
}

// GetUserIDs returns the configured user identifiers in order.
func (s *Storage) GetUserIDs() []string {
	return slices.Clone(s.userIDs)
}

// IsKnownUser reports whether userID is one of the configured identifiers.
func (s *Storage) IsKnownUser(userID string) bool {
	return slices.Contains(s.userIDs, userID)
}
