// Package mirror keeps the last-known-good snapshot of remote collections in
// a client-local SQLite database.
//
// A snapshot is a JSON array stored under a fixed key. Reading never fails:
// a missing, unreadable or corrupt snapshot reads as empty. Writing never
// fails either; persistence errors are logged and dropped, since the mirror
// is a best-effort cache.
package mirror

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
)

// Mirror is the typed view of one snapshot key.
type Mirror[T any] struct {
	store  Store
	key    string
	logger logging.Logger
}

func New[T any](store Store, key string, logger logging.Logger) *Mirror[T] {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Mirror[T]{store: store, key: key, logger: logger.With("module", "mirror", "key", key)}
}

// Load returns the stored snapshot or an empty, non-nil slice.
func (m *Mirror[T]) Load(ctx context.Context) []T {
	data, err := m.store.Get(ctx, m.key)
	if err != nil {
		m.logger.Warn(ctx, "mirror read failed", "error", err)
		return []T{}
	}
	if len(data) == 0 {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		m.logger.Warn(ctx, "mirror snapshot is corrupt, ignoring", "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Save overwrites the snapshot.
func (m *Mirror[T]) Save(ctx context.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		m.logger.Warn(ctx, "mirror encode failed", "error", err)
		return
	}
	if err := m.store.Set(ctx, m.key, data); err != nil {
		m.logger.Warn(ctx, "mirror write failed", "error", err)
		return
	}
	m.logger.Debug(ctx, "mirror saved", "items", len(items))
}

// Drop forgets the snapshot.
func (m *Mirror[T]) Drop(ctx context.Context) {
	if err := m.store.Delete(ctx, m.key); err != nil {
		m.logger.Warn(ctx, "mirror delete failed", "error", err)
	}
}
