// Package memory is an in-process Backend. It keeps insertion order, so List
// is stable, and deep-copies records at the boundary so callers cannot
// mutate stored state.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
)

type collection struct {
	ids     []string
	records map[string]backend.Record
}

type Store struct {
	flavor backend.Flavor

	mu          sync.RWMutex
	collections map[string]*collection
}

func New(flavor backend.Flavor) *Store {
	return &Store{flavor: flavor, collections: make(map[string]*collection)}
}

func (s *Store) Flavor() backend.Flavor {
	return s.flavor
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) List(ctx context.Context, name string) ([]backend.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return []backend.Record{}, nil
	}
	out := make([]backend.Record, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, deepCopy(c.records[id]))
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, name, id string) (backend.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", name, id, common.ErrNotFound)
	}
	rec, ok := c.records[id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", name, id, common.ErrNotFound)
	}
	return deepCopy(rec), nil
}

// Insert stores rec under its id, replacing any existing record with the
// same id in place.
func (s *Store) Insert(ctx context.Context, name string, rec backend.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := rec.ID()
	if id == "" {
		return fmt.Errorf("insert %s: %w: missing id", name, common.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &collection{records: make(map[string]backend.Record)}
		s.collections[name] = c
	}
	if _, exists := c.records[id]; !exists {
		c.ids = append(c.ids, id)
	}
	c.records[id] = deepCopy(rec)
	return nil
}

func (s *Store) Update(ctx context.Context, name, id string, fields backend.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%s/%s: %w", name, id, common.ErrNotFound)
	}
	rec, ok := c.records[id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", name, id, common.ErrNotFound)
	}
	for k, v := range deepCopy(fields) {
		if k == backend.IDField {
			continue
		}
		rec[k] = v
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return nil
	}
	if _, ok := c.records[id]; !ok {
		return nil
	}
	delete(c.records, id)
	for i, v := range c.ids {
		if v == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
	return nil
}

func deepCopy(rec backend.Record) backend.Record {
	out := make(backend.Record, len(rec))
	for k, v := range rec {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, v := range t {
			m[k] = copyValue(v)
		}
		return m
	case backend.Record:
		return map[string]any(deepCopy(t))
	case []any:
		s := make([]any, len(t))
		for i, v := range t {
			s[i] = copyValue(v)
		}
		return s
	default:
		return v
	}
}
