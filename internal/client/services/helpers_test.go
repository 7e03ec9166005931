package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/backend/memory"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/mirror"
	"github.com/stretchr/testify/require"
)

// spyBackend records every call and fails the ops listed in fail.
type spyBackend struct {
	backend.Backend

	mu    sync.Mutex
	calls []string
	fail  map[string]error
	// failAfter lets the first n calls of an op succeed.
	failAfter map[string]int
}

func newSpy(flavor backend.Flavor) *spyBackend {
	return &spyBackend{Backend: memory.New(flavor), fail: map[string]error{}, failAfter: map[string]int{}}
}

func (s *spyBackend) record(op, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op+" "+collection)
	err, ok := s.fail[op]
	if !ok {
		return nil
	}
	if s.failAfter[op] > 0 {
		s.failAfter[op]--
		return nil
	}
	return err
}

func (s *spyBackend) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *spyBackend) Reset() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}

func (s *spyBackend) List(ctx context.Context, c string) ([]backend.Record, error) {
	if err := s.record("list", c); err != nil {
		return nil, err
	}
	return s.Backend.List(ctx, c)
}

func (s *spyBackend) Get(ctx context.Context, c, id string) (backend.Record, error) {
	if err := s.record("get", c); err != nil {
		return nil, err
	}
	return s.Backend.Get(ctx, c, id)
}

func (s *spyBackend) Insert(ctx context.Context, c string, rec backend.Record) error {
	if err := s.record("insert", c); err != nil {
		return err
	}
	return s.Backend.Insert(ctx, c, rec)
}

func (s *spyBackend) Update(ctx context.Context, c, id string, f backend.Record) error {
	if err := s.record("update", c); err != nil {
		return err
	}
	return s.Backend.Update(ctx, c, id, f)
}

func (s *spyBackend) Delete(ctx context.Context, c, id string) error {
	if err := s.record("delete", c); err != nil {
		return err
	}
	return s.Backend.Delete(ctx, c, id)
}

// batchingBackend adds OrderBatcher to a spy.
type batchingBackend struct {
	*spyBackend
	batches [][]string
	err     error
}

func (b *batchingBackend) UpdateOrders(ctx context.Context, c string, ids []string) error {
	b.batches = append(b.batches, ids)
	if b.err != nil {
		return b.err
	}
	for i, id := range ids {
		if err := b.spyBackend.Backend.Update(ctx, c, id, backend.Record{backend.OrderField: i}); err != nil {
			return err
		}
	}
	return nil
}

func newStore(t *testing.T) mirror.Store {
	t.Helper()
	db, err := mirror.OpenDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mirror.NewSQLiteStore(db)
}

// sequentialIDs replaces uuid generation with id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// fakeBlobs is an in-memory blobs.Store serving from https://cdn.test/.
type fakeBlobs struct {
	objects map[string]string
	putErr  error
	delErr  error
	deleted []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string]string{}}
}

func (f *fakeBlobs) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	var data []byte
	if body != nil {
		data, _ = io.ReadAll(body)
	}
	f.objects[key] = string(data)
	return "https://cdn.test/" + key, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobs) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, "https://cdn.test/")
	return key, ok && key != ""
}
