package memory

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CRUD(t *testing.T) {
	s := New(backend.Relational)
	ctx := context.Background()

	assert.Equal(t, backend.Relational, s.Flavor())
	require.NoError(t, s.Ping(ctx))

	list, err := s.List(ctx, "photos")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.Insert(ctx, "photos", backend.Record{"id": "b", "alt": "B", "order": 1}))
	require.NoError(t, s.Insert(ctx, "photos", backend.Record{"id": "a", "alt": "A", "order": 0}))

	list, err = s.List(ctx, "photos")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID(), "insertion order kept")

	require.NoError(t, s.Update(ctx, "photos", "a", backend.Record{"alt": "A2", "id": "ignored"}))
	got, err := s.Get(ctx, "photos", "a")
	require.NoError(t, err)
	assert.Equal(t, backend.Record{"id": "a", "alt": "A2", "order": 0}, got)

	require.NoError(t, s.Delete(ctx, "photos", "a"))
	require.NoError(t, s.Delete(ctx, "photos", "a"))
	require.NoError(t, s.Delete(ctx, "nothing", "a"))

	_, err = s.Get(ctx, "photos", "a")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStore_NotFound(t *testing.T) {
	s := New(backend.Document)
	ctx := context.Background()

	_, err := s.Get(ctx, "weddingData", "settings")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = s.Update(ctx, "weddingData", "settings", backend.Record{"theme": map[string]any{}})
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.Insert(ctx, "weddingData", backend.Record{"id": "other"}))
	err = s.Update(ctx, "weddingData", "settings", backend.Record{})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStore_InsertRequiresID(t *testing.T) {
	err := New(backend.Relational).Insert(context.Background(), "photos", backend.Record{"alt": "x"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestStore_InsertReplacesInPlace(t *testing.T) {
	s := New(backend.Relational)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "t", backend.Record{"id": "1", "v": "a"}))
	require.NoError(t, s.Insert(ctx, "t", backend.Record{"id": "2", "v": "b"}))
	require.NoError(t, s.Insert(ctx, "t", backend.Record{"id": "1", "v": "c"}))

	list, err := s.List(ctx, "t")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0]["v"])
}

func TestStore_RecordsAreCopied(t *testing.T) {
	s := New(backend.Document)
	ctx := context.Background()

	theme := map[string]any{"primary": "#8B0000"}
	require.NoError(t, s.Insert(ctx, "weddingData", backend.Record{"id": "settings", "theme": theme}))
	theme["primary"] = "mutated"

	got, err := s.Get(ctx, "weddingData", "settings")
	require.NoError(t, err)
	got["theme"].(map[string]any)["primary"] = "mutated again"

	again, err := s.Get(ctx, "weddingData", "settings")
	require.NoError(t, err)
	assert.Equal(t, "#8B0000", again["theme"].(map[string]any)["primary"])
}

func TestStore_CancelledContext(t *testing.T) {
	s := New(backend.Relational)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
	_, err := s.List(ctx, "photos")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Insert(ctx, "photos", backend.Record{"id": "x"}), context.Canceled)
}
