package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/backend/memory"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleton_Relational(t *testing.T) {
	remote := memory.New(backend.Relational)
	ctx := context.Background()
	svc := NewThemeService(remote, nil)

	_, err := svc.Get(ctx)
	var nf *common.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = svc.Update(ctx, DefaultTheme)
	var rw *common.RemoteWriteError
	require.ErrorAs(t, err, &rw)
	assert.ErrorIs(t, err, common.ErrNotFound, "missing singleton")

	seedRemote(t, remote, "themes",
		backend.Record{"id": "t1", "primary_color": "#000", "secondary_color": "#111", "accent_color": "#222", "background_color": "#333", "text_color": "#444"},
		backend.Record{"id": "t2", "primary_color": "#fff"},
	)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeColors{Primary: "#000", Secondary: "#111", Accent: "#222", Background: "#333", Text: "#444"}, got)

	require.NoError(t, svc.Update(ctx, DefaultTheme))

	row, err := remote.Get(ctx, "themes", "t1")
	require.NoError(t, err)
	assert.Equal(t, "#8B0000", row["primary_color"])
	assert.Equal(t, "#333333", row["text_color"])

	other, err := remote.Get(ctx, "themes", "t2")
	require.NoError(t, err)
	assert.Equal(t, "#fff", other["primary_color"], "only the first row is the singleton")
}

func TestSingleton_Document(t *testing.T) {
	remote := memory.New(backend.Document)
	ctx := context.Background()
	venue := NewVenueService(remote, nil)
	details := NewDetailsService(remote, nil)

	_, err := venue.Get(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = venue.Update(ctx, DefaultVenue)
	var rw *common.RemoteWriteError
	require.ErrorAs(t, err, &rw)
	assert.Equal(t, "settings", rw.ID)

	seedRemote(t, remote, "weddingData", backend.Record{
		"id":    "settings",
		"venue": map[string]any{"name": "Hall", "address": "Main St", "mapsUrl": "https://maps/x"},
	})

	got, err := venue.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.VenueInfo{Name: "Hall", Address: "Main St", MapsURL: "https://maps/x"}, got)

	_, err = details.Get(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound, "field missing from the settings document")

	require.NoError(t, details.Update(ctx, DefaultDetails))
	d, err := details.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultDetails, d)

	doc, err := remote.Get(ctx, "weddingData", "settings")
	require.NoError(t, err)
	assert.Equal(t, "Aswin", backend.Map(doc["details"])["groomName"])
	assert.NotNil(t, doc["venue"], "other fields untouched")
}

type failingBackend struct {
	backend.Backend
	err error
}

func (f failingBackend) List(context.Context, string) ([]backend.Record, error) { return nil, f.err }

func (f failingBackend) Get(context.Context, string, string) (backend.Record, error) {
	return nil, f.err
}

func TestSingleton_ReadErrorsPropagate(t *testing.T) {
	boom := errors.New("connection reset")

	rel := NewDetailsService(failingBackend{memory.New(backend.Relational), boom}, nil)
	_, err := rel.Get(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrNotFound)

	doc := NewDetailsService(failingBackend{memory.New(backend.Document), boom}, nil)
	_, err = doc.Get(context.Background())
	assert.ErrorIs(t, err, boom)

	err = rel.Update(context.Background(), DefaultDetails)
	var rw *common.RemoteWriteError
	require.ErrorAs(t, err, &rw)
	assert.ErrorIs(t, err, boom)
}

func TestSingletonCodecs(t *testing.T) {
	assert.Equal(t, DefaultTheme, themeCodec.fromRow(themeCodec.toRow(DefaultTheme)))
	assert.Equal(t, DefaultTheme, themeCodec.fromDoc(themeCodec.toDoc(DefaultTheme)))
	assert.Equal(t, DefaultVenue, venueCodec.fromRow(venueCodec.toRow(DefaultVenue)))
	assert.Equal(t, DefaultVenue, venueCodec.fromDoc(venueCodec.toDoc(DefaultVenue)))
	assert.Equal(t, DefaultDetails, detailsCodec.fromRow(detailsCodec.toRow(DefaultDetails)))
	assert.Equal(t, DefaultDetails, detailsCodec.fromDoc(detailsCodec.toDoc(DefaultDetails)))

	assert.Equal(t, "https://maps.app.goo.gl/tQCb8FZ4Cjnag58i6", venueCodec.toRow(DefaultVenue)["maps_url"])
	assert.Equal(t, "https://maps.app.goo.gl/tQCb8FZ4Cjnag58i6", venueCodec.toDoc(DefaultVenue)["mapsUrl"])
}
