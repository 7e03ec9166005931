package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type photoFixture struct {
	svc    *Photos
	remote *spyBackend
	oracle *connectivity.Static
	blobs  *fakeBlobs
}

func newPhotoFixture(t *testing.T, offline bool) photoFixture {
	t.Helper()
	remote := newSpy(backend.Document)
	oracle := connectivity.NewStatic(offline)
	blobs := newFakeBlobs()
	svc := NewPhotoService(remote, oracle, newStore(t), blobs, nil)
	svc.newID = sequentialIDs()
	return photoFixture{svc: svc, remote: remote, oracle: oracle, blobs: blobs}
}

func TestUpload_Online(t *testing.T) {
	f := newPhotoFixture(t, false)
	ctx := context.Background()

	p, err := f.svc.Upload(ctx, models.NewPhoto{
		Alt:         "First dance",
		FileName:    "first  dance.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", p.ID)
	assert.Equal(t, "https://cdn.test/id-1-first-dance.png", p.Src)
	assert.Equal(t, "png-bytes", f.blobs.objects["id-1-first-dance.png"])

	rec, err := f.remote.Backend.Get(ctx, "photos", "id-1")
	require.NoError(t, err)
	assert.Equal(t, p.Src, rec["src"])
	assert.Equal(t, "First dance", rec["alt"])
	assert.Equal(t, 0, rec["order"])

	assert.Equal(t, []models.PhotoItem{p}, f.svc.Cached(ctx))
}

func TestUpload_OfflineUsesPlaceholder(t *testing.T) {
	f := newPhotoFixture(t, true)
	ctx := context.Background()

	p, err := f.svc.Upload(ctx, models.NewPhoto{Alt: "Cake", FileName: "cake.jpg", Body: strings.NewReader("x")})
	require.NoError(t, err)

	assert.Equal(t, "local://id-1/cake.jpg", p.Src)
	assert.Empty(t, f.blobs.objects)
	assert.Empty(t, f.remote.Calls())
	assert.Equal(t, []models.PhotoItem{p}, f.svc.List(ctx))
}

func TestUpload_BlobFailure(t *testing.T) {
	f := newPhotoFixture(t, false)
	f.blobs.putErr = errors.New("bucket full")

	_, err := f.svc.Upload(context.Background(), models.NewPhoto{Alt: "A", FileName: "a.png"})

	var rw *common.RemoteWriteError
	require.ErrorAs(t, err, &rw)
	assert.Equal(t, "create", rw.Op)
	assert.Empty(t, f.svc.Cached(context.Background()))
	assert.NotContains(t, f.remote.Calls(), "insert photos")
}

func TestUpload_NoBlobStore(t *testing.T) {
	svc := NewPhotoService(newSpy(backend.Relational), connectivity.NewStatic(false), newStore(t), nil, nil)

	_, err := svc.Upload(context.Background(), models.NewPhoto{Alt: "A", FileName: "a.png"})
	assert.ErrorIs(t, err, errNoBlobStore)
}

func TestUpload_InsertFailureRemovesBlob(t *testing.T) {
	f := newPhotoFixture(t, false)
	f.remote.fail["insert"] = errors.New("constraint")

	_, err := f.svc.Upload(context.Background(), models.NewPhoto{Alt: "A", FileName: "a.png", Body: strings.NewReader("x")})

	var rw *common.RemoteWriteError
	require.ErrorAs(t, err, &rw)
	assert.Equal(t, "create", rw.Op)
	assert.Equal(t, []string{"id-1-a.png"}, f.blobs.deleted)
	assert.Empty(t, f.blobs.objects)
	assert.Empty(t, f.svc.Cached(context.Background()))
}

func TestUpload_InsertFailureBlobCleanupErrorKeepsInsertError(t *testing.T) {
	f := newPhotoFixture(t, false)
	f.remote.fail["insert"] = errors.New("constraint")
	f.blobs.delErr = errors.New("denied")

	_, err := f.svc.Upload(context.Background(), models.NewPhoto{Alt: "A", FileName: "a.png"})
	require.ErrorContains(t, err, "constraint")
	assert.Equal(t, []string{"id-1-a.png"}, f.blobs.deleted)
}

func TestUpdateAlt(t *testing.T) {
	f := newPhotoFixture(t, false)
	ctx := context.Background()

	p, err := f.svc.Upload(ctx, models.NewPhoto{Alt: "Old", FileName: "a.png"})
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateAlt(ctx, p.ID, "New"))

	rec, err := f.remote.Backend.Get(ctx, "photos", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", rec["alt"])
	assert.Equal(t, p.Src, rec["src"], "other fields kept")
	assert.Equal(t, "New", f.svc.Cached(ctx)[0].Alt)
}

func TestUpdateAlt_FetchesWhenNotMirrored(t *testing.T) {
	f := newPhotoFixture(t, false)
	ctx := context.Background()
	seedRemote(t, f.remote.Backend, "photos", backend.Record{"id": "r1", "src": "/r1.png", "alt": "Old", "order": 3})

	require.NoError(t, f.svc.UpdateAlt(ctx, "r1", "New"))

	rec, err := f.remote.Backend.Get(ctx, "photos", "r1")
	require.NoError(t, err)
	assert.Equal(t, "New", rec["alt"])
	assert.Equal(t, 3, rec["order"])
}

func TestUpdateAlt_Unknown(t *testing.T) {
	online := newPhotoFixture(t, false)
	err := online.svc.UpdateAlt(context.Background(), "ghost", "x")
	assert.ErrorIs(t, err, common.ErrNotFound)

	offline := newPhotoFixture(t, true)
	assert.NoError(t, offline.svc.UpdateAlt(context.Background(), "ghost", "x"))
	assert.Empty(t, offline.remote.Calls())
	assert.Empty(t, offline.svc.Cached(context.Background()))
}

func TestUpdateAlt_OfflineSeedPhoto(t *testing.T) {
	f := newPhotoFixture(t, true)
	ctx := context.Background()

	listed := f.svc.List(ctx)
	require.Equal(t, SeedPhotos(), listed)

	require.NoError(t, f.svc.UpdateAlt(ctx, listed[0].ID, "Renamed"))
	assert.Empty(t, f.remote.Calls())
	assert.Equal(t, SeedPhotos(), f.svc.List(ctx))
}

func TestUpdateAlt_OfflineMirrored(t *testing.T) {
	f := newPhotoFixture(t, true)
	ctx := context.Background()

	p, err := f.svc.Upload(ctx, models.NewPhoto{Alt: "Old", FileName: "a.png"})
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateAlt(ctx, p.ID, "New"))
	assert.Equal(t, "New", f.svc.Cached(ctx)[0].Alt)
	assert.Empty(t, f.remote.Calls())
}

func TestDelete_OnlineRemovesBlob(t *testing.T) {
	f := newPhotoFixture(t, false)
	ctx := context.Background()

	p, err := f.svc.Upload(ctx, models.NewPhoto{Alt: "A", FileName: "a.png"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, p.ID))

	_, err = f.remote.Backend.Get(ctx, "photos", p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, f.svc.Cached(ctx))
	assert.Equal(t, []string{"id-1-a.png"}, f.blobs.deleted)
}

func TestDelete_PatchesMirrorBeforeRemote(t *testing.T) {
	f := newPhotoFixture(t, false)
	ctx := context.Background()

	p, err := f.svc.Upload(ctx, models.NewPhoto{Alt: "A", FileName: "a.png"})
	require.NoError(t, err)
	f.remote.Reset()
	f.remote.fail["get"] = errors.New("timeout")
	f.remote.fail["delete"] = errors.New("timeout")

	err = f.svc.Delete(ctx, p.ID)

	var rw *common.RemoteWriteError
	require.ErrorAs(t, err, &rw)
	assert.Equal(t, "delete", rw.Op)
	assert.Empty(t, f.svc.Cached(ctx), "mirror patched despite remote failure")
	assert.Equal(t, []string{"get photos", "delete photos"}, f.remote.Calls())
	assert.Empty(t, f.blobs.deleted)
}

func TestDelete_UsesMirroredSrcWhenGetFails(t *testing.T) {
	f := newPhotoFixture(t, false)
	ctx := context.Background()

	p, err := f.svc.Upload(ctx, models.NewPhoto{Alt: "A", FileName: "a.png"})
	require.NoError(t, err)
	f.remote.fail["get"] = errors.New("timeout")

	require.NoError(t, f.svc.Delete(ctx, p.ID))
	assert.Empty(t, f.svc.Cached(ctx))
	assert.Equal(t, []string{"id-1-a.png"}, f.blobs.deleted)
}

func TestDelete_BlobFailureIsNotAnError(t *testing.T) {
	f := newPhotoFixture(t, false)
	ctx := context.Background()

	p, err := f.svc.Upload(ctx, models.NewPhoto{Alt: "A", FileName: "a.png"})
	require.NoError(t, err)
	f.blobs.delErr = errors.New("denied")

	assert.NoError(t, f.svc.Delete(ctx, p.ID))
}

func TestDelete_ForeignSrcKeepsBlobs(t *testing.T) {
	f := newPhotoFixture(t, false)
	ctx := context.Background()
	seedRemote(t, f.remote.Backend, "photos", backend.Record{"id": "s", "src": "/lovable-uploads/x.png", "alt": "S"})

	require.NoError(t, f.svc.Delete(ctx, "s"))
	assert.Empty(t, f.blobs.deleted)
}

func TestDelete_OfflineLeavesBlobsAndRemote(t *testing.T) {
	f := newPhotoFixture(t, false)
	ctx := context.Background()

	p, err := f.svc.Upload(ctx, models.NewPhoto{Alt: "A", FileName: "a.png"})
	require.NoError(t, err)

	f.oracle.SetOffline(true)
	f.remote.Reset()

	require.NoError(t, f.svc.Delete(ctx, p.ID))
	assert.Empty(t, f.remote.Calls())
	assert.Empty(t, f.blobs.deleted)
	assert.Empty(t, f.svc.Cached(ctx))
}

func TestPhotoCodec(t *testing.T) {
	p := models.PhotoItem{ID: "a", Src: "/a.png", Alt: "A", Order: models.IntPtr(4)}
	rec := encodePhoto(backend.Relational, p)
	assert.Equal(t, backend.Record{"id": "a", "src": "/a.png", "alt": "A", "order": 4}, rec)

	back, err := decodePhoto(backend.Relational, rec)
	require.NoError(t, err)
	assert.Equal(t, p, back)

	noOrder := encodePhoto(backend.Document, models.PhotoItem{ID: "b"})
	_, has := noOrder["order"]
	assert.False(t, has)

	// JSON numbers arrive as float64
	back, err = decodePhoto(backend.Document, backend.Record{"id": "c", "order": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, *back.Order)

	_, err = decodePhoto(backend.Document, backend.Record{"src": "/x"})
	assert.Error(t, err)
}
