package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/blobs"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/mirror"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
	"github.com/dmitrijs2005/weddingkeeper/internal/models"
)

// LocalSrcScheme prefixes the src of photos uploaded while offline. Such a
// src points at nothing the site can serve.
const LocalSrcScheme = "local://"

// PhotoService manages the gallery.
type PhotoService interface {
	List(ctx context.Context) []models.PhotoItem
	Upload(ctx context.Context, p models.NewPhoto) (models.PhotoItem, error)
	UpdateAlt(ctx context.Context, id, alt string) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, photos []models.PhotoItem) ([]models.PhotoItem, error)
	Cached(ctx context.Context) []models.PhotoItem
	Drop(ctx context.Context)
}

var PhotoKind = Kind[models.PhotoItem]{
	Name:      "photos",
	MirrorKey: common.PhotosMirrorKey,
	Remote:    func(backend.Flavor) string { return "photos" },
	ID:        func(p models.PhotoItem) string { return p.ID },
	SetID:     func(p *models.PhotoItem, id string) { p.ID = id },
	Order: func(p models.PhotoItem) (int, bool) {
		return p.OrderValue(), p.Order != nil
	},
	SetOrder: func(p *models.PhotoItem, o int) { p.Order = models.IntPtr(o) },
	Seed:     SeedPhotos,
	Encode:   encodePhoto,
	Decode:   decodePhoto,
}

type Photos struct {
	*Collection[models.PhotoItem]
	blobs  blobs.Store
	logger logging.Logger
}

// NewPhotoService builds the gallery service. blobStore may be nil, in
// which case online uploads fail.
func NewPhotoService(remote backend.Backend, oracle connectivity.Oracle, store mirror.Store, blobStore blobs.Store, l logging.Logger) *Photos {
	if l == nil {
		l = logging.Nop{}
	}
	return &Photos{
		Collection: NewCollection(PhotoKind, remote, oracle, store, l),
		blobs:      blobStore,
		logger:     l.With("module", "photos"),
	}
}

var errNoBlobStore = errors.New("no blob store configured")

// Upload adds a photo at the end of the gallery. Online the image is
// stored first and src is its public URL; offline src is a local
// placeholder and nothing leaves the machine.
func (s *Photos) Upload(ctx context.Context, p models.NewPhoto) (models.PhotoItem, error) {
	item := models.PhotoItem{Alt: p.Alt}

	var stored string
	created, err := s.create(ctx, item, func(ctx context.Context, item *models.PhotoItem, offline bool) error {
		if offline {
			item.Src = LocalSrcScheme + item.ID + "/" + p.FileName
			return nil
		}
		if s.blobs == nil {
			return errNoBlobStore
		}
		key := blobs.Key(item.ID, p.FileName)
		url, err := s.blobs.Put(ctx, key, p.ContentType, p.Body)
		if err != nil {
			return err
		}
		stored = key
		item.Src = url
		return nil
	})
	if err != nil && stored != "" {
		// the image went up but the record did not
		if derr := s.blobs.Delete(ctx, stored); derr != nil {
			s.logger.Warn(ctx, "failed to remove orphaned photo blob", "key", stored, "error", derr)
		}
	}
	return created, err
}

// UpdateAlt changes the alt text of one photo. Offline, a photo missing
// from the mirror (a seed photo, for one) is left as it is.
func (s *Photos) UpdateAlt(ctx context.Context, id, alt string) error {
	item, ok := s.Lookup(ctx, id)
	if !ok {
		if s.Offline() {
			s.logger.Debug(ctx, "photo is not mirrored, nothing to update", "id", id)
			return nil
		}
		var err error
		item, err = s.Fetch(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return &common.NotFoundError{Resource: "photo " + id}
			}
			return &common.RemoteWriteError{Op: "update", Collection: "photos", ID: id, Err: err}
		}
	}
	item.Alt = alt
	return s.Update(ctx, item)
}

// Delete removes the photo from the mirror, then, online, from the backend
// together with its stored image. Failing to remove the image is logged
// only.
func (s *Photos) Delete(ctx context.Context, id string) error {
	var src string
	if item, ok := s.Lookup(ctx, id); ok {
		src = item.Src
	}
	s.forget(ctx, id)

	if s.Offline() {
		return nil
	}

	if item, err := s.Fetch(ctx, id); err == nil {
		src = item.Src
	}
	if err := s.deleteRemote(ctx, id); err != nil {
		return err
	}

	s.removeBlob(ctx, id, src)
	return nil
}

func (s *Photos) removeBlob(ctx context.Context, id, src string) {
	if s.blobs == nil || src == "" {
		return
	}
	key, ok := s.blobs.KeyFromURL(src)
	if !ok {
		s.logger.Debug(ctx, "photo src is not a stored blob", "id", id, "src", src)
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "failed to remove photo blob", "id", id, "key", key, "error", err)
	}
}

func encodePhoto(_ backend.Flavor, p models.PhotoItem) backend.Record {
	rec := backend.Record{
		backend.IDField: p.ID,
		"src":           p.Src,
		"alt":           p.Alt,
	}
	if p.Order != nil {
		rec[backend.OrderField] = *p.Order
	}
	return rec
}

func decodePhoto(_ backend.Flavor, rec backend.Record) (models.PhotoItem, error) {
	p := models.PhotoItem{
		ID:  rec.ID(),
		Src: backend.String(rec["src"]),
		Alt: backend.String(rec["alt"]),
	}
	if p.ID == "" {
		return p, fmt.Errorf("photo without id")
	}
	if o, ok := backend.Int(rec[backend.OrderField]); ok {
		p.Order = models.IntPtr(o)
	}
	return p, nil
}
