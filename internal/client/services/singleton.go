package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
	"github.com/dmitrijs2005/weddingkeeper/internal/models"
)

// Document backends keep all three singletons in one document.
const (
	settingsCollection = "weddingData"
	settingsID         = "settings"
)

// SingletonService reads and writes one settings record. There is no
// local fallback: read errors reach the caller.
type SingletonService[T any] interface {
	Get(ctx context.Context) (T, error)
	Update(ctx context.Context, v T) error
}

// singletonCodec maps one settings record to both flavors: a table with
// one row, or a field of the settings document.
type singletonCodec[T any] struct {
	name  string
	table string
	field string

	toRow   func(T) backend.Record
	fromRow func(backend.Record) T
	toDoc   func(T) map[string]any
	fromDoc func(map[string]any) T
}

type Singleton[T any] struct {
	codec  singletonCodec[T]
	remote backend.Backend
	logger logging.Logger
}

func newSingleton[T any](codec singletonCodec[T], remote backend.Backend, l logging.Logger) *Singleton[T] {
	if l == nil {
		l = logging.Nop{}
	}
	return &Singleton[T]{codec: codec, remote: remote, logger: l.With("module", codec.name)}
}

func (s *Singleton[T]) notFound() error {
	return &common.NotFoundError{Resource: s.codec.name}
}

// Get returns the record. A missing row or document field yields an error
// matching common.ErrNotFound.
func (s *Singleton[T]) Get(ctx context.Context) (T, error) {
	var zero T

	if s.remote.Flavor() == backend.Document {
		doc, err := s.remote.Get(ctx, settingsCollection, settingsID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return zero, s.notFound()
			}
			return zero, fmt.Errorf("get %s: %w", s.codec.name, err)
		}
		field := backend.Map(doc[s.codec.field])
		if field == nil {
			return zero, s.notFound()
		}
		return s.codec.fromDoc(field), nil
	}

	row, err := s.firstRow(ctx)
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", s.codec.name, err)
	}
	if row == nil {
		return zero, s.notFound()
	}
	return s.codec.fromRow(row), nil
}

// Update overwrites the record. Every failure, including a missing
// record, is a *common.RemoteWriteError.
func (s *Singleton[T]) Update(ctx context.Context, v T) error {
	if s.remote.Flavor() == backend.Document {
		err := s.remote.Update(ctx, settingsCollection, settingsID, backend.Record{s.codec.field: s.codec.toDoc(v)})
		if err != nil {
			return &common.RemoteWriteError{Op: "update", Collection: s.codec.name, ID: settingsID, Err: err}
		}
		return nil
	}

	row, err := s.firstRow(ctx)
	if err != nil {
		return &common.RemoteWriteError{Op: "update", Collection: s.codec.name, Err: err}
	}
	if row == nil {
		return &common.RemoteWriteError{Op: "update", Collection: s.codec.name, Err: s.notFound()}
	}
	id := row.ID()
	if err := s.remote.Update(ctx, s.codec.table, id, s.codec.toRow(v)); err != nil {
		return &common.RemoteWriteError{Op: "update", Collection: s.codec.name, ID: id, Err: err}
	}
	s.logger.Info(ctx, "settings updated", "id", id)
	return nil
}

func (s *Singleton[T]) firstRow(ctx context.Context) (backend.Record, error) {
	rows, err := s.remote.List(ctx, s.codec.table)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

var themeCodec = singletonCodec[models.ThemeColors]{
	name:  "theme",
	table: "themes",
	field: "theme",
	toRow: func(t models.ThemeColors) backend.Record {
		return backend.Record{
			"primary_color":    t.Primary,
			"secondary_color":  t.Secondary,
			"accent_color":     t.Accent,
			"background_color": t.Background,
			"text_color":       t.Text,
		}
	},
	fromRow: func(r backend.Record) models.ThemeColors {
		return models.ThemeColors{
			Primary:    backend.String(r["primary_color"]),
			Secondary:  backend.String(r["secondary_color"]),
			Accent:     backend.String(r["accent_color"]),
			Background: backend.String(r["background_color"]),
			Text:       backend.String(r["text_color"]),
		}
	},
	toDoc: func(t models.ThemeColors) map[string]any {
		return map[string]any{
			"primary":    t.Primary,
			"secondary":  t.Secondary,
			"accent":     t.Accent,
			"background": t.Background,
			"text":       t.Text,
		}
	},
	fromDoc: func(m map[string]any) models.ThemeColors {
		return models.ThemeColors{
			Primary:    backend.String(m["primary"]),
			Secondary:  backend.String(m["secondary"]),
			Accent:     backend.String(m["accent"]),
			Background: backend.String(m["background"]),
			Text:       backend.String(m["text"]),
		}
	},
}

var venueCodec = singletonCodec[models.VenueInfo]{
	name:  "venue",
	table: "venues",
	field: "venue",
	toRow: func(v models.VenueInfo) backend.Record {
		return backend.Record{"name": v.Name, "address": v.Address, "maps_url": v.MapsURL}
	},
	fromRow: func(r backend.Record) models.VenueInfo {
		return models.VenueInfo{
			Name:    backend.String(r["name"]),
			Address: backend.String(r["address"]),
			MapsURL: backend.String(r["maps_url"]),
		}
	},
	toDoc: func(v models.VenueInfo) map[string]any {
		return map[string]any{"name": v.Name, "address": v.Address, "mapsUrl": v.MapsURL}
	},
	fromDoc: func(m map[string]any) models.VenueInfo {
		return models.VenueInfo{
			Name:    backend.String(m["name"]),
			Address: backend.String(m["address"]),
			MapsURL: backend.String(m["mapsUrl"]),
		}
	},
}

var detailsCodec = singletonCodec[models.WeddingDetails]{
	name:  "details",
	table: "wedding_details",
	field: "details",
	toRow: func(d models.WeddingDetails) backend.Record {
		return backend.Record{
			"groom_name":   d.GroomName,
			"bride_name":   d.BrideName,
			"wedding_date": d.WeddingDate,
			"story":        d.Story,
		}
	},
	fromRow: func(r backend.Record) models.WeddingDetails {
		return models.WeddingDetails{
			GroomName:   backend.String(r["groom_name"]),
			BrideName:   backend.String(r["bride_name"]),
			WeddingDate: backend.String(r["wedding_date"]),
			Story:       backend.String(r["story"]),
		}
	},
	toDoc: func(d models.WeddingDetails) map[string]any {
		return map[string]any{
			"groomName":   d.GroomName,
			"brideName":   d.BrideName,
			"weddingDate": d.WeddingDate,
			"story":       d.Story,
		}
	},
	fromDoc: func(m map[string]any) models.WeddingDetails {
		return models.WeddingDetails{
			GroomName:   backend.String(m["groomName"]),
			BrideName:   backend.String(m["brideName"]),
			WeddingDate: backend.String(m["weddingDate"]),
			Story:       backend.String(m["story"]),
		}
	},
}

type (
	ThemeService   = SingletonService[models.ThemeColors]
	VenueService   = SingletonService[models.VenueInfo]
	DetailsService = SingletonService[models.WeddingDetails]
)

func NewThemeService(remote backend.Backend, l logging.Logger) *Singleton[models.ThemeColors] {
	return newSingleton(themeCodec, remote, l)
}

func NewVenueService(remote backend.Backend, l logging.Logger) *Singleton[models.VenueInfo] {
	return newSingleton(venueCodec, remote, l)
}

func NewDetailsService(remote backend.Backend, l logging.Logger) *Singleton[models.WeddingDetails] {
	return newSingleton(detailsCodec, remote, l)
}
