package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
	"github.com/google/uuid"
)

// Initializer creates the default settings records on a fresh backend.
type Initializer struct {
	remote backend.Backend
	logger logging.Logger
	newID  func() string
}

func NewInitializer(remote backend.Backend, l logging.Logger) *Initializer {
	if l == nil {
		l = logging.Nop{}
	}
	return &Initializer{remote: remote, logger: l.With("module", "initializer"), newID: uuid.NewString}
}

// Initialize fills in whatever default records are missing and reports
// whether it created anything. Existing records are never touched.
//
// Relational backends get one default row in each of themes, venues and
// wedding_details. Document backends get the settings document with all
// three defaults plus the default timeline, but only when the settings
// document does not exist yet.
func (i *Initializer) Initialize(ctx context.Context) (bool, error) {
	if i.remote.Flavor() == backend.Document {
		return i.initDocument(ctx)
	}
	return i.initRelational(ctx)
}

func (i *Initializer) initRelational(ctx context.Context) (bool, error) {
	defaults := []struct {
		table string
		row   backend.Record
	}{
		{themeCodec.table, themeCodec.toRow(DefaultTheme)},
		{venueCodec.table, venueCodec.toRow(DefaultVenue)},
		{detailsCodec.table, detailsCodec.toRow(DefaultDetails)},
	}

	created := false
	for _, d := range defaults {
		rows, err := i.remote.List(ctx, d.table)
		if err != nil {
			return created, fmt.Errorf("check %s: %w", d.table, err)
		}
		if len(rows) > 0 {
			continue
		}

		row := d.row.Clone()
		row[backend.IDField] = i.newID()
		if err := i.remote.Insert(ctx, d.table, row); err != nil {
			return created, fmt.Errorf("create default %s: %w", d.table, err)
		}
		i.logger.Info(ctx, "created default record", "table", d.table)
		created = true
	}
	return created, nil
}

func (i *Initializer) initDocument(ctx context.Context) (bool, error) {
	_, err := i.remote.Get(ctx, settingsCollection, settingsID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return false, fmt.Errorf("check settings: %w", err)
	}

	settings := backend.Record{
		backend.IDField:    settingsID,
		themeCodec.field:   themeCodec.toDoc(DefaultTheme),
		venueCodec.field:   venueCodec.toDoc(DefaultVenue),
		detailsCodec.field: detailsCodec.toDoc(DefaultDetails),
	}
	if err := i.remote.Insert(ctx, settingsCollection, settings); err != nil {
		return false, fmt.Errorf("create settings: %w", err)
	}
	i.logger.Info(ctx, "created default settings document")

	collection := timelineCollection(backend.Document)
	for _, e := range SeedTimeline() {
		e.ID = i.newID()
		if err := i.remote.Insert(ctx, collection, encodeTimelineEvent(backend.Document, e)); err != nil {
			return true, fmt.Errorf("create default timeline: %w", err)
		}
	}
	return true, nil
}
