package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/mirror"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
	"github.com/dmitrijs2005/weddingkeeper/internal/models"
)

// TimelineService manages the wedding-day schedule.
type TimelineService interface {
	List(ctx context.Context) []models.TimelineEvent
	Add(ctx context.Context, e models.NewTimelineEvent) (models.TimelineEvent, error)
	Update(ctx context.Context, e models.TimelineEvent) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, events []models.TimelineEvent) ([]models.TimelineEvent, error)
	Cached(ctx context.Context) []models.TimelineEvent
	Drop(ctx context.Context)
}

var TimelineKind = Kind[models.TimelineEvent]{
	Name:      "timeline",
	MirrorKey: common.TimelineMirrorKey,
	Remote:    timelineCollection,
	ID:        func(e models.TimelineEvent) string { return e.ID },
	SetID:     func(e *models.TimelineEvent, id string) { e.ID = id },
	Order:     func(e models.TimelineEvent) (int, bool) { return e.Order, true },
	SetOrder:  func(e *models.TimelineEvent, o int) { e.Order = o },
	Seed:      SeedTimeline,
	Encode:    encodeTimelineEvent,
	Decode:    decodeTimelineEvent,
}

type Timeline struct {
	*Collection[models.TimelineEvent]
}

func NewTimelineService(remote backend.Backend, oracle connectivity.Oracle, store mirror.Store, l logging.Logger) *Timeline {
	return &Timeline{Collection: NewCollection(TimelineKind, remote, oracle, store, l)}
}

// Add appends an event to the end of the schedule.
func (s *Timeline) Add(ctx context.Context, e models.NewTimelineEvent) (models.TimelineEvent, error) {
	return s.Create(ctx, models.TimelineEvent{
		Title:       e.Title,
		Time:        e.Time,
		Description: e.Description,
	})
}

func timelineCollection(f backend.Flavor) string {
	if f == backend.Document {
		return "timeline"
	}
	return "timeline_events"
}

func encodeTimelineEvent(_ backend.Flavor, e models.TimelineEvent) backend.Record {
	return backend.Record{
		backend.IDField:    e.ID,
		"title":            e.Title,
		"time":             e.Time,
		"description":      e.Description,
		backend.OrderField: e.Order,
	}
}

func decodeTimelineEvent(_ backend.Flavor, rec backend.Record) (models.TimelineEvent, error) {
	e := models.TimelineEvent{
		ID:          rec.ID(),
		Title:       backend.String(rec["title"]),
		Time:        backend.String(rec["time"]),
		Description: backend.String(rec["description"]),
	}
	if e.ID == "" {
		return e, fmt.Errorf("timeline event without id")
	}
	e.Order, _ = backend.Int(rec[backend.OrderField])
	return e, nil
}
