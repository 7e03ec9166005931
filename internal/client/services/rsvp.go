package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
	"github.com/dmitrijs2005/weddingkeeper/internal/models"
	"github.com/google/uuid"
)

const rsvpCollection = "rsvps"

// RSVPService manages guest replies.
type RSVPService interface {
	List(ctx context.Context) ([]models.GuestRSVP, error)
	Submit(ctx context.Context, r models.NewRSVP) (models.GuestRSVP, error)
	Delete(ctx context.Context, id string) error
}

type RSVPs struct {
	remote backend.Backend
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

func NewRSVPService(remote backend.Backend, l logging.Logger) *RSVPs {
	if l == nil {
		l = logging.Nop{}
	}
	return &RSVPs{remote: remote, logger: l.With("module", "rsvps"), now: time.Now, newID: uuid.NewString}
}

// List returns every reply, newest first.
func (s *RSVPs) List(ctx context.Context) ([]models.GuestRSVP, error) {
	recs, err := s.remote.List(ctx, rsvpCollection)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}

	flavor := s.remote.Flavor()
	out := make([]models.GuestRSVP, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decodeRSVP(flavor, rec))
	}
	slices.SortStableFunc(out, func(a, b models.GuestRSVP) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return out, nil
}

// Submit stores a new reply stamped with the current time.
func (s *RSVPs) Submit(ctx context.Context, r models.NewRSVP) (models.GuestRSVP, error) {
	rsvp := models.GuestRSVP{
		ID:                  s.newID(),
		Name:                r.Name,
		Email:               r.Email,
		Attending:           r.Attending,
		PlusOne:             r.PlusOne,
		DietaryRestrictions: r.DietaryRestrictions,
		Message:             r.Message,
		Timestamp:           s.now().UnixMilli(),
	}

	if err := s.remote.Insert(ctx, rsvpCollection, encodeRSVP(s.remote.Flavor(), rsvp)); err != nil {
		return models.GuestRSVP{}, &common.RemoteWriteError{Op: "create", Collection: rsvpCollection, ID: rsvp.ID, Err: err}
	}
	s.logger.Info(ctx, "rsvp submitted", "id", rsvp.ID, "attending", rsvp.Attending)
	return rsvp, nil
}

func (s *RSVPs) Delete(ctx context.Context, id string) error {
	if err := s.remote.Delete(ctx, rsvpCollection, id); err != nil {
		return &common.RemoteWriteError{Op: "delete", Collection: rsvpCollection, ID: id, Err: err}
	}
	return nil
}

// rsvpFields names the fields whose spelling depends on the flavor.
func rsvpFields(f backend.Flavor) (plusOne, dietary string) {
	if f == backend.Document {
		return "plusOne", "dietaryRestrictions"
	}
	return "plus_one", "dietary_restrictions"
}

func encodeRSVP(f backend.Flavor, r models.GuestRSVP) backend.Record {
	plusOne, dietary := rsvpFields(f)
	return backend.Record{
		backend.IDField: r.ID,
		"name":          r.Name,
		"email":         r.Email,
		"attending":     r.Attending,
		plusOne:         r.PlusOne,
		dietary:         r.DietaryRestrictions,
		"message":       r.Message,
		"timestamp":     r.Timestamp,
	}
}

func decodeRSVP(f backend.Flavor, rec backend.Record) models.GuestRSVP {
	plusOne, dietary := rsvpFields(f)
	ts, _ := backend.Int64(rec["timestamp"])
	return models.GuestRSVP{
		ID:                  rec.ID(),
		Name:                backend.String(rec["name"]),
		Email:               backend.String(rec["email"]),
		Attending:           backend.Bool(rec["attending"]),
		PlusOne:             backend.Bool(rec[plusOne]),
		DietaryRestrictions: backend.String(rec[dietary]),
		Message:             backend.String(rec["message"]),
		Timestamp:           ts,
	}
}
