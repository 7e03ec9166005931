// Package services contains the data-access services of the wedding site
// client. Photos and timeline are mirrored collections: reads fall back to
// the local mirror and then to a built-in seed, writes go to the mirror and,
// when online, to the backend. Theme, venue, details and RSVPs talk to the
// backend only.
package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/mirror"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
	"github.com/google/uuid"
)

// Kind describes one mirrored collection to Collection.
type Kind[T any] struct {
	// Name is used in errors and logs.
	Name      string
	MirrorKey string

	// Remote returns the backend collection name for a flavor.
	Remote func(backend.Flavor) string

	ID       func(T) string
	SetID    func(*T, string)
	Order    func(T) (int, bool)
	SetOrder func(*T, int)

	// Seed is served when offline with an empty mirror.
	Seed func() []T

	Encode func(backend.Flavor, T) backend.Record
	Decode func(backend.Flavor, backend.Record) (T, error)
}

// Collection implements the offline-mirror policy once for every
// mirrored collection.
type Collection[T any] struct {
	kind   Kind[T]
	remote backend.Backend
	oracle connectivity.Oracle
	mirror *mirror.Mirror[T]
	logger logging.Logger
	newID  func() string
}

func NewCollection[T any](kind Kind[T], remote backend.Backend, oracle connectivity.Oracle, store mirror.Store, l logging.Logger) *Collection[T] {
	if l == nil {
		l = logging.Nop{}
	}
	l = l.With("module", "collection", "collection", kind.Name)
	return &Collection[T]{
		kind:   kind,
		remote: remote,
		oracle: oracle,
		mirror: mirror.New[T](store, kind.MirrorKey, l),
		logger: l,
		newID:  uuid.NewString,
	}
}

func (c *Collection[T]) collection() string {
	return c.kind.Remote(c.remote.Flavor())
}

func (c *Collection[T]) order(item T) int {
	o, _ := c.kind.Order(item)
	return o
}

// Offline reports the oracle's current answer.
func (c *Collection[T]) Offline() bool {
	return c.oracle.IsOffline()
}

// List returns the collection in display order. It never fails: offline,
// or when the backend cannot be read, it serves the mirror, and an empty
// mirror is replaced by the seed.
func (c *Collection[T]) List(ctx context.Context) []T {
	if c.oracle.IsOffline() {
		return c.cached(ctx)
	}

	items, err := c.fetch(ctx)
	if err != nil {
		rerr := &common.RemoteReadError{Collection: c.kind.Name, Err: err}
		c.logger.Warn(ctx, "remote read failed, serving local copy", "error", rerr)
		return c.cached(ctx)
	}

	c.mirror.Save(ctx, items)
	return items
}

// Cached returns the mirror snapshot as is, without the seed.
func (c *Collection[T]) Cached(ctx context.Context) []T {
	return c.mirror.Load(ctx)
}

// Lookup finds id in the mirror.
func (c *Collection[T]) Lookup(ctx context.Context, id string) (T, bool) {
	for _, item := range c.mirror.Load(ctx) {
		if c.kind.ID(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Fetch reads one record from the backend.
func (c *Collection[T]) Fetch(ctx context.Context, id string) (T, error) {
	var zero T
	rec, err := c.remote.Get(ctx, c.collection(), id)
	if err != nil {
		return zero, err
	}
	return c.kind.Decode(c.remote.Flavor(), rec)
}

// Drop forgets the mirror snapshot.
func (c *Collection[T]) Drop(ctx context.Context) {
	c.mirror.Drop(ctx)
}

func (c *Collection[T]) cached(ctx context.Context) []T {
	items := c.mirror.Load(ctx)
	if len(items) == 0 {
		c.logger.Debug(ctx, "mirror is empty, serving seed")
		return c.kind.Seed()
	}
	return items
}

func (c *Collection[T]) fetch(ctx context.Context) ([]T, error) {
	recs, err := c.remote.List(ctx, c.collection())
	if err != nil {
		return nil, err
	}

	flavor := c.remote.Flavor()
	items := make([]T, 0, len(recs))
	for _, rec := range recs {
		item, err := c.kind.Decode(flavor, rec)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.kind.Name, rec.ID(), err)
		}
		items = append(items, item)
	}

	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(c.order(a), c.order(b))
	})
	return items, nil
}

// nextOrder is one past the highest order in items, or 0 when empty.
func (c *Collection[T]) nextOrder(items []T) int {
	if len(items) == 0 {
		return 0
	}
	highest := c.order(items[0])
	for _, item := range items[1:] {
		highest = max(highest, c.order(item))
	}
	return highest + 1
}

// attachFunc runs after the new item has its id and order and before it is
// stored anywhere. Offline it must not reach the network.
type attachFunc[T any] func(ctx context.Context, item *T, offline bool) error

// Create assigns a fresh id and the next order to item and stores it.
// Online, the backend insert happens first and a failure leaves the mirror
// untouched.
func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	return c.create(ctx, item, nil)
}

func (c *Collection[T]) create(ctx context.Context, item T, attach attachFunc[T]) (T, error) {
	var zero T
	id := c.newID()
	c.kind.SetID(&item, id)

	offline := c.oracle.IsOffline()

	var existing []T
	if offline {
		existing = c.mirror.Load(ctx)
	} else {
		var err error
		existing, err = c.fetch(ctx)
		if err != nil {
			c.logger.Warn(ctx, "remote read failed, ordering against local copy", "error", err)
			existing = c.mirror.Load(ctx)
		}
	}
	c.kind.SetOrder(&item, c.nextOrder(existing))

	if attach != nil {
		if err := attach(ctx, &item, offline); err != nil {
			return zero, &common.RemoteWriteError{Op: "create", Collection: c.kind.Name, ID: id, Err: err}
		}
	}

	if !offline {
		if err := c.remote.Insert(ctx, c.collection(), c.kind.Encode(c.remote.Flavor(), item)); err != nil {
			return zero, &common.RemoteWriteError{Op: "create", Collection: c.kind.Name, ID: id, Err: err}
		}
	}

	c.mirror.Save(ctx, append(c.mirror.Load(ctx), item))
	c.logger.Info(ctx, "item created", "id", id, "offline", offline)
	return item, nil
}

// Update replaces the item with the same id in the mirror, then, online,
// writes it to the backend. An id missing from the mirror leaves the mirror
// as it is.
func (c *Collection[T]) Update(ctx context.Context, item T) error {
	id := c.kind.ID(item)

	items := c.mirror.Load(ctx)
	for i := range items {
		if c.kind.ID(items[i]) == id {
			items[i] = item
		}
	}
	c.mirror.Save(ctx, items)

	if c.oracle.IsOffline() {
		return nil
	}

	fields := c.kind.Encode(c.remote.Flavor(), item)
	delete(fields, backend.IDField)
	if err := c.remote.Update(ctx, c.collection(), id, fields); err != nil {
		return &common.RemoteWriteError{Op: "update", Collection: c.kind.Name, ID: id, Err: err}
	}
	return nil
}

// Delete removes id from the mirror, then, online, from the backend.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.forget(ctx, id)

	if c.oracle.IsOffline() {
		return nil
	}
	return c.deleteRemote(ctx, id)
}

func (c *Collection[T]) forget(ctx context.Context, id string) {
	items := c.mirror.Load(ctx)
	kept := slices.DeleteFunc(items, func(item T) bool { return c.kind.ID(item) == id })
	c.mirror.Save(ctx, kept)
}

func (c *Collection[T]) deleteRemote(ctx context.Context, id string) error {
	if err := c.remote.Delete(ctx, c.collection(), id); err != nil {
		return &common.RemoteWriteError{Op: "delete", Collection: c.kind.Name, ID: id, Err: err}
	}
	return nil
}

// Reorder stores items in the given order, renumbered from 0. Online the
// new orders are written to the backend, in one batch when the backend
// supports it. On failure the returned RemoteWriteError has Resync set and
// the caller should List again.
func (c *Collection[T]) Reorder(ctx context.Context, items []T) ([]T, error) {
	ordered := make([]T, len(items))
	ids := make([]string, len(items))
	for i, item := range items {
		c.kind.SetOrder(&item, i)
		ordered[i] = item
		ids[i] = c.kind.ID(item)
	}
	c.mirror.Save(ctx, ordered)

	if c.oracle.IsOffline() {
		return ordered, nil
	}

	collection := c.collection()
	if b, ok := c.remote.(backend.OrderBatcher); ok {
		if err := b.UpdateOrders(ctx, collection, ids); err != nil {
			return ordered, &common.RemoteWriteError{Op: "reorder", Collection: c.kind.Name, Resync: true, Err: err}
		}
		return ordered, nil
	}

	for i, id := range ids {
		if err := c.remote.Update(ctx, collection, id, backend.Record{backend.OrderField: i}); err != nil {
			return ordered, &common.RemoteWriteError{Op: "reorder", Collection: c.kind.Name, ID: id, Resync: true, Err: err}
		}
	}
	return ordered, nil
}
