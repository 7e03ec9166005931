// Package backend defines the narrow contract the data-access services use
// to reach the hosted store, independent of whether that store is
// document-shaped or row-shaped.
//
// Records are plain maps. Field names follow the adapter's Flavor: the
// services translate between their models and the flavor's naming
// (plusOne vs plus_one, nested settings document vs one table per record).
package backend

import (
	"context"
	"fmt"
)

// Flavor is the data shape of a backend.
type Flavor int

const (
	// Relational backends keep one table per collection and snake_case columns.
	Relational Flavor = iota
	// Document backends keep camelCase documents and a single settings document.
	Document
)

func (f Flavor) String() string {
	switch f {
	case Relational:
		return "relational"
	case Document:
		return "document"
	default:
		return fmt.Sprintf("flavor(%d)", int(f))
	}
}

// ParseFlavor is the inverse of Flavor.String.
func ParseFlavor(s string) (Flavor, error) {
	switch s {
	case "relational":
		return Relational, nil
	case "document":
		return Document, nil
	default:
		return 0, fmt.Errorf("unknown backend flavor %q", s)
	}
}

// IDField names the identifier field of every record in every flavor.
const IDField = "id"

// Record is one row or document. Nested values must be plain map[string]any
// and []any so that every adapter can serialise them.
type Record map[string]any

// ID returns the record's identifier, or "" if it has none.
func (r Record) ID() string {
	return String(r[IDField])
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Backend is the remote store. Get and Update return an error matching
// common.ErrNotFound when the record does not exist; Delete of a missing
// record succeeds.
type Backend interface {
	Flavor() Flavor
	Ping(ctx context.Context) error
	List(ctx context.Context, collection string) ([]Record, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	Insert(ctx context.Context, collection string, rec Record) error
	Update(ctx context.Context, collection, id string, fields Record) error
	Delete(ctx context.Context, collection, id string) error
}

// OrderBatcher is implemented by backends that can rewrite display orders
// in one atomic step. ids[i] receives order i.
type OrderBatcher interface {
	UpdateOrders(ctx context.Context, collection string, ids []string) error
}

// OrderField is the display-order field shared by photos and timeline.
const OrderField = "order"
