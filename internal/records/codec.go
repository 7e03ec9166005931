package records

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fieldCollection = "collection"
	fieldID         = "id"
	fieldRecord     = "record"
	fieldRecords    = "records"
	fieldStatus     = "status"
	fieldFlavor     = "flavor"
)

// Request is the decoded form of every request message.
type Request struct {
	Collection string
	ID         string
	Record     backend.Record
}

func EncodeRequest(r Request) (*structpb.Struct, error) {
	m := map[string]any{fieldCollection: r.Collection}
	if r.ID != "" {
		m[fieldID] = r.ID
	}
	if r.Record != nil {
		m[fieldRecord] = plain(r.Record)
	}
	return structpb.NewStruct(m)
}

func DecodeRequest(s *structpb.Struct) Request {
	m := s.AsMap()
	r := Request{
		Collection: backend.String(m[fieldCollection]),
		ID:         backend.String(m[fieldID]),
	}
	if rec := backend.Map(m[fieldRecord]); rec != nil {
		r.Record = backend.Record(rec)
	}
	return r
}

func EncodeRecord(rec backend.Record) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{fieldRecord: plain(rec)})
}

func DecodeRecord(s *structpb.Struct) (backend.Record, error) {
	rec := backend.Map(s.AsMap()[fieldRecord])
	if rec == nil {
		return nil, fmt.Errorf("response has no record")
	}
	return backend.Record(rec), nil
}

func EncodeRecords(recs []backend.Record) (*structpb.Struct, error) {
	list := make([]any, len(recs))
	for i, r := range recs {
		list[i] = plain(r)
	}
	return structpb.NewStruct(map[string]any{fieldRecords: list})
}

func DecodeRecords(s *structpb.Struct) []backend.Record {
	raw, _ := s.AsMap()[fieldRecords].([]any)
	out := make([]backend.Record, 0, len(raw))
	for _, v := range raw {
		if m := backend.Map(v); m != nil {
			out = append(out, backend.Record(m))
		}
	}
	return out
}

// PingResponse carries the server status and the flavor of its store.
func PingResponse(flavor backend.Flavor) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{fieldStatus: "OK", fieldFlavor: flavor.String()})
}

// DecodePing returns the status and flavor reported by Ping.
func DecodePing(s *structpb.Struct) (status, flavor string) {
	m := s.AsMap()
	return backend.String(m[fieldStatus]), backend.String(m[fieldFlavor])
}

// plain rewrites v into the types structpb.NewValue accepts.
func plain(v any) any {
	switch t := v.(type) {
	case backend.Record:
		return plain(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = plain(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = plain(v)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = v
		}
		return out
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case json.Number:
		f, _ := t.Float64()
		return f
	default:
		return v
	}
}
