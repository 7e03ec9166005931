package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/records"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// collections the server is willing to expose.
var knownCollections = map[string]bool{
	"photos":          true,
	"timeline_events": true,
	"rsvps":           true,
	"themes":          true,
	"venues":          true,
	"wedding_details": true,
}

func (s *GRPCServer) request(in *structpb.Struct, needID bool) (records.Request, error) {
	req := records.DecodeRequest(in)
	if !knownCollections[req.Collection] {
		return req, status.Errorf(codes.InvalidArgument, "unknown collection %q", req.Collection)
	}
	if needID && req.ID == "" {
		return req, status.Error(codes.InvalidArgument, "missing id")
	}
	return req, nil
}

func (s *GRPCServer) toStatus(ctx context.Context, op string, req records.Request, err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s/%s not found", req.Collection, req.ID)
	case errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, "store error", "op", op, "collection", req.Collection, "id", req.ID, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Ping(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "store ping failed", "error", err)
		return nil, status.Error(codes.Unavailable, "store unavailable")
	}
	return records.PingResponse(s.store.Flavor())
}

func (s *GRPCServer) List(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.request(in, false)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.List(ctx, req.Collection)
	if err != nil {
		return nil, s.toStatus(ctx, "list", req, err)
	}
	out, err := records.EncodeRecords(recs)
	if err != nil {
		return nil, s.toStatus(ctx, "list", req, err)
	}
	return out, nil
}

func (s *GRPCServer) Get(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.request(in, true)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, req.Collection, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, "get", req, err)
	}
	out, err := records.EncodeRecord(rec)
	if err != nil {
		return nil, s.toStatus(ctx, "get", req, err)
	}
	return out, nil
}

func (s *GRPCServer) Insert(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.request(in, false)
	if err != nil {
		return nil, err
	}
	if req.Record == nil {
		return nil, status.Error(codes.InvalidArgument, "missing record")
	}
	rec := req.Record.Clone()
	if req.ID != "" {
		rec[backend.IDField] = req.ID
	}
	if err := s.store.Insert(ctx, req.Collection, rec); err != nil {
		return nil, s.toStatus(ctx, "insert", req, err)
	}
	s.logger.Info(ctx, "record inserted", "collection", req.Collection, "id", rec.ID(), "subject", subjectFrom(ctx))
	return &structpb.Struct{}, nil
}

func (s *GRPCServer) Update(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.request(in, true)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, req.Collection, req.ID, req.Record); err != nil {
		return nil, s.toStatus(ctx, "update", req, err)
	}
	s.logger.Info(ctx, "record updated", "collection", req.Collection, "id", req.ID, "subject", subjectFrom(ctx))
	return &structpb.Struct{}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.request(in, true)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, req.Collection, req.ID); err != nil {
		return nil, s.toStatus(ctx, "delete", req, err)
	}
	s.logger.Info(ctx, "record deleted", "collection", req.Collection, "id", req.ID, "subject", subjectFrom(ctx))
	return &structpb.Struct{}, nil
}
