// Package grpcrecords is a Backend that forwards every call to the hosted
// records server over gRPC.
package grpcrecords

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/records"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type Client struct {
	endpointURL string
	conn        *grpc.ClientConn
	accessToken string
}

// New creates a client for endpointURL. No connection is made until the
// first call. Extra dial options are appended after the defaults.
func New(endpointURL, accessToken string, opts ...grpc.DialOption) (*Client, error) {
	c := &Client{endpointURL: endpointURL, accessToken: accessToken}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *Client) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := c.accessToken; token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// Flavor is relational: the records server fronts the Postgres schema.
func (c *Client) Flavor() backend.Flavor {
	return backend.Relational
}

func (c *Client) invoke(ctx context.Context, method string, req records.Request) (*structpb.Struct, error) {
	in, err := records.EncodeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context) error {
	out, err := c.invoke(ctx, records.MethodPing, records.Request{})
	if err != nil {
		return err
	}
	if st, _ := records.DecodePing(out); st != "OK" {
		return common.ErrUnavailable
	}
	return nil
}

func (c *Client) List(ctx context.Context, collection string) ([]backend.Record, error) {
	out, err := c.invoke(ctx, records.MethodList, records.Request{Collection: collection})
	if err != nil {
		return nil, err
	}
	return records.DecodeRecords(out), nil
}

func (c *Client) Get(ctx context.Context, collection, id string) (backend.Record, error) {
	out, err := c.invoke(ctx, records.MethodGet, records.Request{Collection: collection, ID: id})
	if err != nil {
		return nil, err
	}
	return records.DecodeRecord(out)
}

func (c *Client) Insert(ctx context.Context, collection string, rec backend.Record) error {
	_, err := c.invoke(ctx, records.MethodInsert, records.Request{Collection: collection, ID: rec.ID(), Record: rec})
	return err
}

func (c *Client) Update(ctx context.Context, collection, id string, fields backend.Record) error {
	_, err := c.invoke(ctx, records.MethodUpdate, records.Request{Collection: collection, ID: id, Record: fields})
	return err
}

func (c *Client) Delete(ctx context.Context, collection, id string) error {
	_, err := c.invoke(ctx, records.MethodDelete, records.Request{Collection: collection, ID: id})
	return err
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", st.Message(), common.ErrNotFound)
	case codes.Unauthenticated, codes.PermissionDenied:
		return common.ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
