// Package grpc serves the Records service over a Backend.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
	"github.com/dmitrijs2005/weddingkeeper/internal/records"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address   string
	store     backend.Backend
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, store backend.Backend, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		store:     store,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer builds a *grpc.Server with the interceptors and the Records
// service registered, without listening.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor)}, opts...)
	srv := grpc.NewServer(opts...)
	records.RegisterServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	return srv.Serve(listen)
}
