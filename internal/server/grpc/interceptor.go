package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/records"
	"github.com/dmitrijs2005/weddingkeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type ctxKey string

const SubjectKey ctxKey = "subject"

func subjectFrom(ctx context.Context) string {
	s, _ := ctx.Value(SubjectKey).(string)
	return s
}

// requiresToken decides which calls need an admin token: every mutation
// except a guest submitting an RSVP, and any read of the guest list.
func requiresToken(fullMethod string, req any) bool {
	var collection string
	if in, ok := req.(*structpb.Struct); ok && in != nil {
		collection = records.DecodeRequest(in).Collection
	}

	if records.IsMutation(fullMethod) {
		return !(fullMethod == records.MethodInsert && collection == "rsvps")
	}
	return collection == "rsvps"
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !requiresToken(info.FullMethod, req) {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	subject, err := auth.SubjectFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	ctx = context.WithValue(ctx, SubjectKey, subject)
	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "rpc", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}
