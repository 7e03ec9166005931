package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/backend/memory"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
	"github.com/dmitrijs2005/weddingkeeper/internal/records"
	"github.com/dmitrijs2005/weddingkeeper/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const testSecret = "test-secret"

func newTestServer() *GRPCServer {
	return NewGRPCServer(":0", logging.Nop{}, memory.New(backend.Relational), testSecret)
}

func req(t *testing.T, collection string) *structpb.Struct {
	t.Helper()
	in, err := records.EncodeRequest(records.Request{Collection: collection})
	require.NoError(t, err)
	return in
}

func TestRequiresToken(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		collection string
		want       bool
	}{
		{"ping", records.MethodPing, "", false},
		{"list photos", records.MethodList, "photos", false},
		{"get theme", records.MethodGet, "themes", false},
		{"list rsvps", records.MethodList, "rsvps", true},
		{"get rsvp", records.MethodGet, "rsvps", true},
		{"insert photo", records.MethodInsert, "photos", true},
		{"update theme", records.MethodUpdate, "themes", true},
		{"delete rsvp", records.MethodDelete, "rsvps", true},
		{"guest rsvp", records.MethodInsert, "rsvps", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, requiresToken(tt.method, req(t, tt.collection)))
		})
	}
}

func TestAccessTokenInterceptor(t *testing.T) {
	s := newTestServer()

	valid, err := auth.GenerateToken("admin", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	expired, err := auth.GenerateToken("admin", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken("admin", []byte("other"), time.Hour)
	require.NoError(t, err)

	info := &grpc.UnaryServerInfo{FullMethod: records.MethodDelete}

	tests := []struct {
		name     string
		token    string
		wantCode codes.Code
		wantMsg  string
	}{
		{"missing", "", codes.Unauthenticated, "missing token"},
		{"expired", expired, codes.Unauthenticated, common.ErrTokenExpired.Error()},
		{"wrong secret", foreign, codes.Unauthenticated, common.ErrInvalidToken.Error()},
		{"garbage", "not-a-jwt", codes.Unauthenticated, common.ErrInvalidToken.Error()},
		{"valid", valid, codes.OK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.token != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs(common.AccessTokenHeaderName, tt.token))
			}

			var gotSubject string
			handler := func(ctx context.Context, _ any) (any, error) {
				gotSubject = subjectFrom(ctx)
				return "ok", nil
			}

			resp, err := s.accessTokenInterceptor(ctx, req(t, "photos"), info, handler)
			if tt.wantCode == codes.OK {
				require.NoError(t, err)
				assert.Equal(t, "ok", resp)
				assert.Equal(t, "admin", gotSubject)
				return
			}
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
			assert.Empty(t, gotSubject, "handler must not run")
		})
	}
}

func TestAccessTokenInterceptor_PublicCallPassesThrough(t *testing.T) {
	s := newTestServer()
	info := &grpc.UnaryServerInfo{FullMethod: records.MethodInsert}

	called := false
	_, err := s.accessTokenInterceptor(context.Background(), req(t, "rsvps"), info, func(ctx context.Context, _ any) (any, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
