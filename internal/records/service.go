// Package records describes the Records gRPC service shared by the hosted
// records server and its client adapter.
//
// The service has no generated stubs: every method takes and returns a
// google.protobuf.Struct, so the wire format is the same loosely typed
// record map the backends use. Requests look like
//
//	{"collection": "photos", "id": "…", "record": {…}}
//
// and List responds with {"records": [{…}, …]}.
package records

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "weddingkeeper.records.v1.Records"

const (
	MethodPing   = "/" + ServiceName + "/Ping"
	MethodList   = "/" + ServiceName + "/List"
	MethodGet    = "/" + ServiceName + "/Get"
	MethodInsert = "/" + ServiceName + "/Insert"
	MethodUpdate = "/" + ServiceName + "/Update"
	MethodDelete = "/" + ServiceName + "/Delete"
)

// Server is implemented by the records server.
type Server interface {
	Ping(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	List(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Get(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Insert(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Update(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Delete(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type method func(Server, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call method) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(Server), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(Server), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", Server.Ping),
		unary("List", Server.List),
		unary("Get", Server.Get),
		unary("Insert", Server.Insert),
		unary("Update", Server.Update),
		unary("Delete", Server.Delete),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "weddingkeeper/records/v1/records.proto",
}

func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&ServiceDesc, srv)
}

// IsMutation reports whether fullMethod changes stored data.
func IsMutation(fullMethod string) bool {
	switch fullMethod {
	case MethodInsert, MethodUpdate, MethodDelete:
		return true
	default:
		return false
	}
}
