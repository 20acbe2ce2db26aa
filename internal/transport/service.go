package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// #region service
// ServiceName is the fully qualified gRPC service name.
const ServiceName = "patternrec.v1.Session"

// SessionServer is the remote UI event surface. Requests carry a cell index or
// a rank; replies carry the ranked labels and the query.
type SessionServer interface {
	Toggle(ctx context.Context, in *wrapperspb.Int32Value) (*structpb.Struct, error)
	Correct(ctx context.Context, in *wrapperspb.Int32Value) (*structpb.Struct, error)
	Reset(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	Snapshot(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Toggle", Handler: int32Handler("Toggle", SessionServer.Toggle)},
		{MethodName: "Correct", Handler: int32Handler("Correct", SessionServer.Correct)},
		{MethodName: "Reset", Handler: emptyHandler("Reset", SessionServer.Reset)},
		{MethodName: "Snapshot", Handler: emptyHandler("Snapshot", SessionServer.Snapshot)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "patternrec/v1/session",
}

// RegisterSessionServer attaches srv to a gRPC server.
func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(&serviceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}
// #endregion service

// #region handlers
func int32Handler(method string, call func(SessionServer, context.Context, *wrapperspb.Int32Value) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.Int32Value)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SessionServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(SessionServer), ctx, req.(*wrapperspb.Int32Value))
		})
	}
}

func emptyHandler(method string, call func(SessionServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SessionServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(SessionServer), ctx, req.(*emptypb.Empty))
		})
	}
}
// #endregion handlers
