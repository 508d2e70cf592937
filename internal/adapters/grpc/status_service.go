package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	statusServiceName = "colony.v1.DaemonStatus"
	getStatusMethod   = "/" + statusServiceName + "/GetStatus"
)

// statusServer is the server API of the status service. Messages are
// well-known protobuf types, so no generated code is needed.
type statusServer interface {
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

var statusServiceDesc = grpc.ServiceDesc{
	ServiceName: statusServiceName,
	HandlerType: (*statusServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStatus", Handler: getStatusHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "colony/v1/status",
}

func registerStatusServer(s grpc.ServiceRegistrar, srv statusServer) {
	s.RegisterService(&statusServiceDesc, srv)
}

func getStatusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(statusServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getStatusMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(statusServer).GetStatus(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

type statusService struct {
	provider StatusProvider
}

func (s *statusService) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if s.provider == nil {
		return nil, status.Error(codes.Unavailable, "colony is not running")
	}
	out, err := statusToStruct(s.provider.Status())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode status: %v", err)
	}
	return out, nil
}
