// Package grpcserver exposes the cross service over gRPC. The service
// descriptor and client are written by hand against the wire package;
// both sides force the simplecross codec.
package grpcserver

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"simplecross/api/wire"
	"simplecross/service"
)

const ServiceName = "simplecross.Cross"

// Server adapts CrossService to the Cross gRPC service.
type Server struct {
	svc *service.CrossService
	log *zap.Logger
}

func NewServer(svc *service.CrossService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, log: log}
}

func (s *Server) Apply(ctx context.Context, req *wire.ApplyRequest) (*wire.ApplyResponse, error) {
	lines := s.svc.Apply(req.Line)
	s.log.Debug("apply",
		zap.String("line", req.Line),
		zap.Int("results", len(lines)),
	)
	return &wire.ApplyResponse{Lines: lines}, nil
}

func (s *Server) GetBook(ctx context.Context, req *wire.BookRequest) (*wire.BookResponse, error) {
	return &wire.BookResponse{
		Seq:   s.svc.InputSeq(),
		Lines: s.svc.Apply("P"),
	}, nil
}

// Register attaches the Cross service to a grpc.Server.
func Register(gs *grpc.Server, srv *Server) {
	gs.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CrossServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Apply", Handler: applyHandler},
		{MethodName: "GetBook", Handler: getBookHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/cross.proto",
}

// CrossServer is the handler contract checked by the descriptor.
type CrossServer interface {
	Apply(context.Context, *wire.ApplyRequest) (*wire.ApplyResponse, error)
	GetBook(context.Context, *wire.BookRequest) (*wire.BookResponse, error)
}

func applyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wire.ApplyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CrossServer).Apply(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Apply"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CrossServer).Apply(ctx, req.(*wire.ApplyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getBookHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wire.BookRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CrossServer).GetBook(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetBook"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CrossServer).GetBook(ctx, req.(*wire.BookRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is a thin hand-written client for the Cross service.
type Client struct {
	cc *grpc.ClientConn
}

func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc}
}

func (c *Client) Apply(ctx context.Context, line string) ([]string, error) {
	out := new(wire.ApplyResponse)
	err := c.cc.Invoke(ctx, "/"+ServiceName+"/Apply",
		&wire.ApplyRequest{Line: line}, out, grpc.ForceCodec(wire.Codec{}))
	if err != nil {
		return nil, err
	}
	return out.Lines, nil
}

func (c *Client) GetBook(ctx context.Context) (*wire.BookResponse, error) {
	out := new(wire.BookResponse)
	err := c.cc.Invoke(ctx, "/"+ServiceName+"/GetBook",
		&wire.BookRequest{}, out, grpc.ForceCodec(wire.Codec{}))
	if err != nil {
		return nil, err
	}
	return out, nil
}
