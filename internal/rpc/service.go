package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "blog.BlogService"

// Full method names, as seen by interceptors.
const (
	PingMethod       = "/" + ServiceName + "/Ping"
	RegisterMethod   = "/" + ServiceName + "/Register"
	LoginMethod      = "/" + ServiceName + "/Login"
	ListPostsMethod  = "/" + ServiceName + "/ListPosts"
	CreatePostMethod = "/" + ServiceName + "/CreatePost"
	DeletePostMethod = "/" + ServiceName + "/DeletePost"
)

// BlogServiceServer is implemented by the server.
type BlogServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	ListPosts(context.Context, *ListPostsRequest) (*ListPostsResponse, error)
	CreatePost(context.Context, *CreatePostRequest) (*CreatePostResponse, error)
	DeletePost(context.Context, *DeletePostRequest) (*DeletePostResponse, error)
}

// UnimplementedBlogServiceServer answers every method with codes.Unimplemented.
// Embed it to stay source compatible when methods are added.
type UnimplementedBlogServiceServer struct{}

func (UnimplementedBlogServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedBlogServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

func (UnimplementedBlogServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedBlogServiceServer) ListPosts(context.Context, *ListPostsRequest) (*ListPostsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPosts not implemented")
}

func (UnimplementedBlogServiceServer) CreatePost(context.Context, *CreatePostRequest) (*CreatePostResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreatePost not implemented")
}

func (UnimplementedBlogServiceServer) DeletePost(context.Context, *DeletePostRequest) (*DeletePostResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeletePost not implemented")
}

// unaryHandler adapts one typed server method to a grpc method handler,
// decoding the request and running the interceptor chain.
func unaryHandler[Req, Resp any](fullMethod string, call func(BlogServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BlogServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BlogServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc is the grpc.ServiceDesc for blog.BlogService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BlogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(PingMethod, BlogServiceServer.Ping)},
		{MethodName: "Register", Handler: unaryHandler(RegisterMethod, BlogServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(LoginMethod, BlogServiceServer.Login)},
		{MethodName: "ListPosts", Handler: unaryHandler(ListPostsMethod, BlogServiceServer.ListPosts)},
		{MethodName: "CreatePost", Handler: unaryHandler(CreatePostMethod, BlogServiceServer.CreatePost)},
		{MethodName: "DeletePost", Handler: unaryHandler(DeletePostMethod, BlogServiceServer.DeletePost)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "blog.proto",
}

// RegisterBlogServiceServer registers srv with s.
func RegisterBlogServiceServer(s grpc.ServiceRegistrar, srv BlogServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
