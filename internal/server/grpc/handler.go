package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrDuplicateEmail):
		return status.Error(codes.AlreadyExists, common.ErrDuplicateEmail.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "post not found")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.AuthResponse, error) {
	token, err := s.users.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.AuthResponse{AccessToken: token}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.AuthResponse, error) {
	token, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.AuthResponse{AccessToken: token}, nil
}

func (s *GRPCServer) ListPosts(ctx context.Context, req *rpc.ListPostsRequest) (*rpc.ListPostsResponse, error) {
	posts, err := s.posts.List(ctx, userFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &rpc.ListPostsResponse{Posts: make([]rpc.Post, 0, len(posts))}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, rpc.Post{ID: p.ID, Text: p.Text, CreatedAt: p.CreatedAt})
	}
	return resp, nil
}

func (s *GRPCServer) CreatePost(ctx context.Context, req *rpc.CreatePostRequest) (*rpc.CreatePostResponse, error) {
	id, err := s.posts.Create(ctx, userFromContext(ctx), req.Text)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.CreatePostResponse{PostID: id}, nil
}

func (s *GRPCServer) DeletePost(ctx context.Context, req *rpc.DeletePostRequest) (*rpc.DeletePostResponse, error) {
	if err := s.posts.Delete(ctx, userFromContext(ctx), req.PostID); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.DeletePostResponse{Detail: "Post deleted"}, nil
}
