// Package grpc exposes the blog over gRPC (blog.BlogService).
package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/rpc"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"google.golang.org/grpc"
)

// UserService is what the transport needs from account management.
type UserService interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// PostService is what the transport needs from the post access layer.
type PostService interface {
	List(ctx context.Context, user *models.User) ([]models.Post, error)
	Create(ctx context.Context, user *models.User, text string) (int64, error)
	Delete(ctx context.Context, user *models.User, postID int64) error
}

// TokenResolver maps a bearer token to its user.
type TokenResolver interface {
	Resolve(ctx context.Context, token string, now time.Time) (*models.User, error)
}

type GRPCServer struct {
	rpc.UnimplementedBlogServiceServer
	address  string
	users    UserService
	posts    PostService
	resolver TokenResolver
	logger   logging.Logger
	now      func() time.Time
}

func NewGRPCServer(a string, l logging.Logger, us UserService, ps PostService, r TokenResolver) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		users:    us,
		posts:    ps,
		resolver: r,
		now:      time.Now,
	}
}

// newServer builds the grpc.Server with interceptors and the service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestLogInterceptor, s.accessTokenInterceptor))
	rpc.RegisterBlogServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections; a stop that wins the race
	// against Serve is a normal shutdown
	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}
