package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/rpc"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userKey ctxKey = "user"

// requestIDKey is the metadata key a caller may use to pass its own request id.
const requestIDKey = "x-request-id"

// protectedMethods require a valid access token.
var protectedMethods = map[string]struct{}{
	rpc.ListPostsMethod:  {},
	rpc.CreatePostMethod: {},
	rpc.DeletePostMethod: {},
}

func userFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

func firstMetadata(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, ok := protectedMethods[info.FullMethod]; !ok {
		return handler(ctx, req)
	}

	accessToken := firstMetadata(ctx, common.AccessTokenHeaderName)

	user, err := s.resolver.Resolve(ctx, accessToken, s.now())
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
		}
		s.logger.Error(ctx, "token resolution failed", "error", err)
		return nil, status.Error(codes.Internal, common.ErrorInternal.Error())
	}

	ctx = context.WithValue(ctx, userKey, user)
	return handler(ctx, req)
}

// requestLogInterceptor logs one line per call with its request id, method,
// resulting code and duration.
func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	requestID := firstMetadata(ctx, requestIDKey)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDKey, requestID))

	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "gRPC request",
		"request_id", requestID,
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
