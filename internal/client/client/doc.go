// Package client talks to the GophBlog backend over gRPC.
//
// GRPCClient manages the connection, attaches the access token to every
// call through an interceptor and maps gRPC status codes to the sentinel
// errors ErrUnavailable, ErrUnauthorized and ErrNotFound. Other failures
// carry the server's message.
package client
