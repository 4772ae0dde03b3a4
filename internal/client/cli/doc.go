// Package cli implements the gophblog-cli command-line client.
//
// Each invocation runs a single command against the gRPC endpoint. The
// access token obtained by register or login is saved to a file and sent
// with later list, add and delete commands. Passwords are read from the
// terminal without echo.
package cli
