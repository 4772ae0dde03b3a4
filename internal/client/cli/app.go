package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
	"github.com/dmitrijs2005/gophblog/internal/client/config"
	"github.com/dmitrijs2005/gophblog/internal/rpc"
)

const usage = `usage: gophblog-cli [-a host:port] [-t token-file] [-r seconds] [-c config.json] <command>

commands:
  register [email]   create an account and save its access token
  login [email]      log in and save the access token
  logout             forget the saved access token
  list               show your posts, newest first
  add [text...]      publish a post (reads stdin when no text is given)
  delete <id>        delete one of your posts
  ping               check that the server is reachable`

// ErrUsage is returned for an unknown command or wrong arguments.
var ErrUsage = errors.New("invalid usage")

// apiClient is the part of client.GRPCClient the commands use.
type apiClient interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ListPosts(ctx context.Context) ([]rpc.Post, error)
	CreatePost(ctx context.Context, text string) (int64, error)
	DeletePost(ctx context.Context, postID int64) error
	SetAccessToken(token string)
	Close() error
}

type App struct {
	config *config.Config
	api    apiClient
	tokens *TokenStore
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	grpcClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return newApp(c, grpcClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api apiClient, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    api,
		tokens: NewTokenStore(c.TokenFile),
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run executes one command and closes the connection.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.api.Close()

	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, usage)
		return nil
	case "register":
		return a.authenticate(ctx, rest, a.api.Register)
	case "login":
		return a.authenticate(ctx, rest, a.api.Login)
	case "logout":
		return a.logout()
	case "list", "l":
		return a.list(ctx)
	case "add":
		return a.add(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "ping":
		return a.ping(ctx)
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

type authFunc func(ctx context.Context, email, password string) (string, error)

func (a *App) authenticate(ctx context.Context, args []string, call authFunc) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = GetSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	token, err := call(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.tokens.Save(token); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) logout() error {
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// authorize loads the saved token into the client.
func (a *App) authorize() error {
	token, err := a.tokens.Load()
	if err != nil {
		return err
	}
	a.api.SetAccessToken(token)
	return nil
}

// sessionError adds a hint when the saved token is no longer accepted.
func sessionError(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("%w: session expired, run 'login' again", err)
	}
	return err
}

func (a *App) list(ctx context.Context) error {
	if err := a.authorize(); err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	posts, err := a.api.ListPosts(ctx)
	if err != nil {
		return sessionError(err)
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet")
		return nil
	}
	for _, p := range posts {
		fmt.Fprintf(a.out, "#%d  %s\n", p.ID, p.CreatedAt.Local().Format(time.DateTime))
		for _, line := range strings.Split(p.Text, "\n") {
			fmt.Fprintf(a.out, "    %s\n", line)
		}
	}
	return nil
}

func (a *App) add(ctx context.Context, args []string) error {
	if err := a.authorize(); err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if text == "" {
		var err error
		if text, err = GetMultiline(a.reader, "Enter post text", a.out); err != nil {
			return err
		}
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	id, err := a.api.CreatePost(ctx, text)
	if err != nil {
		return sessionError(err)
	}
	fmt.Fprintf(a.out, "Post %d created\n", id)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return ErrUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Post id must be an integer")
		return ErrUsage
	}
	if err := a.authorize(); err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.DeletePost(ctx, id); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("post %d: %w", id, err)
		}
		return sessionError(err)
	}
	fmt.Fprintln(a.out, "Post deleted")
	return nil
}

func (a *App) ping(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}
