// Package httpapi exposes the blog as a JSON REST API on gin.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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

// Options carries the HTTP-only settings.
type Options struct {
	AllowedOrigins []string
	// Gatherer backs GET /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
}

type handler struct {
	users    UserService
	posts    PostService
	resolver TokenResolver
	logger   logging.Logger
	now      func() time.Time
}

// NewRouter wires middleware and routes:
//
//	POST   /auth/signup
//	POST   /auth/login
//	POST   /posts/add              (bearer)
//	GET    /posts/get              (bearer)
//	DELETE /posts/delete/:post_id  (bearer)
//	GET    /healthz
//	GET    /metrics
func NewRouter(opts Options, l logging.Logger, us UserService, ps PostService, r TokenResolver) *gin.Engine {
	h := &handler{
		users:    us,
		posts:    ps,
		resolver: r,
		logger:   l.With("module", "http_server"),
		now:      time.Now,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), h.requestLog())

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 || (len(opts.AllowedOrigins) == 1 && opts.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup", h.signup)
		authRoutes.POST("/login", h.login)
	}

	postRoutes := router.Group("/posts")
	postRoutes.Use(h.requireUser())
	{
		postRoutes.POST("/add", h.addPost)
		postRoutes.GET("/get", h.listPosts)
		postRoutes.DELETE("/delete/:post_id", h.deletePost)
	}

	return router
}
