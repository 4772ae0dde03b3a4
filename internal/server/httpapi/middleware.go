package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	userKey         = "user"
)

// requestID reuses the caller's X-Request-ID or makes a new one, and echoes
// it in the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (h *handler) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.logger.Info(c.Request.Context(), "HTTP request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireUser resolves the bearer token and stores the user for handlers.
func (h *handler) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		user, err := h.resolver.Resolve(c.Request.Context(), token, h.now())
		if err != nil {
			if !errors.Is(err, common.ErrorUnauthorized) {
				h.logger.Error(c.Request.Context(), "token resolution failed", "error", err)
			}
			abortWithError(c, err)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// errorResponse maps service errors onto a status and a {"detail": ...} body.
func errorResponse(err error) (int, gin.H) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, gin.H{"detail": common.ErrorUnauthorized.Error()}
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, gin.H{"detail": common.ErrInvalidCredentials.Error()}
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusBadRequest, gin.H{"detail": common.ErrDuplicateEmail.Error()}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, gin.H{"detail": "post not found"}
	case errors.Is(err, common.ErrorValidation):
		return http.StatusUnprocessableEntity, gin.H{"detail": err.Error()}
	default:
		return http.StatusInternalServerError, gin.H{"detail": common.ErrorInternal.Error()}
	}
}

func abortWithError(c *gin.Context, err error) {
	code, body := errorResponse(err)
	c.AbortWithStatusJSON(code, body)
}
