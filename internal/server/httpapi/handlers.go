package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type createPostRequest struct {
	Text string `json:"text"`
}

type createPostResponse struct {
	PostID int64 `json:"post_id"`
}

type postResponse struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// bindJSON decodes the body; malformed JSON is a validation failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		abortWithError(c, fmt.Errorf("%w: malformed request body", common.ErrorValidation))
		return false
	}
	return true
}

func (h *handler) signup(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token})
}

func (h *handler) login(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token})
}

func (h *handler) addPost(c *gin.Context) {
	var req createPostRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.posts.Create(c.Request.Context(), currentUser(c), req.Text)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, createPostResponse{PostID: id})
}

func (h *handler) listPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context(), currentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, postResponse{ID: p.ID, Text: p.Text, CreatedAt: p.CreatedAt})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) deletePost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: post_id must be an integer", common.ErrorValidation))
		return
	}

	if err := h.posts.Delete(c.Request.Context(), currentUser(c), postID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Post deleted"})
}
