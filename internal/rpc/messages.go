package rpc

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse answers both Register and Login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
}

type ListPostsRequest struct{}

type Post struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ListPostsResponse struct {
	Posts []Post `json:"posts"`
}

type CreatePostRequest struct {
	Text string `json:"text"`
}

type CreatePostResponse struct {
	PostID int64 `json:"post_id"`
}

type DeletePostRequest struct {
	PostID int64 `json:"post_id"`
}

type DeletePostResponse struct {
	Detail string `json:"detail"`
}
