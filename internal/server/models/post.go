package models

import "time"

// Post is a short text owned by exactly one user.
type Post struct {
	ID        int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}
