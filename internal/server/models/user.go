// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account identified by a unique email. PasswordHash holds a
// bcrypt hash and never leaves the server.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
