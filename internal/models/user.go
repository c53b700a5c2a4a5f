package models

import "time"

// User represents the structure of the users table
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Exclude password hash from JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the logged-in user a request acts as
type Identity struct {
	UserID   int64
	Username string
}
