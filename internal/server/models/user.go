// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash is an opaque encoded hash and
// is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
