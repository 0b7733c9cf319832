package api

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors shared across layers. Services wrap these with %w so
// handlers can map them onto HTTP statuses with errors.Is.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUnauthenticated indicates there is no active session.
	ErrUnauthenticated = errors.New("no active session")
	// ErrUpdateWindow indicates a username/phone change was attempted
	// inside the 30-day cooldown.
	ErrUpdateWindow = errors.New("must wait 30 days between username or phone changes")
	// ErrUsernameTaken indicates a username uniqueness violation.
	ErrUsernameTaken = errors.New("username already in use")
)

// Response is a generic API envelope for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}

// Claims represents the custom claims included in the JWT access token.
type Claims struct {
	UserID               string `json:"uid"`
	Username             string `json:"usr,omitempty"`
	Email                string `json:"eml"`
	jwt.RegisteredClaims
}
