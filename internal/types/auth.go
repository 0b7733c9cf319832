package types

import "time"

// UserAuth is the credential-side view of a user.
type UserAuth struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Provider string `json:"provider"`
}

// Session describes the authenticated caller's current login context.
type Session struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginRequest is the expected JSON body for login.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

// TokenResponse is the successful JSON response after login or refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJI..."`
	RefreshToken string `json:"refresh_token" example:"4f1trt8s..."`
}

// RegisterRequest is the expected JSON body for registration.
type RegisterRequest struct {
	Email    string `json:"email" example:"newuser@example.com"`
	Password string `json:"password" example:"Str0ngP@ss!"`
	Username string `json:"username" example:"newuser"`
}

// RefreshTokenRequest is the expected JSON body for refreshing tokens.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest carries the refresh token to invalidate on sign-out.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
