package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/akbarkhoja/portfolio-api/internal/types"
)

// LoginRequest represents the expected JSON body for sign-in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the successful JSON response after sign-in.
// The session token itself travels only in the HttpOnly cookie.
type LoginResponse struct {
	Success bool            `json:"success"`
	User    types.Principal `json:"user"`
}

// SessionResponse reports the current session state for any caller,
// authenticated or not.
type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *types.Principal `json:"user,omitempty"`
}

// Claims are the custom claims embedded in the session token.
// Subject carries the user id.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
