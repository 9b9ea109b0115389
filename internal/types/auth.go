package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is one diary account as held by the credential store.
type User struct {
	ID           int64     `json:"id" example:"1"`
	Username     string    `json:"username" example:"alice"`
	PasswordHash string    `json:"-"` // bcrypt hash, never serialized.
	Email        string    `json:"email" example:"alice@x.com"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims is the payload carried by an access token.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RegisterRequest is the body of POST /users/.
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"pw123"`
	Email    string `json:"email" example:"a@x.com"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Success bool   `json:"success" example:"true"`
	ID      int64  `json:"id" example:"1"`
	Message string `json:"message" example:"created new user with id 1"`
}

// LoginRequest is the body of POST /login/.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"pw123"`
}

// LoginResponse carries the signed access token.
type LoginResponse struct {
	JWTToken string `json:"jwtToken" example:"eyJhbGciOiJI..."`
}

// UpdateProfileRequest is the body of PUT /update_profile/{userId}.
// All three fields are rewritten.
type UpdateProfileRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"n3w-pw"`
	Email    string `json:"email" example:"alice@new.com"`
}
