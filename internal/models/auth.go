package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials. The field name mirrors the backend contract.
type LoginRequest struct {
	NameOrEmail string `json:"nameOrEmail" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	Token      string `json:"token"`
	User       User   `json:"user"`
	FirstLogin bool   `json:"firstLogin"`
}

// SessionClaims is the JWT payload issued by the sandbox backend.
type SessionClaims struct {
	UserID    int64 `json:"user_id"`
	Role      Role  `json:"role"`
	ProfileID int64 `json:"profile_id,omitempty"`
	jwt.RegisteredClaims
}
