package models

import "github.com/golang-jwt/jwt/v5"

// Roles carried in access tokens. Token issuance happens elsewhere; this
// service only consumes the verified identity.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the claims grant administrative access.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
