package models

import "github.com/golang-jwt/jwt/v5"

// CustomClaims represents the claims carried by issued tokens. The subject
// claim holds the user identifier; user_name mirrors the credential the
// token was issued for.
type CustomClaims struct {
	jwt.RegisteredClaims
	UserName string `json:"user_name"`
}
