package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims for a hosted questionnaire session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}
