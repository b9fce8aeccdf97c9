package models

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySubject = errors.New("token subject is empty")

// Token is a bearer token together with its parsed claims.
//
// SignedString is the compact JWS form sent in the Authorization header.
// UserID is the "sub" claim.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	SignedString string `json:"-"`

	UserID string `json:"-"`
}

// GetUserID returns the subject claim, failing when it is empty.
func (t *Token) GetUserID() (string, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting user id from token: %w", err)
	}
	if sub == "" {
		return "", ErrEmptySubject
	}

	return sub, nil
}

func (t *Token) String() string {
	return t.SignedString
}

// TokenRequest asks the development API for a bearer token.
type TokenRequest struct {
	UserID string `json:"user_id"`
}

// TokenResponse carries an issued token.
type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}
