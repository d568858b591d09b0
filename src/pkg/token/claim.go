package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claim mirrors what the identity provider signs into the bearer token. The
// service only trusts the user id carried in Metadata.
type Claim struct {
	Iss      string   `json:"iss"`
	Metadata Metadata `json:"metadata"`
	jwt.RegisteredClaims
}

type Metadata struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

var ErrInvalidToken = errors.New("invalid bearer token")

// Parse verifies the signature and returns the claim.
func Parse(tokenString, secret string) (*Claim, error) {
	claim := &Claim{}
	parsed, err := jwt.ParseWithClaims(tokenString, claim, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claim.Metadata.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claim, nil
}
