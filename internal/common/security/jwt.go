package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDClaim is the claim carrying the authenticated user's id.
const UserIDClaim = "_id"

// TokenIssuer signs and verifies HS256 tokens with one server secret.
type TokenIssuer struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (i *TokenIssuer) GenerateToken(userID string) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		UserIDClaim: userID,
		"exp":       now.Add(i.ttl).Unix(),
		"iat":       now.Unix(),
	}
	_, tokenString, err := i.auth.Encode(claims)
	return tokenString, err
}

// VerifyToken checks signature and expiry and returns the embedded user id.
func (i *TokenIssuer) VerifyToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(i.auth, tokenString)
	if err != nil {
		return "", err
	}
	return GetUserIDFromClaims(token.PrivateClaims())
}

func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims[UserIDClaim].(string)
	if !ok || id == "" {
		return "", errors.New("_id claim is missing or not a string")
	}
	return id, nil
}
