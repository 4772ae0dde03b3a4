// Package auth issues and checks bearer tokens, hashes passwords, and turns
// a presented token into the user it belongs to.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSignature means the token was signed with another key or
	// algorithm, or was altered after signing.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrTokenExpired means the token was genuine but its lifetime is over.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed means the token could not be decoded at all.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrUnsupportedAlgorithm is a configuration error: only HMAC algorithms
	// are accepted.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	// ErrEmptySecret is a configuration error.
	ErrEmptySecret = errors.New("empty signing secret")
)

// Identity is what a token asserts about its bearer.
type Identity struct {
	UserID int64
	Email  string
}

// Claims is the signed payload of an access token.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies access tokens with a process-wide secret.
type TokenService struct {
	secret []byte
	method *jwt.SigningMethodHMAC
}

// NewTokenService validates the secret and algorithm name ("HS256",
// "HS384" or "HS512").
func NewTokenService(secret []byte, algorithm string) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return &TokenService{secret: secret, method: method}, nil
}

// Issue signs a token for id that expires at now+ttl. JWT timestamps have
// one-second precision.
func (s *TokenService) Issue(id Identity, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(s.method, Claims{
		UserID: id.UserID,
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// Verify checks the signature first and the expiry second, as seen at now.
// A token is expired from its expiry instant onwards. Errors are always one
// of ErrInvalidSignature, ErrTokenExpired or ErrTokenMalformed.
func (s *TokenService) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrTokenMalformed
	}
}
