package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenUser is the identity embedded in every token and attached to
// authenticated requests.
type TokenUser struct {
	ID string `json:"id"`
}

type TokenClaims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs {user: {id}} with an expiry of ttl from now.
func (s *TokenService) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		User: TokenUser{ID: userID.String()},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Keyfunc resolves the HMAC key and rejects any other algorithm.
func (s *TokenService) Keyfunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.secret, nil
}

// Verify returns the embedded identity. Segments must be canonical base64url,
// so no byte of the token can change without failing. Every failure is
// ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*TokenUser, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return IdentityFromClaims(claims)
}

// IdentityFromClaims checks that the claims carry a well-formed user id.
func IdentityFromClaims(claims *TokenClaims) (*TokenUser, error) {
	if _, err := uuid.Parse(claims.User.ID); err != nil {
		return nil, ErrInvalidToken
	}
	return &TokenUser{ID: claims.User.ID}, nil
}
