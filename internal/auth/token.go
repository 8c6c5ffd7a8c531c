package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrInvalidToken is returned when a token cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// TokenCodec issues and verifies signed tokens carrying a user id.
type TokenCodec interface {
	Issue(userID int) (string, error)
	Verify(token string) (int, error)
}

// JWTCodec is a TokenCodec producing HS256-signed JWTs.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTCodec creates a JWTCodec. A non-positive ttl defaults to seven days.
func NewJWTCodec(secret string, ttl time.Duration) *JWTCodec {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWTCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for userID that expires after the configured TTL.
func (c *JWTCodec) Issue(userID int) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns the user id it carries. Expired, malformed or
// foreign-signed tokens yield ErrInvalidToken.
func (c *JWTCodec) Verify(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	if _, ok := claims["exp"]; !ok {
		return 0, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}

	// JSON numbers decode as float64.
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 || id != float64(int(id)) {
		return 0, fmt.Errorf("%w: missing or malformed id claim", ErrInvalidToken)
	}
	return int(id), nil
}
