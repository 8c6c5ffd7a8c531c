// Package authtest provides deterministic PasswordHasher and TokenCodec
// implementations for tests.
package authtest

import (
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/auth"
)

// PlainHasher "hashes" by prefixing, so stored values are predictable.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (PlainHasher) Compare(hash, password string) error {
	if hash != "plain:"+password {
		return auth.ErrPasswordMismatch
	}
	return nil
}

// Tokens encodes a user id as "token-<id>".
type Tokens struct{}

// TokenFor returns the token Tokens issues for userID.
func TokenFor(userID int) string {
	return fmt.Sprintf("token-%d", userID)
}

func (Tokens) Issue(userID int) (string, error) {
	return TokenFor(userID), nil
}

func (Tokens) Verify(token string) (int, error) {
	raw, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return 0, auth.ErrInvalidToken
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, auth.ErrInvalidToken
	}
	return id, nil
}
