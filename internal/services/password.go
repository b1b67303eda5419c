package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt hashes are always 60 bytes; anything shorter cannot verify.
	bcryptHashLen = 60
	// bcrypt only accepts inputs up to 72 bytes.
	maxPasswordBytes = 72
)

type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns ErrPasswordTooLong for passwords over 72 bytes, whatever
// their length in characters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches stored. A missing or malformed
// hash is indistinguishable from a wrong password.
func (h *PasswordHasher) Verify(password, stored string) bool {
	if len(stored) < bcryptHashLen {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
