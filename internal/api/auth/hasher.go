package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var _ Hasher = (*BcryptHasher)(nil)

// Hasher is the one-way credential hasher used at registration and login.
type Hasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. A mismatch is not an
	// error, only false.
	Verify(plaintext, hash string) bool
}

// BcryptHasher hashes with a per-call random salt, so two hashes of the same
// plaintext differ.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
