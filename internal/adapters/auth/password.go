package auth

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"

	"courtshare/internal/domain"
)

var errPasswordMismatch = errors.New("password mismatch")

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a PasswordHasher that writes bcrypt hashes. Compare also accepts
// legacy PBKDF2 hashes stored as "iterations$digest$salt$key".
func NewBcryptHasher(cost int) domain.PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *bcryptHasher) Compare(hash, password string) error {
	if strings.HasPrefix(hash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	}
	return comparePBKDF2(hash, password)
}

func comparePBKDF2(stored, password string) error {
	parts := strings.Split(stored, "$")
	if len(parts) != 4 {
		return errPasswordMismatch
	}
	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return errPasswordMismatch
	}
	var digest func() hash.Hash
	switch parts[1] {
	case "sha256":
		digest = sha256.New
	case "sha512":
		digest = sha512.New
	default:
		return errPasswordMismatch
	}
	want, err := hex.DecodeString(parts[3])
	if err != nil || len(want) == 0 {
		return errPasswordMismatch
	}
	got := pbkdf2.Key([]byte(password), []byte(parts[2]), iterations, len(want), digest)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return errPasswordMismatch
	}
	return nil
}
