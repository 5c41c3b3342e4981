package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"mailauth/internal/domain"
)

// hashCost matches the work factor the original deployment used.
const hashCost = 10

type BcryptHasher struct{}

func NewBcryptHasher() domain.PasswordHasher {
	return &BcryptHasher{}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
