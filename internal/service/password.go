package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/bankdesk/internal/domain"
)

// MaxPasswordBytes is the longest input bcrypt hashes.
const MaxPasswordBytes = 72

func hashPassword(password string, cost int) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
