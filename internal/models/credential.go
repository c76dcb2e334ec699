package models

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	MIN_PASSWORD_LENGTH = 6
	// bcrypt only hashes the first 72 bytes and refuses anything longer.
	MAX_PASSWORD_BYTES = 72
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes long")
)

// Credential is implemented by every identity that signs in with a password.
type Credential interface {
	SetPassword(raw string) error
	CheckPassword(raw string) bool
}

var (
	_ Credential = (*Participant)(nil)
	_ Credential = (*StaffAccount)(nil)
)

func hashPassword(raw string) (string, error) {
	if len(raw) < MIN_PASSWORD_LENGTH {
		return "", ErrPasswordTooShort
	}
	if len(raw) > MAX_PASSWORD_BYTES {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func checkPassword(hash, raw string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
