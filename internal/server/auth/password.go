// Package auth provides credential verification and the bearer-token
// helpers used by the HTTP layer.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/gmpi-project/gmpi/internal/common"
)

// CredentialVerifier abstracts how secrets are hashed and checked so the
// authority never stores or compares raw passwords.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(hash, candidate string) error
}

// BcryptVerifier implements CredentialVerifier with bcrypt. A zero Cost
// selects bcrypt.DefaultCost.
type BcryptVerifier struct {
	Cost int
}

func (v *BcryptVerifier) Hash(password string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (v *BcryptVerifier) Verify(hash, candidate string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)); err != nil {
		return common.ErrInvalidCredentials
	}
	return nil
}
