package config

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// ErrSecretNotFound is returned when the keyring holds no secret.
var ErrSecretNotFound = errors.New("config: no secret stored in keyring")

// KeyringStore keeps the signing secret in the OS keychain
// (macOS Keychain, Windows Credential Manager, Linux Secret Service).
type KeyringStore struct {
	service string
	user    string
}

func NewKeyringStore(service, user string) *KeyringStore {
	return &KeyringStore{service: service, user: user}
}

func (s *KeyringStore) Get() (string, error) {
	secret, err := keyring.Get(s.service, s.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrSecretNotFound
		}
		return "", err
	}
	if strings.TrimSpace(secret) == "" {
		return "", ErrSecretNotFound
	}
	return secret, nil
}

func (s *KeyringStore) Set(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return ErrMissingSecret
	}
	return keyring.Set(s.service, s.user, secret)
}

func (s *KeyringStore) Delete() error {
	err := keyring.Delete(s.service, s.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrSecretNotFound
	}
	return err
}
