// Package security signs strings that travel to the browser and back so the
// server can detect tampering when they are resubmitted.
package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// HMACLength is the length of the hex encoded HMAC appended by AppendHMAC.
const HMACLength = sha256.Size * 2

var (
	// ErrEmptySecret is returned when a HashService is built without a key.
	ErrEmptySecret = errors.New("security: secret must not be empty")
	// ErrStringTooShort is returned when a signed string cannot hold an HMAC.
	ErrStringTooShort = errors.New("security: string too short to carry an hmac")
	// ErrInvalidHMAC is returned when a signature does not match its payload.
	ErrInvalidHMAC = errors.New("security: hmac does not match")
)

// HashService computes and verifies HMAC-SHA256 signatures with a fixed key.
type HashService struct {
	key []byte
}

// NewHashService returns a HashService keyed with secret.
func NewHashService(secret string) (*HashService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &HashService{key: []byte(secret)}, nil
}

// MustHashService is NewHashService for static configuration; it panics on
// an empty secret.
func MustHashService(secret string) *HashService {
	svc, err := NewHashService(secret)
	if err != nil {
		panic(err)
	}
	return svc
}

// GenerateHMAC returns the hex encoded HMAC of value.
func (s *HashService) GenerateHMAC(value string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// AppendHMAC returns value followed by its HMAC.
func (s *HashService) AppendHMAC(value string) string {
	return value + s.GenerateHMAC(value)
}

// ValidateHMAC reports whether signature is the HMAC of value.
func (s *HashService) ValidateHMAC(value, signature string) bool {
	expected := s.GenerateHMAC(value)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ValidateAndStripHMAC verifies a string produced by AppendHMAC and returns
// the original value.
func (s *HashService) ValidateAndStripHMAC(signed string) (string, error) {
	if len(signed) < HMACLength {
		return "", fmt.Errorf("%w: got %d bytes", ErrStringTooShort, len(signed))
	}
	value := signed[:len(signed)-HMACLength]
	signature := signed[len(signed)-HMACLength:]
	if !s.ValidateHMAC(value, signature) {
		return "", ErrInvalidHMAC
	}
	return value, nil
}
