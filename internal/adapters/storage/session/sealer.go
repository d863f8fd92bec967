package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrUnseal is returned when a stored token cannot be opened with the current key.
var ErrUnseal = errors.New("session token cannot be unsealed")

// Sealer encrypts bearer tokens at rest with NaCl secretbox.
type Sealer struct {
	key [32]byte
}

// NewSealer creates a sealer from a 32-byte key.
// A nil key generates a random one, so sessions do not survive a restart.
// PRE: key is nil or exactly 32 bytes
// POST: returns a usable sealer or an error
func NewSealer(key []byte) (*Sealer, error) {
	s := &Sealer{}
	switch len(key) {
	case 0:
		if _, err := io.ReadFull(rand.Reader, s.key[:]); err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
	case 32:
		copy(s.key[:], key)
	default:
		return nil, fmt.Errorf("session key must be 32 bytes, got %d", len(key))
	}
	return s, nil
}

// Seal returns nonce || box.
func (s *Sealer) Seal(plain string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed []byte) (string, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return "", ErrUnseal
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrUnseal
	}
	return string(plain), nil
}
