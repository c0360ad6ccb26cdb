package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// Sealer encrypts refresh tokens before they hit a durable row store.
type Sealer struct {
	key [32]byte
}

// NewSealer builds a Sealer from a 64-char hex key. An empty key returns
// nil, which callers treat as store-plaintext.
func NewSealer(hexKey string) (*Sealer, error) {
	if hexKey == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(hexKey)
	if err != nil || len(raw) != 32 {
		return nil, fmt.Errorf("sealer: key must be 64 hex chars (32 bytes)")
	}
	s := &Sealer{}
	copy(s.key[:], raw)
	return s, nil
}

// Seal encrypts plaintext; the nonce is prepended to the box.
func (s *Sealer) Seal(plaintext string) ([]byte, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key), nil
}

// Open decrypts a sealed value produced by Seal.
func (s *Sealer) Open(sealed []byte) (string, error) {
	if len(sealed) < 24 {
		return "", fmt.Errorf("sealer: value too short")
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	plain, ok := secretbox.Open(nil, sealed[24:], &nonce, &s.key)
	if !ok {
		return "", fmt.Errorf("sealer: decryption failed")
	}
	return string(plain), nil
}
