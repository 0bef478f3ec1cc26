// Package vault seals and opens clipboard payloads with a single long-lived
// XChaCha20-Poly1305 key.
package vault

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length of the raw symmetric key in bytes.
const KeySize = chacha20poly1305.KeySize

var (
	// ErrAuthFailure means ciphertext, nonce and key do not belong together.
	ErrAuthFailure = errors.New("vault: authentication failed")
	// ErrKeyUnavailable means the key could not be created, read or used.
	ErrKeyUnavailable = errors.New("vault: key unavailable")
)

// KeyError wraps a failure to load or create the key. It matches
// ErrKeyUnavailable with errors.Is.
type KeyError struct {
	Source string
	Err    error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key %s: %v", e.Source, e.Err)
}

func (e *KeyError) Unwrap() []error {
	return []error{ErrKeyUnavailable, e.Err}
}

// Vault is safe for concurrent use; the key never changes after New.
type Vault struct {
	aead cipher.AEAD
}

// New builds a Vault around a raw key.
func New(key []byte) (*Vault, error) {
	if len(key) != KeySize {
		return nil, &KeyError{Source: "memory", Err: fmt.Errorf("invalid key length %d", len(key))}
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, &KeyError{Source: "memory", Err: err}
	}
	return &Vault{aead: aead}, nil
}

// Load obtains the key from src, creating it on first run, and builds a Vault.
func Load(src KeySource) (*Vault, error) {
	key, err := src.LoadOrCreate()
	if err != nil {
		return nil, err
	}
	return New(key)
}

// NonceSize is the length of the nonces Seal produces.
func (v *Vault) NonceSize() int {
	return v.aead.NonceSize()
}

// Seal encrypts plaintext under a fresh random nonce.
func (v *Vault) Seal(plaintext []byte) (ciphertext, nonce []byte, err error) {
	if v == nil || v.aead == nil {
		return nil, nil, ErrKeyUnavailable
	}
	nonce = make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}
	return v.aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Open decrypts a sealed payload. Any mismatch yields ErrAuthFailure.
func (v *Vault) Open(ciphertext, nonce []byte) ([]byte, error) {
	if v == nil || v.aead == nil {
		return nil, ErrKeyUnavailable
	}
	if len(nonce) != v.aead.NonceSize() || len(ciphertext) < v.aead.Overhead() {
		return nil, ErrAuthFailure
	}
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailure
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
