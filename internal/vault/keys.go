package vault

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
)

// KeySource yields the raw key, generating and persisting it exactly once.
// Keys are never rotated.
type KeySource interface {
	LoadOrCreate() ([]byte, error)
}

func generateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// FileSource keeps the raw key in a file readable by its owner only.
type FileSource struct {
	Path string
}

func (f FileSource) LoadOrCreate() ([]byte, error) {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return nil, &KeyError{Source: f.Path, Err: err}
	}

	key, err := f.read()
	if errors.Is(err, fs.ErrNotExist) {
		key, err = f.create()
		if errors.Is(err, fs.ErrExist) {
			// Lost a creation race with another process.
			key, err = f.read()
		}
	}
	if err != nil {
		return nil, &KeyError{Source: f.Path, Err: err}
	}
	return key, nil
}

func (f FileSource) read() ([]byte, error) {
	key, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key length %d", len(key))
	}
	info, err := os.Stat(f.Path)
	if err != nil {
		return nil, err
	}
	if info.Mode().Perm()&0077 != 0 {
		if err := os.Chmod(f.Path, 0600); err != nil {
			return nil, fmt.Errorf("restrict key permissions: %w", err)
		}
	}
	return key, nil
}

func (f FileSource) create() ([]byte, error) {
	key, err := generateKey()
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(f.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, err
	}
	if _, err := file.Write(key); err != nil {
		file.Close()
		os.Remove(f.Path)
		return nil, err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(f.Path)
		return nil, err
	}
	if err := file.Close(); err != nil {
		os.Remove(f.Path)
		return nil, err
	}
	return key, nil
}

const (
	serviceName   = "clipkeep"
	masterKeyItem = "__master_key__"
)

// KeyringSource keeps the key hex-encoded in the system keyring.
type KeyringSource struct {
	ring keyring.Keyring
}

// OpenKeyring opens the platform keyring for this application.
func OpenKeyring() (*KeyringSource, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, &KeyError{Source: "keyring", Err: fmt.Errorf("failed to open keyring: %w", err)}
	}
	return NewKeyringSource(ring), nil
}

// NewKeyringSource wraps an already opened keyring.
func NewKeyringSource(ring keyring.Keyring) *KeyringSource {
	return &KeyringSource{ring: ring}
}

func (k *KeyringSource) LoadOrCreate() ([]byte, error) {
	item, err := k.ring.Get(masterKeyItem)
	if err == nil {
		key, err := hex.DecodeString(string(item.Data))
		if err != nil {
			return nil, &KeyError{Source: "keyring", Err: err}
		}
		if len(key) != KeySize {
			return nil, &KeyError{Source: "keyring", Err: fmt.Errorf("invalid key length %d", len(key))}
		}
		return key, nil
	}
	if !errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, &KeyError{Source: "keyring", Err: err}
	}

	key, err := generateKey()
	if err != nil {
		return nil, &KeyError{Source: "keyring", Err: err}
	}
	if err := k.ring.Set(keyring.Item{
		Key:   masterKeyItem,
		Data:  []byte(hex.EncodeToString(key)),
		Label: "clipkeep master key",
	}); err != nil {
		return nil, &KeyError{Source: "keyring", Err: err}
	}
	return key, nil
}
