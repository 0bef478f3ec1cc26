package vault

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/clipkeep/internal/monitor"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	v, err := New(key)
	require.NoError(t, err)
	return v
}

func TestSealOpen_RoundTrip(t *testing.T) {
	v := newTestVault(t)
	// the largest payload the monitor will capture
	large := make([]byte, monitor.DefaultMaxPayload)
	_, err := rand.Read(large)
	require.NoError(t, err)

	for _, pt := range [][]byte{
		{},
		[]byte("x"),
		[]byte("sk-1234567890abcdefghijklmnopqrstuvwxyz"),
		large,
	} {
		ct, nonce, err := v.Seal(pt)
		require.NoError(t, err)
		assert.Len(t, nonce, v.NonceSize())
		assert.Len(t, ct, len(pt)+16)

		got, err := v.Open(ct, nonce)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(pt, got))
	}
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	v := newTestVault(t)
	pt := []byte("same plaintext")
	ct1, n1, err := v.Seal(pt)
	require.NoError(t, err)
	ct2, n2, err := v.Seal(pt)
	require.NoError(t, err)

	assert.NotEqual(t, n1, n2)
	assert.NotEqual(t, ct1, ct2)
}

func TestOpen_TamperingIsAuthFailure(t *testing.T) {
	v := newTestVault(t)
	ct, nonce, err := v.Seal([]byte("top secret"))
	require.NoError(t, err)

	for i := range ct {
		bad := append([]byte(nil), ct...)
		bad[i] ^= 0x01
		_, err := v.Open(bad, nonce)
		assert.ErrorIs(t, err, ErrAuthFailure, "flipped byte %d", i)
	}

	badNonce := append([]byte(nil), nonce...)
	badNonce[0] ^= 0xff
	_, err = v.Open(ct, badNonce)
	assert.ErrorIs(t, err, ErrAuthFailure)

	_, err = v.Open(ct, nonce[:12])
	assert.ErrorIs(t, err, ErrAuthFailure)
	_, err = v.Open(nil, nil)
	assert.ErrorIs(t, err, ErrAuthFailure)
	_, err = v.Open(ct[:3], nonce)
	assert.ErrorIs(t, err, ErrAuthFailure)

	other := newTestVault(t)
	_, err = other.Open(ct, nonce)
	assert.ErrorIs(t, err, ErrAuthFailure)
	assert.NotErrorIs(t, err, ErrKeyUnavailable)
}

func TestNew_RejectsBadKey(t *testing.T) {
	_, err := New([]byte("short"))
	assert.ErrorIs(t, err, ErrKeyUnavailable)

	var nilVault *Vault
	_, err = nilVault.Open([]byte("x"), []byte("y"))
	assert.ErrorIs(t, err, ErrKeyUnavailable)
}

func TestVault_ConcurrentUse(t *testing.T) {
	v := newTestVault(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pt := bytes.Repeat([]byte{byte(i)}, 64)
			for j := 0; j < 50; j++ {
				ct, nonce, err := v.Seal(pt)
				if !assert.NoError(t, err) {
					return
				}
				got, err := v.Open(ct, nonce)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, pt, got)
			}
		}(i)
	}
	wg.Wait()
}

func TestFileSource_CreatesOnceWithOwnerOnlyPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "master.key")
	src := FileSource{Path: path}

	key1, err := src.LoadOrCreate()
	require.NoError(t, err)
	assert.Len(t, key1, KeySize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	key2, err := src.LoadOrCreate()
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	v1, err := Load(src)
	require.NoError(t, err)
	ct, nonce, err := v1.Seal([]byte("persisted"))
	require.NoError(t, err)
	v2, err := Load(src)
	require.NoError(t, err)
	got, err := v2.Open(ct, nonce)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}

func TestFileSource_TightensLoosePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{7}, KeySize), 0644))
	require.NoError(t, os.Chmod(path, 0644))

	_, err := FileSource{Path: path}.LoadOrCreate()
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileSource_CorruptKeyIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")
	require.NoError(t, os.WriteFile(path, []byte("too short"), 0600))

	_, err := Load(FileSource{Path: path})
	assert.ErrorIs(t, err, ErrKeyUnavailable)

	var kerr *KeyError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, path, kerr.Source)
}

func TestKeyringSource_CreatesAndReloads(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	src := NewKeyringSource(ring)

	key1, err := src.LoadOrCreate()
	require.NoError(t, err)
	assert.Len(t, key1, KeySize)

	key2, err := NewKeyringSource(ring).LoadOrCreate()
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}

func TestKeyringSource_RejectsGarbage(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: masterKeyItem, Data: []byte("not-hex")}})
	_, err := NewKeyringSource(ring).LoadOrCreate()
	assert.ErrorIs(t, err, ErrKeyUnavailable)
}
