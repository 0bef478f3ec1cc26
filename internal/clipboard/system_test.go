package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hostStub struct {
	text  string
	err   error
	reads int
}

func (h *hostStub) ReadAll() (string, error) {
	h.reads++
	return h.text, h.err
}

func TestSystem_TokenFollowsDigest(t *testing.T) {
	host := &hostStub{text: "alpha"}
	s := &System{read: host.ReadAll}

	t0, err := s.ChangeToken()
	require.NoError(t, err)
	t1, err := s.ChangeToken()
	require.NoError(t, err)
	assert.Equal(t, t0, t1)
	// each token check is a full read
	assert.Equal(t, 2, host.reads)

	host.text = "beta"
	t2, err := s.ChangeToken()
	require.NoError(t, err)
	assert.Greater(t, uint64(t2), uint64(t1))

	c, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, t2, c.Token)
	assert.Equal(t, Text, c.Kind)
	assert.Equal(t, "beta", string(c.Data))
}

func TestSystem_ReadFailureKeepsToken(t *testing.T) {
	host := &hostStub{text: "alpha"}
	s := &System{read: host.ReadAll}
	t0, err := s.ChangeToken()
	require.NoError(t, err)

	host.err = errors.New("xclip: not found")
	_, err = s.ChangeToken()
	require.Error(t, err)

	host.err = nil
	t1, err := s.ChangeToken()
	require.NoError(t, err)
	assert.Equal(t, t0, t1)
}

func TestSystem_WriteImageUnsupported(t *testing.T) {
	s := &System{read: (&hostStub{}).ReadAll}
	assert.ErrorIs(t, s.Write([]byte{1}, Image), ErrUnsupported)
}
