package clipboard

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// System is the host clipboard reached through atotto/clipboard. The portable
// backends expose no change counter, so one is synthesized from a digest of
// the current text: the token advances whenever the digest changes.
//
// ChangeToken is therefore not cheap: every call reads and hashes the full
// clipboard text. Only the classify and store work is skipped for unchanged
// content.
type System struct {
	read   func() (string, error)
	mu     sync.Mutex
	token  Token
	digest [sha256.Size]byte
	text   string
	primed bool
}

// NewSystem returns the host clipboard capability. It fails when no
// clipboard utility is available on this machine.
func NewSystem() (*System, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("host clipboard unavailable: %w", ErrUnsupported)
	}
	return &System{read: clipboard.ReadAll}, nil
}

func (s *System) ChangeToken() (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return 0, err
	}
	return s.token, nil
}

func (s *System) Read() (Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return Content{}, err
	}
	return Content{Token: s.token, Kind: Text, Data: []byte(s.text)}, nil
}

func (s *System) Write(data []byte, kind Kind) error {
	if kind == Image {
		return fmt.Errorf("write %s: %w", kind, ErrUnsupported)
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// refresh must be called with s.mu held.
func (s *System) refresh() error {
	text, err := s.read()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	sum := sha256.Sum256([]byte(text))
	if !s.primed || sum != s.digest {
		s.primed = true
		s.digest = sum
		s.text = text
		s.token++
	}
	return nil
}
