package clipboard

import "sync"

// Memory is an in-process clipboard. Every Set or Write bumps the token the
// way a host pasteboard bumps its change count.
type Memory struct {
	mu      sync.Mutex
	token   Token
	kind    Kind
	data    []byte
	readErr error
	writes  []Content
}

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{kind: Text}
}

// Set simulates a copy performed by another application.
func (m *Memory) Set(data []byte, kind Kind) Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token++
	m.kind = kind
	m.data = append([]byte(nil), data...)
	return m.token
}

// SetText is Set for text payloads.
func (m *Memory) SetText(s string) Token {
	return m.Set([]byte(s), Text)
}

// FailReads makes subsequent Read calls return err until cleared with nil.
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	m.readErr = err
	m.mu.Unlock()
}

func (m *Memory) ChangeToken() (Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *Memory) Read() (Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return Content{}, m.readErr
	}
	return Content{
		Token: m.token,
		Kind:  m.kind,
		Data:  append([]byte(nil), m.data...),
	}, nil
}

func (m *Memory) Write(data []byte, kind Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token++
	m.kind = kind
	m.data = append([]byte(nil), data...)
	m.writes = append(m.writes, Content{Token: m.token, Kind: kind, Data: m.data})
	return nil
}

// Writes returns every payload written through Write, oldest first.
func (m *Memory) Writes() []Content {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Content, len(m.writes))
	copy(out, m.writes)
	return out
}
