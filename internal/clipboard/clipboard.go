// Package clipboard models the host clipboard as a capability with a
// monotonically increasing change token.
package clipboard

import "errors"

// ErrUnsupported is returned when a capability cannot carry a payload kind.
var ErrUnsupported = errors.New("clipboard: unsupported payload kind")

// Token is the host clipboard's change counter. It is only compared for
// equality and never used as entry identity.
type Token uint64

// Content is a single read of the clipboard.
type Content struct {
	Token Token
	Kind  Kind
	Data  []byte
}

// Clipboard is the read/write capability the monitor polls and the picker
// pastes into.
type Clipboard interface {
	// ChangeToken returns the current change counter. It must be cheap.
	ChangeToken() (Token, error)
	// Read returns the current payload together with the token it belongs to.
	Read() (Content, error)
	// Write replaces the clipboard content.
	Write(data []byte, kind Kind) error
}
