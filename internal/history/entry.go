package history

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nhath/clipkeep/internal/classify"
	"github.com/nhath/clipkeep/internal/clipboard"
)

// Entry is one captured clipboard payload. Entries are immutable.
type Entry struct {
	ID        int64
	Kind      clipboard.Kind
	CreatedAt time.Time
	Sensitive bool
	Encrypted bool
	Preview   string
	// Size is the plaintext length in bytes.
	Size int64
	// Payload holds raw bytes, or ciphertext when Encrypted. It is nil in
	// the summaries returned by Recent.
	Payload   []byte
	Nonce     []byte
	Thumbnail []byte
}

// NewEntry is the input to Append; the store assigns id and timestamp.
type NewEntry struct {
	Kind      clipboard.Kind
	Sensitive bool
	Preview   string
	Payload   []byte
	Thumbnail []byte
}

// Sealer encrypts payloads for storage.
type Sealer interface {
	Seal(plaintext []byte) (ciphertext, nonce []byte, err error)
}

// Opener decrypts sealed payloads.
type Opener interface {
	Open(ciphertext, nonce []byte) ([]byte, error)
}

// Cipher is what the store needs from the vault.
type Cipher interface {
	Sealer
	Opener
}

// Plaintext returns the payload, opening it first when it is sealed.
func (e *Entry) Plaintext(o Opener) ([]byte, error) {
	if !e.Encrypted {
		return e.Payload, nil
	}
	return o.Open(e.Payload, e.Nonce)
}

// PreviewText returns the preview cut to maxLen runes.
func (e *Entry) PreviewText(maxLen int) string {
	return classify.Truncate(e.Preview, maxLen)
}

// CreatedAgo formats the capture time relative to now.
func (e *Entry) CreatedAgo() string {
	return humanize.Time(e.CreatedAt)
}
