// Package monitor polls the clipboard and feeds new content into history.
package monitor

import (
	"context"
	"time"

	"github.com/nhath/clipkeep/internal/classify"
	"github.com/nhath/clipkeep/internal/clipboard"
	"github.com/nhath/clipkeep/internal/history"
	"github.com/nhath/clipkeep/internal/logging"
)

const (
	DefaultInterval   = 500 * time.Millisecond
	DefaultMaxPayload = 10 << 20
)

// Outcome describes what one poll did.
type Outcome int

const (
	// Unchanged means the change token matched the last one seen.
	Unchanged Outcome = iota
	// Captured means a new entry was appended.
	Captured
	// Duplicate means the payload equalled the latest entry.
	Duplicate
	// Skipped means the content was empty or too large to keep.
	Skipped
	// Failed means a read or append failed; the poll will be retried.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Captured:
		return "captured"
	case Duplicate:
		return "duplicate"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Appender is the write side of the history store.
type Appender interface {
	Append(ctx context.Context, e history.NewEntry) (id int64, dup bool, err error)
}

// Options tune a Monitor. Zero values use the defaults.
type Options struct {
	Interval   time.Duration
	MaxPayload int
	Classifier *classify.Classifier
	Logger     logging.Logger
}

// Monitor owns the last observed change token. It is driven by a single
// goroutine, either Run or a caller invoking Poll.
type Monitor struct {
	clip       clipboard.Clipboard
	store      Appender
	classifier *classify.Classifier
	log        logging.Logger
	interval   time.Duration
	maxPayload int

	last   clipboard.Token
	primed bool
}

func New(clip clipboard.Clipboard, store Appender, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.MaxPayload <= 0 {
		opts.MaxPayload = DefaultMaxPayload
	}
	if opts.Classifier == nil {
		opts.Classifier = classify.New(classify.DefaultPreviewChars, classify.DefaultThumbnailSize)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Monitor{
		clip:       clip,
		store:      store,
		classifier: opts.Classifier,
		log:        opts.Logger.With("component", "monitor"),
		interval:   opts.Interval,
		maxPayload: opts.MaxPayload,
	}
}

// Prime records the current token so content already on the clipboard is
// not captured.
func (m *Monitor) Prime() error {
	tok, err := m.clip.ChangeToken()
	if err != nil {
		return err
	}
	m.last = tok
	m.primed = true
	return nil
}

// Poll runs one tick. Errors are returned alongside Failed but the monitor
// stays usable; the token is left untouched so the next tick retries.
func (m *Monitor) Poll(ctx context.Context) (Outcome, error) {
	tok, err := m.clip.ChangeToken()
	if err != nil {
		return Failed, err
	}
	if m.primed && tok == m.last {
		return Unchanged, nil
	}

	content, err := m.clip.Read()
	if err != nil {
		return Failed, err
	}

	outcome, err := m.capture(ctx, content)
	if err != nil {
		return Failed, err
	}
	// Read may have observed a later change than ChangeToken did.
	m.last = content.Token
	m.primed = true
	return outcome, nil
}

func (m *Monitor) capture(ctx context.Context, content clipboard.Content) (Outcome, error) {
	if len(content.Data) == 0 {
		return Skipped, nil
	}
	if len(content.Data) > m.maxPayload {
		m.log.Warn(ctx, "payload too large, skipping", "bytes", len(content.Data), "limit", m.maxPayload)
		return Skipped, nil
	}

	res := m.classifier.Classify(content.Data, content.Kind)
	if res.Empty() {
		return Skipped, nil
	}

	id, dup, err := m.store.Append(ctx, history.NewEntry{
		Kind:      res.Kind,
		Sensitive: res.Sensitive,
		Preview:   res.Preview,
		Payload:   content.Data,
		Thumbnail: res.Thumbnail,
	})
	if err != nil {
		return Failed, err
	}
	if dup {
		m.log.Debug(ctx, "duplicate of latest entry", "id", id)
		return Duplicate, nil
	}
	m.log.Debug(ctx, "captured entry", "id", id, "kind", string(res.Kind), "sensitive", res.Sensitive, "detector", res.Detector)
	return Captured, nil
}

// Run primes the token and polls until ctx is done. Poll failures are
// logged and retried on the next tick.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.Prime(); err != nil {
		m.log.Warn(ctx, "prime clipboard token", "err", err)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := m.Poll(ctx); err != nil {
				if history.IsIOError(err) {
					m.log.Error(ctx, "store append failed", "err", err)
				} else {
					m.log.Warn(ctx, "poll failed", "err", err)
				}
			}
		}
	}
}
