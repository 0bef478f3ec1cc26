// Package picker holds the selection state machine that sits between the
// history store and a paste action.
package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhath/clipkeep/internal/clipboard"
	"github.com/nhath/clipkeep/internal/history"
	"github.com/nhath/clipkeep/internal/logging"
	"github.com/nhath/clipkeep/internal/search"
)

const (
	DefaultRecentLimit = 20
	DefaultSearchDepth = 1000
)

// ErrPasteSuppressed wraps the reason an accept did not paste.
var ErrPasteSuppressed = errors.New("picker: paste suppressed")

// State is the controller's top-level state.
type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// Direction is a cursor step.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// Store is the read side of the history store.
type Store interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
	Get(ctx context.Context, id int64) (*history.Entry, error)
}

// PasteSink receives the plaintext of an accepted entry.
type PasteSink interface {
	Paste(data []byte, kind clipboard.Kind) error
}

// ClipboardSink pastes by writing back to a clipboard.
type ClipboardSink struct {
	Clipboard clipboard.Clipboard
}

func (s ClipboardSink) Paste(data []byte, kind clipboard.Kind) error {
	return s.Clipboard.Write(data, kind)
}

// Selection is the transient state of a visible picker.
type Selection struct {
	Snapshot []history.Entry
	// Matches holds matched preview offsets per snapshot entry while a
	// query is active.
	Matches [][]int
	Cursor  int
	Query   string
	// Searching is false when no query is set, as opposed to an empty one.
	Searching bool
}

// Current returns the entry under the cursor.
func (s *Selection) Current() (history.Entry, bool) {
	if s == nil || len(s.Snapshot) == 0 {
		return history.Entry{}, false
	}
	return s.Snapshot[s.Cursor], true
}

// Options tune a Controller. Zero values use the defaults.
type Options struct {
	RecentLimit int
	SearchDepth int
	Logger      logging.Logger
}

// Controller is the Hidden/Visible state machine. It is not safe for
// concurrent use: one owner calls its methods, and other goroutines talk
// to it only through its Queue.
type Controller struct {
	store  Store
	opener history.Opener
	sink   PasteSink
	queue  *Queue
	log    logging.Logger

	recentLimit int
	searchDepth int

	state   State
	sel     *Selection
	session string
}

func New(store Store, opener history.Opener, sink PasteSink, queue *Queue, opts Options) *Controller {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.SearchDepth <= 0 {
		opts.SearchDepth = DefaultSearchDepth
	}
	opts.SearchDepth = max(opts.SearchDepth, opts.RecentLimit)
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if queue == nil {
		queue = NewQueue(DefaultQueueSize)
	}
	return &Controller{
		store:       store,
		opener:      opener,
		sink:        sink,
		queue:       queue,
		log:         opts.Logger.With("component", "picker"),
		recentLimit: opts.RecentLimit,
		searchDepth: opts.SearchDepth,
	}
}

// Queue returns the inbound event queue.
func (c *Controller) Queue() *Queue {
	return c.queue
}

func (c *Controller) State() State {
	return c.state
}

// Selection returns a copy of the visible selection, or nil when hidden.
func (c *Controller) Selection() *Selection {
	if c.sel == nil {
		return nil
	}
	cp := *c.sel
	cp.Snapshot = append([]history.Entry(nil), c.sel.Snapshot...)
	if c.sel.Matches != nil {
		cp.Matches = append([][]int(nil), c.sel.Matches...)
	}
	return &cp
}

// Session identifies the current visible session; empty when hidden.
func (c *Controller) Session() string {
	return c.session
}

// Open loads the recent snapshot and shows the picker. It is a no-op when
// already visible. A failed load leaves the controller hidden.
func (c *Controller) Open(ctx context.Context) error {
	if c.state == Visible {
		return nil
	}
	entries, err := c.store.Recent(ctx, c.recentLimit)
	if err != nil {
		return fmt.Errorf("load recent entries: %w", err)
	}
	c.state = Visible
	c.sel = &Selection{Snapshot: entries}
	c.session = uuid.NewString()
	c.log.Debug(ctx, "picker opened", "session", c.session, "entries", len(entries))
	return nil
}

// Close discards the selection. It is a no-op when hidden.
func (c *Controller) Close() {
	c.state = Hidden
	c.sel = nil
	c.session = ""
}

func (c *Controller) Toggle(ctx context.Context) error {
	if c.state == Visible {
		c.Close()
		return nil
	}
	return c.Open(ctx)
}

// Move steps the cursor, wrapping at both ends.
func (c *Controller) Move(d Direction) {
	if c.state != Visible || len(c.sel.Snapshot) == 0 {
		return
	}
	n := len(c.sel.Snapshot)
	c.sel.Cursor = ((c.sel.Cursor+int(d))%n + n) % n
}

// SetQuery re-ranks a fresh pull from the store against text and resets the
// cursor. An empty text clears the query. On a store failure the previous
// snapshot is kept.
func (c *Controller) SetQuery(ctx context.Context, text string) error {
	if c.state != Visible {
		return nil
	}
	if text == "" {
		entries, err := c.store.Recent(ctx, c.recentLimit)
		if err != nil {
			return fmt.Errorf("load recent entries: %w", err)
		}
		c.sel.Snapshot, c.sel.Matches = entries, nil
		c.sel.Query, c.sel.Searching = "", false
		c.sel.Cursor = 0
		return nil
	}

	entries, err := c.store.Recent(ctx, c.searchDepth)
	if err != nil {
		return fmt.Errorf("load search snapshot: %w", err)
	}
	ranked := search.Rank(entries, text)
	matches := make([][]int, len(ranked))
	for i, r := range ranked {
		matches[i] = r.Positions
	}
	c.sel.Snapshot, c.sel.Matches = search.Entries(ranked), matches
	c.sel.Query, c.sel.Searching = text, true
	c.sel.Cursor = 0
	return nil
}

// Accept pastes the entry under the cursor and hides the picker. The
// controller ends up hidden even when the paste is suppressed; the returned
// error then wraps ErrPasteSuppressed and the cause. It is a no-op when
// hidden or when the snapshot is empty.
func (c *Controller) Accept(ctx context.Context) (int64, error) {
	if c.state != Visible {
		return 0, nil
	}
	cur, ok := c.sel.Current()
	if !ok {
		return 0, nil
	}
	session := c.session
	c.Close()

	entry, err := c.store.Get(ctx, cur.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: entry %d: %w", ErrPasteSuppressed, cur.ID, err)
	}
	plain, err := entry.Plaintext(c.opener)
	if err != nil {
		c.log.Warn(ctx, "could not open sealed entry", "session", session, "id", entry.ID, "err", err)
		return 0, fmt.Errorf("%w: entry %d: %w", ErrPasteSuppressed, entry.ID, err)
	}
	if err := c.sink.Paste(plain, entry.Kind); err != nil {
		return 0, fmt.Errorf("%w: entry %d: %w", ErrPasteSuppressed, entry.ID, err)
	}
	c.log.Debug(ctx, "pasted entry", "session", session, "id", entry.ID, "sensitive", entry.Sensitive)
	return entry.ID, nil
}

// Inspect returns the full plaintext of the entry under the cursor for a
// detail view. Sensitive entries are never opened here; ok is false for
// them and when nothing is selected.
func (c *Controller) Inspect(ctx context.Context) (entry *history.Entry, ok bool, err error) {
	if c.state != Visible {
		return nil, false, nil
	}
	cur, found := c.sel.Current()
	if !found || cur.Sensitive {
		return nil, false, nil
	}
	entry, err = c.store.Get(ctx, cur.ID)
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

// Report summarizes one DrainAndApply call.
type Report struct {
	Applied int
	// Pasted is the id of the entry pasted during this drain, or zero.
	Pasted int64
	Errors []error
}

// Err joins the errors collected while applying events.
func (r Report) Err() error {
	return errors.Join(r.Errors...)
}

// DrainAndApply applies every event queued right now, in order. It never
// waits for new events. Call it once per scheduling tick.
func (c *Controller) DrainAndApply(ctx context.Context) Report {
	var rep Report
	for _, e := range c.queue.drain() {
		rep.Applied++
		if err := c.apply(ctx, e, &rep); err != nil {
			rep.Errors = append(rep.Errors, fmt.Errorf("%s: %w", e.Kind, err))
		}
	}
	return rep
}

func (c *Controller) apply(ctx context.Context, e Event, rep *Report) error {
	switch e.Kind {
	case MoveUp:
		c.Move(Up)
	case MoveDown:
		c.Move(Down)
	case Accept:
		id, err := c.Accept(ctx)
		if err != nil {
			return err
		}
		if id != 0 {
			rep.Pasted = id
		}
	case Cancel:
		c.Close()
	case QueryChanged:
		return c.SetQuery(ctx, e.Query)
	case ToggleVisibility:
		return c.Toggle(ctx)
	default:
		c.log.Warn(ctx, "ignoring unknown event", "kind", int(e.Kind))
	}
	return nil
}
