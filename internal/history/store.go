package history

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/nhath/clipkeep/internal/clipboard"
	"github.com/nhath/clipkeep/internal/history/migrations"
)

// Store persists clipboard entries in SQLite. Every operation runs under a
// single lock so the store can be shared between the monitor, the sweeper
// and the picker.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	cipher Cipher
	now    func() time.Time
	// newest created_at in unix nanoseconds, kept so timestamps never go
	// backwards relative to ids
	lastCreated int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for created_at and sweeps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Stats summarizes the stored history.
type Stats struct {
	Entries       int64
	Sensitive     int64
	PayloadBytes  int64
	ByKind        map[clipboard.Kind]int64
	Oldest        time.Time
	Newest        time.Time
	DatabaseBytes int64
}

// Open opens (creating if needed) the history database at path and brings
// its schema up to date. Sensitive payloads are sealed with c.
func Open(ctx context.Context, path string, c Cipher, opts ...Option) (*Store, error) {
	if c == nil {
		return nil, errors.New("history: cipher is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, wrapStoreError("open", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, wrapStoreError("open", err)
	}
	// One connection keeps :memory: databases coherent and matches the
	// store lock.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, wrapStoreError("open", err)
		}
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, wrapStoreError("migrate", err)
	}

	s := &Store{db: db, path: path, cipher: c, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(created_at), 0) FROM entries").Scan(&s.lastCreated); err != nil {
		db.Close()
		return nil, wrapStoreError("open", err)
	}
	return s, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Append stores e and returns its id. When the payload equals the most
// recent entry's payload nothing is written and that entry's id is returned
// with dup set.
func (s *Store) Append(ctx context.Context, e NewEntry) (id int64, dup bool, err error) {
	if !e.Kind.Valid() {
		return 0, false, fmt.Errorf("history: invalid kind %q", e.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if latest, ok, err := s.matchesLatest(ctx, e.Payload); err != nil {
		return 0, false, err
	} else if ok {
		return latest, true, nil
	}

	payload, nonce := e.Payload, []byte(nil)
	if e.Sensitive {
		payload, nonce, err = s.cipher.Seal(e.Payload)
		if err != nil {
			return 0, false, fmt.Errorf("history: seal payload: %w", err)
		}
	}
	if payload == nil {
		payload = []byte{}
	}

	created := s.now().UnixNano()
	if created < s.lastCreated {
		created = s.lastCreated
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (kind, created_at, sensitive, encrypted, preview, payload, nonce, size, thumbnail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(e.Kind),
		created,
		e.Sensitive,
		e.Sensitive,
		e.Preview,
		payload,
		nonce,
		len(e.Payload),
		e.Thumbnail,
	)
	if err != nil {
		return 0, false, wrapStoreError("append", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, wrapStoreError("append", err)
	}
	s.lastCreated = created
	return id, false, nil
}

// matchesLatest compares payload against the newest entry. A sealed entry
// that no longer opens is treated as different.
func (s *Store) matchesLatest(ctx context.Context, payload []byte) (int64, bool, error) {
	var (
		id        int64
		encrypted bool
		stored    []byte
		nonce     []byte
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, encrypted, payload, nonce FROM entries ORDER BY id DESC LIMIT 1",
	).Scan(&id, &encrypted, &stored, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, wrapStoreError("append", err)
	}

	if encrypted {
		opened, err := s.cipher.Open(stored, nonce)
		if err != nil {
			return 0, false, nil
		}
		stored = opened
	}
	return id, bytes.Equal(stored, payload), nil
}

// Recent returns up to limit entries, newest first, without payloads or
// thumbnails.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return []Entry{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, created_at, sensitive, encrypted, preview, size
		FROM entries
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, wrapStoreError("recent", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e       Entry
			kind    string
			created int64
		)
		if err := rows.Scan(&e.ID, &kind, &created, &e.Sensitive, &e.Encrypted, &e.Preview, &e.Size); err != nil {
			return nil, wrapStoreError("recent", err)
		}
		e.Kind = clipboard.Kind(kind)
		e.CreatedAt = time.Unix(0, created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError("recent", err)
	}
	return entries, nil
}

// Get returns the full entry with its stored payload, sealed or not.
func (s *Store) Get(ctx context.Context, id int64) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		e       Entry
		kind    string
		created int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, created_at, sensitive, encrypted, preview, size, payload, nonce, thumbnail
		FROM entries
		WHERE id = ?
	`, id).Scan(&e.ID, &kind, &created, &e.Sensitive, &e.Encrypted, &e.Preview, &e.Size, &e.Payload, &e.Nonce, &e.Thumbnail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapStoreError("get", err)
	}
	e.Kind = clipboard.Kind(kind)
	e.CreatedAt = time.Unix(0, created)
	return &e, nil
}

// Sweep deletes entries created strictly before now-window and returns how
// many were removed. A window of zero clears everything older than now.
func (s *Store) Sweep(ctx context.Context, window time.Duration) (int64, error) {
	if window < 0 {
		window = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-window).UnixNano()
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, wrapStoreError("sweep", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapStoreError("sweep", err)
	}
	return n, nil
}

// Clear deletes every entry regardless of age.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM entries")
	if err != nil {
		return 0, wrapStoreError("clear", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapStoreError("clear", err)
	}
	return n, nil
}

// Stats reports counts and sizes for the stored history.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &Stats{ByKind: make(map[clipboard.Kind]int64)}
	var oldest, newest int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(sensitive), 0), COALESCE(SUM(size), 0),
		       COALESCE(MIN(created_at), 0), COALESCE(MAX(created_at), 0)
		FROM entries
	`).Scan(&st.Entries, &st.Sensitive, &st.PayloadBytes, &oldest, &newest)
	if err != nil {
		return nil, wrapStoreError("stats", err)
	}
	if st.Entries > 0 {
		st.Oldest = time.Unix(0, oldest)
		st.Newest = time.Unix(0, newest)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM entries GROUP BY kind")
	if err != nil {
		return nil, wrapStoreError("stats", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			kind string
			n    int64
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, wrapStoreError("stats", err)
		}
		st.ByKind[clipboard.Kind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError("stats", err)
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return nil, wrapStoreError("stats", err)
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, wrapStoreError("stats", err)
	}
	st.DatabaseBytes = pageCount * pageSize
	return st, nil
}
