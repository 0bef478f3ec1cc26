package monitor

import (
	"context"
	"crypto/rand"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/clipkeep/internal/clipboard"
	"github.com/nhath/clipkeep/internal/history"
	"github.com/nhath/clipkeep/internal/vault"
)

func setupStore(t *testing.T) (*history.Store, *vault.Vault) {
	t.Helper()
	key := make([]byte, vault.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	v, err := vault.New(key)
	require.NoError(t, err)
	s, err := history.Open(context.Background(), filepath.Join(t.TempDir(), "history.db"), v)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, v
}

// flakyStore fails the first n appends.
type flakyStore struct {
	mu       sync.Mutex
	failures int
	calls    int
	next     Appender
}

func (f *flakyStore) Append(ctx context.Context, e history.NewEntry) (int64, bool, error) {
	f.mu.Lock()
	f.calls++
	fail := f.failures > 0
	if fail {
		f.failures--
	}
	f.mu.Unlock()
	if fail {
		return 0, false, &history.StoreError{Op: "append", Err: errors.New("disk I/O error")}
	}
	return f.next.Append(ctx, e)
}

func TestPoll_CapturesOnTokenChange(t *testing.T) {
	store, _ := setupStore(t)
	clip := clipboard.NewMemory()
	clip.SetText("already there")
	m := New(clip, store, Options{})
	require.NoError(t, m.Prime())
	ctx := context.Background()

	out, err := m.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, out)

	clip.SetText("hello")
	out, err = m.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Captured, out)

	out, err = m.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, out)

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "hello", recent[0].Preview)
}

func TestPoll_RecopyIsDuplicate(t *testing.T) {
	store, _ := setupStore(t)
	clip := clipboard.NewMemory()
	m := New(clip, store, Options{})
	require.NoError(t, m.Prime())
	ctx := context.Background()

	clip.SetText("same")
	out, err := m.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Captured, out)

	clip.SetText("same")
	out, err = m.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Duplicate, out)

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestPoll_SensitiveIsSealed(t *testing.T) {
	store, v := setupStore(t)
	clip := clipboard.NewMemory()
	m := New(clip, store, Options{})
	require.NoError(t, m.Prime())
	ctx := context.Background()

	secret := "ghp_" + strings.Repeat("A1b2", 9)
	clip.SetText(secret)
	out, err := m.Poll(ctx)
	require.NoError(t, err)
	require.Equal(t, Captured, out)

	recent, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.True(t, recent[0].Sensitive)
	assert.NotContains(t, recent[0].Preview, "A1b2")

	e, err := store.Get(ctx, recent[0].ID)
	require.NoError(t, err)
	assert.True(t, e.Encrypted)
	pt, err := e.Plaintext(v)
	require.NoError(t, err)
	assert.Equal(t, secret, string(pt))
}

func TestPoll_SkipsEmptyAndOversize(t *testing.T) {
	store, _ := setupStore(t)
	clip := clipboard.NewMemory()
	m := New(clip, store, Options{MaxPayload: 8})
	require.NoError(t, m.Prime())
	ctx := context.Background()

	clip.SetText("")
	out, err := m.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Skipped, out)

	clip.SetText("far too long for the cap")
	out, err = m.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Skipped, out)

	// skipped content is not re-read on the next tick
	out, err = m.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, out)

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestPoll_ReadFailureIsRetried(t *testing.T) {
	store, _ := setupStore(t)
	clip := clipboard.NewMemory()
	m := New(clip, store, Options{})
	require.NoError(t, m.Prime())
	ctx := context.Background()

	clip.SetText("retry me")
	clip.FailReads(errors.New("pasteboard busy"))
	out, err := m.Poll(ctx)
	assert.Error(t, err)
	assert.Equal(t, Failed, out)

	clip.FailReads(nil)
	out, err = m.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Captured, out)
}

func TestPoll_AppendFailureIsRetried(t *testing.T) {
	store, _ := setupStore(t)
	flaky := &flakyStore{failures: 1, next: store}
	clip := clipboard.NewMemory()
	m := New(clip, flaky, Options{})
	require.NoError(t, m.Prime())
	ctx := context.Background()

	clip.SetText("important")
	out, err := m.Poll(ctx)
	require.Error(t, err)
	assert.True(t, history.IsIOError(err))
	assert.Equal(t, Failed, out)

	out, err = m.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Captured, out)
	assert.Equal(t, 2, flaky.calls)
}

func TestRun_CapturesUntilCancelled(t *testing.T) {
	store, _ := setupStore(t)
	clip := clipboard.NewMemory()
	clip.SetText("before start")
	m := New(clip, store, Options{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// let Run prime before copying
	time.Sleep(20 * time.Millisecond)
	clip.SetText("after start")

	assert.Eventually(t, func() bool {
		recent, err := store.Recent(context.Background(), 10)
		return err == nil && len(recent) == 1 && recent[0].Preview == "after start"
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "captured", Captured.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
