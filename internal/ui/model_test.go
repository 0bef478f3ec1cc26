package ui

import (
	"context"
	"crypto/rand"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/clipkeep/internal/clipboard"
	"github.com/nhath/clipkeep/internal/config"
	"github.com/nhath/clipkeep/internal/history"
	"github.com/nhath/clipkeep/internal/picker"
	"github.com/nhath/clipkeep/internal/vault"
)

func setupModel(t *testing.T, texts ...string) (Model, *clipboard.Memory) {
	t.Helper()
	key := make([]byte, vault.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	v, err := vault.New(key)
	require.NoError(t, err)

	ctx := context.Background()
	store, err := history.Open(ctx, filepath.Join(t.TempDir(), "history.db"), v)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	for _, s := range texts {
		_, _, err := store.Append(ctx, history.NewEntry{Kind: clipboard.Text, Preview: s, Payload: []byte(s)})
		require.NoError(t, err)
	}

	cfg := config.DefaultConfig()
	InitStyles(cfg.Theme)
	clip := clipboard.NewMemory()
	ctrl := picker.New(store, v, picker.ClipboardSink{Clipboard: clip}, picker.NewQueue(16), picker.Options{})
	m := NewModel(ctx, cfg, ctrl, store, nil)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model), clip
}

func step(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	next, _ := m.Update(tickMsg(time.Now()))
	return next.(Model)
}

func TestModel_OpensOnFirstTick(t *testing.T) {
	m, _ := setupModel(t, "alpha", "beta")
	assert.Equal(t, picker.Hidden, m.ctrl.State())

	m = step(t, m)
	assert.Equal(t, picker.Visible, m.ctrl.State())
	assert.Equal(t, 2, m.list.Len())
	assert.Contains(t, m.View(), "beta")
}

func TestModel_NavigateAndAccept(t *testing.T) {
	m, clip := setupModel(t, "alpha", "beta", "gamma")
	m = step(t, m)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.list.Selected())

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, picker.Hidden, m.ctrl.State())
	require.Len(t, clip.Writes(), 1)
	assert.Equal(t, "beta", string(clip.Writes()[0].Data))
	assert.Contains(t, m.status, "pasted entry")
}

func TestModel_TypingFilters(t *testing.T) {
	m, _ := setupModel(t, "apple pie", "banana", "pineapple")
	m = step(t, m)

	m = step(t, m,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")},
	)
	sel := m.ctrl.Selection()
	require.NotNil(t, sel)
	assert.Equal(t, "ppl", sel.Query)
	require.Equal(t, 2, m.list.Len())
	assert.Equal(t, "apple pie", sel.Snapshot[0].Preview)
}

func TestModel_CancelHidesAndQuitExits(t *testing.T) {
	m, clip := setupModel(t, "alpha")
	m = step(t, m)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, picker.Hidden, m.ctrl.State())
	assert.Empty(t, clip.Writes())
	assert.Contains(t, m.View(), "HIDDEN")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_DetailPane(t *testing.T) {
	m, _ := setupModel(t, "func main() {}")
	m = step(t, m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.True(t, m.showDetail)
	assert.Contains(t, m.detail, "main")
}

func TestKeyEvent(t *testing.T) {
	keys := newKeyMap(config.DefaultConfig().Keys)

	e, ok := keyEvent(keys, tea.KeyMsg{Type: tea.KeyUp}, true)
	require.True(t, ok)
	assert.Equal(t, picker.MoveUp, e.Kind)

	e, ok = keyEvent(keys, tea.KeyMsg{Type: tea.KeyEnter}, false)
	require.True(t, ok)
	assert.Equal(t, picker.ToggleVisibility, e.Kind)

	_, ok = keyEvent(keys, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, true)
	assert.False(t, ok)
}

func TestModel_ClearHistoryNeedsConfirmation(t *testing.T) {
	m, _ := setupModel(t, "alpha", "beta")
	m = step(t, m)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, picker.Hidden, m.ctrl.State())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = next.(Model)
	require.True(t, m.confirm.Visible())
	assert.Contains(t, m.View(), "Clear clipboard history?")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = next.(Model)
	require.NotNil(t, cmd)
	next, cmd = m.Update(cmd())
	m = next.(Model)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, "cleared 2 entries", m.status)

	st, err := m.admin.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.Entries)
}
