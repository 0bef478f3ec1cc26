package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/clipkeep/internal/clipboard"
	"github.com/nhath/clipkeep/internal/config"
	"github.com/nhath/clipkeep/internal/history"
	"github.com/nhath/clipkeep/internal/logging"
	"github.com/nhath/clipkeep/internal/picker"
	"github.com/nhath/clipkeep/internal/ui/components/cliplist"
	"github.com/nhath/clipkeep/internal/ui/components/popup"
	"github.com/nhath/clipkeep/internal/ui/components/statstable"
	"github.com/nhath/clipkeep/internal/ui/highlight"
)

const (
	detailMaxLines = 12
	defaultDrain   = 50 * time.Millisecond
	confirmClear   = "clear-history"
)

// HistoryAdmin provides the numbers shown while the picker is hidden and
// the clear-history action.
type HistoryAdmin interface {
	Stats(ctx context.Context) (*history.Stats, error)
	Clear(ctx context.Context) (int64, error)
}

type tickMsg time.Time

type statsMsg struct {
	stats *history.Stats
	err   error
}

type clearedMsg struct {
	n   int64
	err error
}

// Model is the terminal front end. Key presses are translated into picker
// events and queued; the controller applies them once per tick.
type Model struct {
	ctx   context.Context
	ctrl  *picker.Controller
	admin HistoryAdmin
	log   logging.Logger

	keys    keyMap
	help    help.Model
	input   textinput.Model
	list    cliplist.Model
	table   bbtable.Model
	confirm popup.Model

	summary    string
	detail     string
	showDetail bool
	status     string
	statusErr  bool
	lastQuery  string

	drainInterval time.Duration
	width         int
	height        int
}

// NewModel builds the picker UI. It queues an initial toggle so the picker
// opens on the first tick.
func NewModel(ctx context.Context, cfg *config.Config, ctrl *picker.Controller, admin HistoryAdmin, log logging.Logger) Model {
	if log == nil {
		log = logging.Nop()
	}
	ti := textinput.New()
	ti.Placeholder = "type to search"
	ti.Prompt = ""
	ti.Focus()

	drain := cfg.DrainInterval()
	if drain <= 0 {
		drain = defaultDrain
	}

	m := Model{
		ctx:           ctx,
		ctrl:          ctrl,
		admin:         admin,
		log:           log.With("component", "ui"),
		keys:          newKeyMap(cfg.Keys),
		help:          help.New(),
		input:         ti,
		list:          cliplist.New().SetStyles(listStyles()).SetMatchFunc(highlight.Matches),
		table:         statstable.FromStats(nil),
		confirm:       popup.New(),
		drainInterval: drain,
	}
	ctrl.Queue().Push(picker.Event{Kind: picker.ToggleVisibility})
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.loadStats(), textinput.Blink)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.drainInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadStats() tea.Cmd {
	ctx, src := m.ctx, m.admin
	return func() tea.Msg {
		st, err := src.Stats(ctx)
		return statsMsg{stats: st, err: err}
	}
}

func (m Model) clearHistory() tea.Cmd {
	ctx, src := m.ctx, m.admin
	return func() tea.Msg {
		n, err := src.Clear(ctx)
		return clearedMsg{n: n, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		m.confirm = m.confirm.SetScreenSize(msg.Width, msg.Height)
		m = m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m.handleTick()

	case statsMsg:
		if msg.err != nil {
			m.log.Warn(m.ctx, "load stats", "err", msg.err)
			return m, nil
		}
		m.table = statstable.FromStats(msg.stats)
		m.summary = statstable.Summary(msg.stats)
		return m, nil

	case popup.ConfirmedMsg:
		if msg.ID == confirmClear {
			return m, m.clearHistory()
		}
		return m, nil

	case clearedMsg:
		if msg.err != nil {
			m.log.Error(m.ctx, "clear history", "err", msg.err)
			m.status, m.statusErr = "clear failed: "+msg.err.Error(), true
		} else {
			m.status, m.statusErr = fmt.Sprintf("cleared %s entries", humanize.Comma(msg.n)), false
		}
		return m, m.loadStats()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.confirm.Visible() {
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	}
	visible := m.ctrl.State() == picker.Visible

	if !visible {
		switch {
		case msg.String() == "q":
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			m.confirm = m.confirm.Confirm(confirmClear, "Clear clipboard history?",
				"Every stored entry is deleted, sealed ones included. This cannot be undone.")
			return m, nil
		}
	}
	if visible && key.Matches(msg, m.keys.Inspect) {
		m.showDetail = !m.showDetail
		m = m.refreshDetail().resize()
		return m, nil
	}

	keys := m.keys
	if m.ctrl.Queue().Translate(func() (picker.Event, bool) {
		return keyEvent(keys, msg, visible)
	}) {
		return m, nil
	}
	if !visible {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.lastQuery {
		m.lastQuery = v
		if !m.ctrl.Queue().Push(picker.Event{Kind: picker.QueryChanged, Query: v}) {
			m.log.Warn(m.ctx, "event queue full, dropped query change")
		}
	}
	return m, cmd
}

// keyEvent maps a key press to a navigation event. Keys that are not
// bindings return false and fall through to the search input.
func keyEvent(keys keyMap, msg tea.KeyMsg, visible bool) (picker.Event, bool) {
	switch {
	case key.Matches(msg, keys.Toggle):
		return picker.Event{Kind: picker.ToggleVisibility}, true
	case !visible:
		if key.Matches(msg, keys.Accept) {
			return picker.Event{Kind: picker.ToggleVisibility}, true
		}
		return picker.Event{}, false
	case key.Matches(msg, keys.Up):
		return picker.Event{Kind: picker.MoveUp}, true
	case key.Matches(msg, keys.Down):
		return picker.Event{Kind: picker.MoveDown}, true
	case key.Matches(msg, keys.Accept):
		return picker.Event{Kind: picker.Accept}, true
	case key.Matches(msg, keys.Cancel):
		return picker.Event{Kind: picker.Cancel}, true
	}
	return picker.Event{}, false
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.tick()}

	wasVisible := m.ctrl.State() == picker.Visible
	rep := m.ctrl.DrainAndApply(m.ctx)
	if rep.Applied == 0 {
		return m, tea.Batch(cmds...)
	}

	if err := rep.Err(); err != nil {
		m.log.Error(m.ctx, "apply events", "err", err)
		m.status, m.statusErr = err.Error(), true
	} else if rep.Pasted != 0 {
		m.status, m.statusErr = fmt.Sprintf("pasted entry #%d to the clipboard", rep.Pasted), false
	}

	m = m.sync()
	if wasVisible && m.ctrl.State() == picker.Hidden {
		cmds = append(cmds, m.loadStats())
	}
	return m, tea.Batch(cmds...)
}

// sync copies the controller's selection into the view components.
func (m Model) sync() Model {
	sel := m.ctrl.Selection()
	if sel == nil {
		m.input.Reset()
		m.lastQuery = ""
		m.showDetail = false
		m.detail = ""
		m.list = m.list.SetItems(nil, nil)
		return m.resize()
	}
	m.list = m.list.SetItems(ConvertToItems(sel.Snapshot), sel.Matches).Select(sel.Cursor)
	if m.showDetail {
		m = m.refreshDetail()
	}
	return m.resize()
}

func (m Model) refreshDetail() Model {
	if !m.showDetail {
		m.detail = ""
		return m
	}
	cur, found := m.ctrl.Selection().Current()
	if !found {
		m.detail = MetaStyle.Render("no entry selected")
		return m
	}

	e, ok, err := m.ctrl.Inspect(m.ctx)
	switch {
	case err != nil:
		m.detail = ErrorStyle.Render(err.Error())
	case !ok:
		m.detail = MetaStyle.Render(cur.Preview + "\nsealed; accept to paste it")
	case e.Kind == clipboard.Image:
		m.detail = fmt.Sprintf("%s\n%s", e.Preview, MetaStyle.Render(thumbnailNote(e)))
	default:
		m.detail = highlight.Code(clipLines(string(e.Payload), detailMaxLines), highlight.DefaultStyle)
	}
	return m
}

func thumbnailNote(e *history.Entry) string {
	if len(e.Thumbnail) == 0 {
		return "no thumbnail"
	}
	return "thumbnail " + humanize.Bytes(uint64(len(e.Thumbnail)))
}

func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n…"
}

// resize gives the list whatever height the header, input, detail pane and
// help leave over.
func (m Model) resize() Model {
	if m.width == 0 {
		return m
	}
	used := 4
	if m.showDetail && m.detail != "" {
		used += strings.Count(m.detail, "\n") + 3
	}
	m.list = m.list.SetSize(m.width, max(m.height-used, 3))
	return m
}
