// Package statstable renders history statistics as a bubble-table.
package statstable

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/clipkeep/internal/clipboard"
	"github.com/nhath/clipkeep/internal/history"
)

// Nord colors
const (
	ColorForeground = "#D8DEE9" // Nord4: Light gray
	ColorComment    = "#4C566A" // Nord3: Dark gray
	ColorGreen      = "#A3BE8C" // Nord14: Green
	ColorOrange     = "#D08770" // Nord12: Orange
	ColorPurple     = "#B48EAD" // Nord15: Purple
	ColorTeal       = "#8FBCBB" // Nord7: Teal
)

const (
	colMetric = "metric"
	colValue  = "value"
)

// New creates a new bubble-table with Nord theme (no background)
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorForeground))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTeal)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGreen)).
			Bold(true)).
		BorderRounded()
}

// Rows flattens stats into metric/value pairs in display order.
func Rows(st *history.Stats) [][2]string {
	if st == nil {
		return nil
	}
	rows := [][2]string{
		{"entries", strconv.FormatInt(st.Entries, 10)},
		{"sensitive", strconv.FormatInt(st.Sensitive, 10)},
	}
	for _, k := range []clipboard.Kind{clipboard.Text, clipboard.URL, clipboard.Image} {
		rows = append(rows, [2]string{string(k), strconv.FormatInt(st.ByKind[k], 10)})
	}
	rows = append(rows,
		[2]string{"payloads", humanize.Bytes(uint64(max(st.PayloadBytes, 0)))},
		[2]string{"database", humanize.Bytes(uint64(max(st.DatabaseBytes, 0)))},
	)
	if st.Entries > 0 {
		rows = append(rows,
			[2]string{"oldest", humanize.Time(st.Oldest)},
			[2]string{"newest", humanize.Time(st.Newest)},
		)
	}
	return rows
}

// FromStats builds the statistics table.
func FromStats(st *history.Stats) bbtable.Model {
	data := Rows(st)
	metricW, valueW := len("Metric"), len("Value")
	for _, r := range data {
		metricW = max(metricW, len(r[0]))
		valueW = max(valueW, len(r[1]))
	}

	cols := []bbtable.Column{
		bbtable.NewColumn(colMetric, "Metric", metricW+2),
		bbtable.NewColumn(colValue, "Value", valueW+2),
	}
	rows := make([]bbtable.Row, 0, len(data))
	for _, r := range data {
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			colMetric: r[0],
			colValue:  bbtable.NewStyledCell(r[1], valueStyle(r[0])),
		}))
	}
	return New(cols).WithRows(rows).WithNoPagination()
}

// valueStyle colors counts and sizes differently from timestamps.
func valueStyle(metric string) lipgloss.Style {
	switch metric {
	case "sensitive":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOrange))
	case "oldest", "newest":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment)).Italic(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple))
}

// Summary is a one-line rendering for narrow terminals.
func Summary(st *history.Stats) string {
	if st == nil {
		return ""
	}
	return fmt.Sprintf("%d entries (%d sensitive), %s on disk",
		st.Entries, st.Sensitive, humanize.Bytes(uint64(max(st.DatabaseBytes, 0))))
}
