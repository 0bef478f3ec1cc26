package statstable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/clipkeep/internal/clipboard"
	"github.com/nhath/clipkeep/internal/history"
)

func TestRows(t *testing.T) {
	st := &history.Stats{
		Entries:       3,
		Sensitive:     1,
		PayloadBytes:  2048,
		DatabaseBytes: 4096,
		ByKind:        map[clipboard.Kind]int64{clipboard.Text: 2, clipboard.URL: 1},
		Oldest:        time.Now().Add(-2 * time.Hour),
		Newest:        time.Now(),
	}

	rows := Rows(st)
	require.Len(t, rows, 9)
	assert.Equal(t, [2]string{"entries", "3"}, rows[0])
	assert.Equal(t, [2]string{"sensitive", "1"}, rows[1])
	assert.Equal(t, [2]string{"text", "2"}, rows[2])
	assert.Equal(t, [2]string{"url", "1"}, rows[3])
	assert.Equal(t, [2]string{"image", "0"}, rows[4])
	assert.Equal(t, [2]string{"payloads", "2.0 kB"}, rows[5])
	assert.Equal(t, "oldest", rows[7][0])
	assert.Contains(t, rows[7][1], "ago")
}

func TestRows_EmptyHistoryHasNoTimestamps(t *testing.T) {
	rows := Rows(&history.Stats{ByKind: map[clipboard.Kind]int64{}})
	assert.Len(t, rows, 7)
	assert.Nil(t, Rows(nil))
}

func TestFromStats_Renders(t *testing.T) {
	out := FromStats(&history.Stats{Entries: 5, ByKind: map[clipboard.Kind]int64{clipboard.Text: 5}}).View()
	assert.Contains(t, out, "Metric")
	assert.Contains(t, out, "entries")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "2 entries (1 sensitive), 8.2 kB on disk",
		Summary(&history.Stats{Entries: 2, Sensitive: 1, DatabaseBytes: 8192}))
}
