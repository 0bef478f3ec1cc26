package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/clipkeep/internal/history"
)

func snapshot(previews ...string) []history.Entry {
	// newest first, like Store.Recent
	out := make([]history.Entry, len(previews))
	for i, p := range previews {
		out[i] = history.Entry{ID: int64(len(previews) - i), Preview: p}
	}
	return out
}

func previews(ranked []Ranked) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Entry.Preview
	}
	return out
}

func TestRank_ContiguousBeatsScattered(t *testing.T) {
	ranked := Rank(snapshot("apple pie", "banana", "pineapple"), "ppl")
	require.Len(t, ranked, 2)
	assert.Equal(t, []string{"apple pie", "pineapple"}, previews(ranked))
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRank_EmptyQueryKeepsOrder(t *testing.T) {
	snap := snapshot("one", "two", "three")
	ranked := Rank(snap, "")
	require.Len(t, ranked, 3)
	for i, r := range ranked {
		assert.Equal(t, snap[i].ID, r.Entry.ID)
		assert.Zero(t, r.Score)
	}
}

func TestRank_TiesPreferNewest(t *testing.T) {
	ranked := Rank(snapshot("same text", "same text", "same text"), "same")
	require.Len(t, ranked, 3)
	assert.EqualValues(t, 3, ranked[0].Entry.ID)
	assert.EqualValues(t, 2, ranked[1].Entry.ID)
	assert.EqualValues(t, 1, ranked[2].Entry.ID)
}

func TestRank_CaseInsensitive(t *testing.T) {
	ranked := Rank(snapshot("Hello World", "goodbye"), "HW")
	require.Len(t, ranked, 1)
	assert.Equal(t, "Hello World", ranked[0].Entry.Preview)
}

func TestRank_PrefixBeatsInfix(t *testing.T) {
	ranked := Rank(snapshot("the config file", "config.toml"), "config")
	require.Len(t, ranked, 2)
	assert.Equal(t, "config.toml", ranked[0].Entry.Preview)
}

func TestRank_SensitiveMatchedOnPreviewOnly(t *testing.T) {
	snap := []history.Entry{
		{ID: 2, Preview: "[sensitive] OpenAI API key, 43 chars", Sensitive: true, Encrypted: true, Payload: []byte("sk-secretvalue")},
		{ID: 1, Preview: "notes"},
	}
	assert.Empty(t, Rank(snap, "secretvalue"))

	ranked := Rank(snap, "openai")
	require.Len(t, ranked, 1)
	assert.EqualValues(t, 2, ranked[0].Entry.ID)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		text, query string
		ok          bool
		positions   []int
	}{
		{"apple pie", "ppl", true, []int{1, 2, 3}},
		{"pineapple", "ppl", true, []int{5, 6, 7}},
		{"banana", "ppl", false, nil},
		{"getUserName", "un", true, []int{3, 7}},
		{"abc", "abcd", false, nil},
		{"", "a", false, nil},
		{"héllo wörld", "hw", true, []int{0, 6}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.text, tt.query), func(t *testing.T) {
			_, pos, ok := Match(tt.text, tt.query)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.positions, pos)
		})
	}
}

func TestMatch_BoundaryBonus(t *testing.T) {
	boundary, _, ok := Match("foo bar", "b")
	require.True(t, ok)
	inner, _, ok := Match("foo abr", "b")
	require.True(t, ok)
	assert.Greater(t, boundary, inner)
}

func TestRank_LargeSnapshot(t *testing.T) {
	snap := make([]history.Entry, 5000)
	for i := range snap {
		snap[i] = history.Entry{ID: int64(len(snap) - i), Preview: fmt.Sprintf("entry number %d with some padding text", i)}
	}
	ranked := Rank(snap, "entry 42")
	assert.NotEmpty(t, ranked)
}
