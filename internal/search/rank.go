// Package search ranks history snapshots against a fuzzy query. It only
// ever looks at previews, so sealed payloads are never touched.
package search

import (
	"sort"

	"github.com/nhath/clipkeep/internal/history"
)

// Ranked is an entry with its match score and the matched preview offsets.
type Ranked struct {
	Entry     history.Entry
	Score     int
	Positions []int
}

// Rank returns the entries whose preview matches query, best first. Equal
// scores keep the most recent entry first. An empty query returns every
// entry with a zero score in id order.
func Rank(snapshot []history.Entry, query string) []Ranked {
	out := make([]Ranked, 0, len(snapshot))
	for _, e := range snapshot {
		score, pos, ok := Match(e.Preview, query)
		if !ok {
			continue
		}
		out = append(out, Ranked{Entry: e, Score: score, Positions: pos})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Entry.ID > out[j].Entry.ID
	})
	return out
}

// Entries strips the scores from ranked results.
func Entries(ranked []Ranked) []history.Entry {
	out := make([]history.Entry, len(ranked))
	for i, r := range ranked {
		out[i] = r.Entry
	}
	return out
}
