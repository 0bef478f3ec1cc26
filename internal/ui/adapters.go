package ui

import (
	"github.com/nhath/clipkeep/internal/history"
	"github.com/nhath/clipkeep/internal/ui/components/cliplist"
	"github.com/nhath/clipkeep/internal/ui/icons"
)

// EntryItemAdapter wraps history.Entry to implement cliplist.Item
type EntryItemAdapter struct {
	entry history.Entry
}

// NewEntryItemAdapter creates a new adapter
func NewEntryItemAdapter(entry history.Entry) EntryItemAdapter {
	return EntryItemAdapter{entry: entry}
}

// Implement cliplist.Item interface
func (a EntryItemAdapter) ID() int64                     { return a.entry.ID }
func (a EntryItemAdapter) PreviewText(maxLen int) string { return a.entry.PreviewText(maxLen) }
func (a EntryItemAdapter) Sensitive() bool               { return a.entry.Sensitive }
func (a EntryItemAdapter) Meta() string                  { return a.entry.CreatedAgo() }

func (a EntryItemAdapter) Icon() string {
	if a.entry.Sensitive {
		return icons.IconLock
	}
	return icons.GetKindIcon(a.entry.Kind)
}

// Entry returns the underlying entry
func (a EntryItemAdapter) Entry() history.Entry { return a.entry }

// ConvertToItems converts a slice of entries to cliplist.Item slice
func ConvertToItems(entries []history.Entry) []cliplist.Item {
	items := make([]cliplist.Item, len(entries))
	for i, e := range entries {
		items[i] = NewEntryItemAdapter(e)
	}
	return items
}
