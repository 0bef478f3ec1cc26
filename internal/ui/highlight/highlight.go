package highlight

import (
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ANSI foreground color codes (no background, no reset issues)
const (
	fgOrange = "\x1b[38;5;209m" // Matched runes - orange
	fgReset  = "\x1b[39m"       // Reset foreground only (not all attributes)
)

// DefaultStyle is the chroma style used for the detail pane.
const DefaultStyle = "nord"

// Code highlights text for a 256-color terminal, guessing the language from
// its content. Text that no lexer claims is returned unchanged.
func Code(text, style string) string {
	lexer := lexers.Analyse(text)
	if lexer == nil {
		return text
	}
	lexer = chroma.Coalesce(lexer)

	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return text
	}

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var b strings.Builder
	if err := formatter.Format(&b, s, it); err != nil {
		return text
	}
	return b.String()
}

// Language names the lexer Code would pick, or "" when none applies.
func Language(text string) string {
	lexer := lexers.Analyse(text)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// Matches colors the runes of text at the given rune offsets using
// foreground-only ANSI codes. Offsets past the end are ignored.
func Matches(text string, positions []int) string {
	if len(positions) == 0 {
		return text
	}
	pos := append([]int(nil), positions...)
	sort.Ints(pos)

	var b strings.Builder
	next := 0
	for i, r := range []rune(text) {
		for next < len(pos) && pos[next] < i {
			next++
		}
		if next < len(pos) && pos[next] == i {
			b.WriteString(fgOrange)
			b.WriteRune(r)
			b.WriteString(fgReset)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
