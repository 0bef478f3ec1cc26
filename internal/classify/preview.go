package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ellipsis marks a truncated preview.
const Ellipsis = "…"

// Preview collapses whitespace, drops non-printable runes and truncates the
// text to budget runes.
func Preview(text string, budget int) string {
	printable := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsGraphic(r) {
			return -1
		}
		return r
	}, text)
	return Truncate(strings.Join(strings.Fields(printable), " "), budget)
}

// Truncate cuts s to at most budget runes, the last of which is Ellipsis
// when anything was removed.
func Truncate(s string, budget int) string {
	if budget <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= budget {
		return s
	}
	runes := []rune(s)
	return string(runes[:budget-1]) + Ellipsis
}
