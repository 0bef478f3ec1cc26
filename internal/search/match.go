package search

import (
	"unicode"
)

const (
	scoreMatch       = 16
	bonusBoundary    = 8
	bonusConsecutive = 12
	penaltyGapStart  = 2
	lengthDivisor    = 4
)

const negInf = -1 << 30

// Match scores query against text. Matching is a case-insensitive
// subsequence test; ok is false when some query rune is missing. Positions
// are rune offsets into text of the best alignment.
func Match(text, query string) (score int, positions []int, ok bool) {
	q := []rune(query)
	if len(q) == 0 {
		return 0, nil, true
	}
	orig := []rune(text)
	t := make([]rune, len(orig))
	for i, r := range orig {
		t[i] = unicode.ToLower(r)
	}
	for i, r := range q {
		q[i] = unicode.ToLower(r)
	}
	if !isSubsequence(t, q) {
		return 0, nil, false
	}

	m, n := len(q), len(t)
	best := make([][]int, m)
	from := make([][]int, m)
	for i := range best {
		best[i] = make([]int, n)
		from[i] = make([]int, n)
	}

	for j := 0; j < n; j++ {
		best[0][j] = negInf
		from[0][j] = -1
		if t[j] == q[0] {
			best[0][j] = scoreMatch + bonus(orig, j) - j
		}
	}

	for i := 1; i < m; i++ {
		// running max of best[i-1][k]+k over k <= j-2, for the gap case
		runMax, runArg := negInf, -1
		for j := 0; j < n; j++ {
			if k := j - 2; k >= 0 && best[i-1][k] != negInf && best[i-1][k]+k > runMax {
				runMax, runArg = best[i-1][k]+k, k
			}
			best[i][j] = negInf
			from[i][j] = -1
			if t[j] != q[i] {
				continue
			}
			prev, arg := negInf, -1
			if j > 0 && best[i-1][j-1] != negInf {
				prev, arg = best[i-1][j-1]+bonusConsecutive, j-1
			}
			if runArg >= 0 {
				// j-k-1 skipped runes cost (j-k-1)+penaltyGapStart
				if gapped := runMax - j + 1 - penaltyGapStart; gapped > prev {
					prev, arg = gapped, runArg
				}
			}
			if arg < 0 {
				continue
			}
			best[i][j] = scoreMatch + bonus(orig, j) + prev
			from[i][j] = arg
		}
	}

	end, top := -1, negInf
	for j := 0; j < n; j++ {
		if best[m-1][j] > top {
			end, top = j, best[m-1][j]
		}
	}
	if end < 0 {
		return 0, nil, false
	}

	positions = make([]int, m)
	for i, j := m-1, end; i >= 0; i-- {
		positions[i] = j
		j = from[i][j]
	}
	return top - (n-m)/lengthDivisor, positions, true
}

func isSubsequence(t, q []rune) bool {
	i := 0
	for _, r := range t {
		if i < len(q) && r == q[i] {
			i++
		}
	}
	return i == len(q)
}

// bonus rewards matches that start a word: the first rune, a rune after a
// separator, or an upper-case rune after a lower-case one.
func bonus(text []rune, j int) int {
	if j == 0 {
		return bonusBoundary
	}
	prev, cur := text[j-1], text[j]
	if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
		return bonusBoundary
	}
	if unicode.IsLower(prev) && unicode.IsUpper(cur) {
		return bonusBoundary
	}
	return 0
}
