package printer

import (
	"strings"

	"golang.org/x/text/width"
)

const (
	columnWidth    = 50 // actual column plus padding
	stackThreshold = 48 // wider actual lines are stacked above expected
	stackFill      = 10
	leftoverIndent = 40
)

// Combine lays out two rendered values side by side for a failure report.
// Padding is spaces while lines match; the first differing line is padded
// with dots. Actual lines wider than the column are stacked above their
// expected counterpart instead. Empty lines are skipped.
func Combine(actual, expected string) string {
	act, exp := lines(actual), lines(expected)
	n := min(len(act), len(exp))

	var b strings.Builder
	i := 0
	for i < n && act[i] == exp[i] {
		b.WriteString(pair(act[i], exp[i], ' '))
		i++
	}
	if i < n {
		b.WriteString(pair(act[i], exp[i], '.'))
		i++
	}
	for ; i < n; i++ {
		b.WriteString(pair(act[i], exp[i], ' '))
	}

	for _, l := range act[n:] {
		b.WriteString(l + "\n")
	}
	for _, l := range exp[n:] {
		b.WriteString(strings.Repeat(" ", leftoverIndent) + l + "\n")
	}
	return b.String()
}

func pair(act, exp string, fill byte) string {
	w := DisplayWidth(act)
	if w > stackThreshold {
		return "\n--  actual  : " + act + strings.Repeat(string(fill), stackFill) +
			"\n\n--  expected: " + exp + "\n\n"
	}
	return act + strings.Repeat(string(fill), columnWidth-w) + exp + "\n"
}

func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// DisplayWidth counts terminal columns: wide and fullwidth East Asian runes
// take two.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
