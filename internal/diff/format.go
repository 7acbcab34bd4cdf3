package diff

import (
	"regexp"
	"strings"
)

// ANSI colors for terminal display of diffs. Callers that embed the patch in
// structured output are expected to pass it through StripANSI first.
const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

// Result is a formatted diff plus its line statistics.
type Result struct {
	patch        string
	linesAdded   int
	linesRemoved int
}

// Patch returns the formatted diff text. Deleted lines are prefixed with "-"
// and colored red, inserted lines with "+" and green, context lines with " ".
func (r Result) Patch() string { return r.patch }

// LinesAdded returns the number of inserted lines.
func (r Result) LinesAdded() int { return r.linesAdded }

// LinesRemoved returns the number of deleted lines.
func (r Result) LinesRemoved() int { return r.linesRemoved }

// Format diffs before to after and renders every line of both sides with
// unified-diff style markers. No hunk headers are emitted; the consumers of
// this output are file-sized diffs where full context reads better.
func Format(before, after string) Result {
	hunks := Compute(before, after)

	var b strings.Builder
	added, removed := 0, 0
	for _, h := range hunks {
		for _, line := range h.Lines {
			switch h.Op {
			case OpEqual:
				b.WriteString(" ")
				b.WriteString(trimEOL(line))
			case OpDelete:
				removed++
				b.WriteString(ansiRed)
				b.WriteString("-")
				b.WriteString(trimEOL(line))
				b.WriteString(ansiReset)
			case OpInsert:
				added++
				b.WriteString(ansiGreen)
				b.WriteString("+")
				b.WriteString(trimEOL(line))
				b.WriteString(ansiReset)
			}
			b.WriteString("\n")
		}
	}

	return Result{
		patch:        strings.TrimSuffix(b.String(), "\n"),
		linesAdded:   added,
		linesRemoved: removed,
	}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
