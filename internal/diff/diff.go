// Package diff formats line diffs between an "old" and a "new" string and
// reports added/removed line counts. The underlying diff computation comes
// from sergi/go-diff; this package decides line granularity and rendering.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is an operation from old text to new text.
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

// Hunk is a contiguous group of whole lines sharing one operation. Line text
// includes the trailing '\n' when the input had one.
type Hunk struct {
	Op    Op
	Lines []string
}

// Compute returns the ordered hunks from oldText to newText. Concatenating
// the equal+delete hunks reproduces oldText; equal+insert reproduces newText.
func Compute(oldText, newText string) []Hunk {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(rOld, rNew, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	decode := func(s string) []string {
		if s == "" {
			return nil
		}
		out := make([]string, 0, len(s))
		for _, r := range s {
			idx := int(r)
			if idx >= 0 && idx < len(lineArray) {
				out = append(out, lineArray[idx])
			}
		}
		return out
	}

	var hunks []Hunk
	for _, d := range diffs {
		lines := decode(d.Text)
		if len(lines) == 0 {
			continue
		}
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = OpEqual
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		}
		hunks = append(hunks, Hunk{Op: op, Lines: lines})
	}
	return hunks
}

func trimEOL(s string) string {
	return strings.TrimSuffix(s, "\n")
}
