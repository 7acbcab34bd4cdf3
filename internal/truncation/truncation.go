// Package truncation bounds the size of raw tool results before they are
// rendered: shell streams are cut to a head/tail window by line count, search
// results are paginated under line and byte budgets, and fetched bodies are
// cut to a byte prefix on a rune boundary.
package truncation

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// lineCutIndicator marks a display line that was cut at the per-line
// character limit.
const lineCutIndicator = "..."

// Stream is the truncated view of one shell stream (stdout or stderr).
//
// Head always holds the leading lines. When the stream was split, Truncated
// is true and Tail holds the trailing lines; TailStartLine is then strictly
// greater than HeadEndLine so the two windows never overlap. Line numbers are
// 1-based.
type Stream struct {
	Name          string
	Head          string
	Tail          string
	Truncated     bool
	TotalLines    int
	HeadEndLine   int
	TailStartLine int
	TailEndLine   int
}

// ShellTruncation holds the truncated stdout and stderr of one command.
type ShellTruncation struct {
	Stdout Stream
	Stderr Stream
}

// TruncateShellOutput applies head/tail truncation to stdout and stderr
// independently. A stream with at most maxPrefix+maxSuffix lines is
// reproduced verbatim in Head; a longer stream keeps the first maxPrefix and
// the last maxSuffix lines. Every kept line longer than maxLineLen runes is
// cut to maxLineLen with an indicator appended.
func TruncateShellOutput(stdout, stderr string, maxPrefix, maxSuffix, maxLineLen int) ShellTruncation {
	return ShellTruncation{
		Stdout: truncateStream("stdout", stdout, maxPrefix, maxSuffix, maxLineLen),
		Stderr: truncateStream("stderr", stderr, maxPrefix, maxSuffix, maxLineLen),
	}
}

func truncateStream(name, s string, maxPrefix, maxSuffix, maxLineLen int) Stream {
	if s == "" {
		return Stream{Name: name}
	}

	lines := splitLines(s)
	for i, line := range lines {
		lines[i] = truncateLine(line, maxLineLen)
	}
	total := len(lines)

	if total <= maxPrefix+maxSuffix {
		return Stream{
			Name:        name,
			Head:        strings.Join(lines, "\n"),
			TotalLines:  total,
			HeadEndLine: total,
		}
	}

	head := lines[:maxPrefix]
	tail := lines[total-maxSuffix:]
	return Stream{
		Name:          name,
		Head:          strings.Join(head, "\n"),
		Tail:          strings.Join(tail, "\n"),
		Truncated:     true,
		TotalLines:    total,
		HeadEndLine:   maxPrefix,
		TailStartLine: total - maxSuffix + 1,
		TailEndLine:   total,
	}
}

// splitLines splits on '\n', treating a single trailing newline as a line
// terminator rather than the start of an empty final line.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// truncateLine cuts a line to maxRunes runes, never splitting a multi-byte
// character, and appends an indicator when it cut anything. maxRunes <= 0
// disables the per-line limit.
func truncateLine(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i] + lineCutIndicator
		}
		count++
	}
	return s
}

// Strategy records which budget, if any, caused search-result truncation.
type Strategy int

const (
	// StrategyFull means no truncation occurred.
	StrategyFull Strategy = iota
	// StrategyLine means the line cap bound first: more matches exist
	// beyond the emitted window.
	StrategyLine
	// StrategyByte means the byte budget bound first, possibly yielding
	// fewer lines than the line cap allows.
	StrategyByte
)

// SearchTruncation is a window into the logical full match list. Start and
// End are 0-based indices into that list; Data holds the emitted lines.
type SearchTruncation struct {
	Data     []string
	Start    int
	End      int
	Total    int
	Strategy Strategy
}

// DisplayRange formats the emitted window as a 1-based inclusive range. The
// empty window keeps its raw start-end values, without the +1 shift.
func (t SearchTruncation) DisplayRange() string {
	if t.Start < t.End {
		return formatRange(t.Start+1, t.End)
	}
	return formatRange(t.Start, t.End)
}

// TruncateSearchOutput selects up to maxLines match lines beginning at
// startIndex, stopping early if the cumulative byte size (each line plus its
// joining newline) would exceed maxBytes. Lines are scanned in order, so the
// reported strategy is whichever budget was actually hit first.
func TruncateSearchOutput(matches []string, startIndex, maxLines, maxBytes int) SearchTruncation {
	total := len(matches)
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex > total {
		startIndex = total
	}

	windowEnd := startIndex + maxLines
	if maxLines < 0 || windowEnd > total || windowEnd < startIndex {
		windowEnd = total
	}

	byteBound := false
	bytes := 0
	end := startIndex
	for i := startIndex; i < windowEnd; i++ {
		lineBytes := len(matches[i])
		if i > startIndex {
			lineBytes++ // joining newline
		}
		if bytes+lineBytes > maxBytes {
			byteBound = true
			break
		}
		bytes += lineBytes
		end = i + 1
	}

	strategy := StrategyFull
	switch {
	case byteBound:
		strategy = StrategyByte
	case end < total:
		strategy = StrategyLine
	}

	data := make([]string, 0, end-startIndex)
	data = append(data, matches[startIndex:end]...)

	return SearchTruncation{
		Data:     data,
		Start:    startIndex,
		End:      end,
		Total:    total,
		Strategy: strategy,
	}
}

// FetchTruncation is a byte-prefix view of a fetched body.
type FetchTruncation struct {
	Content     string
	IsTruncated bool
}

// TruncateFetchContent cuts content to at most limit bytes, backing off to
// the previous rune boundary so the result is always valid UTF-8. The result
// may therefore be slightly shorter than the nominal budget.
func TruncateFetchContent(content string, limit int) FetchTruncation {
	if limit < 0 {
		limit = 0
	}
	if len(content) <= limit {
		return FetchTruncation{Content: content}
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return FetchTruncation{Content: content[:cut], IsTruncated: true}
}

func formatRange(start, end int) string {
	return strconv.Itoa(start) + "-" + strconv.Itoa(end)
}
