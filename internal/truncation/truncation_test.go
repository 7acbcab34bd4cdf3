package truncation

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedLines(prefix string, n int) string {
	lines := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		lines = append(lines, fmt.Sprintf("%s %d", prefix, i))
	}
	return strings.Join(lines, "\n")
}

func TestShellShortOutputVerbatim(t *testing.T) {
	out := TruncateShellOutput("hello\nworld", "", 10, 10, 0)

	assert.Equal(t, "hello\nworld", out.Stdout.Head)
	assert.Empty(t, out.Stdout.Tail)
	assert.False(t, out.Stdout.Truncated)
	assert.Equal(t, 2, out.Stdout.TotalLines)
	assert.Equal(t, 2, out.Stdout.HeadEndLine)

	assert.Empty(t, out.Stderr.Head)
	assert.Equal(t, 0, out.Stderr.TotalLines)
}

func TestShellExactBoundaryNoTruncation(t *testing.T) {
	stdout := numberedLines("stdout line", 20)
	out := TruncateShellOutput(stdout, "", 10, 10, 0)

	assert.False(t, out.Stdout.Truncated)
	assert.Equal(t, stdout, out.Stdout.Head)
	assert.Equal(t, 20, out.Stdout.TotalLines)
}

func TestShellOneOverBoundarySplits(t *testing.T) {
	stdout := numberedLines("stdout line", 21)
	out := TruncateShellOutput(stdout, "", 10, 10, 0)

	require.True(t, out.Stdout.Truncated)
	assert.Equal(t, 21, out.Stdout.TotalLines)
	assert.Equal(t, 10, out.Stdout.HeadEndLine)
	assert.Equal(t, 12, out.Stdout.TailStartLine)
	assert.Equal(t, 21, out.Stdout.TailEndLine)

	// Head and tail partition [1,21] minus exactly line 11.
	assert.True(t, strings.HasPrefix(out.Stdout.Head, "stdout line 1\n"))
	assert.True(t, strings.HasSuffix(out.Stdout.Head, "stdout line 10"))
	assert.True(t, strings.HasPrefix(out.Stdout.Tail, "stdout line 12\n"))
	assert.True(t, strings.HasSuffix(out.Stdout.Tail, "stdout line 21"))
	assert.NotContains(t, out.Stdout.Head, "stdout line 11\n")
	assert.NotContains(t, out.Stdout.Tail, "stdout line 11\n")
}

func TestShellStreamsTruncateIndependently(t *testing.T) {
	stdout := numberedLines("stdout", 25)
	stderr := numberedLines("stderr", 5)
	out := TruncateShellOutput(stdout, stderr, 10, 10, 0)

	assert.True(t, out.Stdout.Truncated)
	assert.False(t, out.Stderr.Truncated)
	assert.Equal(t, 16, out.Stdout.TailStartLine)
	assert.Equal(t, stderr, out.Stderr.Head)
}

func TestShellTrailingNewlineTerminatesLastLine(t *testing.T) {
	out := TruncateShellOutput("a\nb\n", "", 10, 10, 0)
	assert.Equal(t, 2, out.Stdout.TotalLines)
	assert.Equal(t, "a\nb", out.Stdout.Head)
}

func TestShellLongLinesCut(t *testing.T) {
	out := TruncateShellOutput("abcdefghij", "", 10, 10, 4)
	assert.Equal(t, "abcd...", out.Stdout.Head)
}

func TestShellLineCutNeverSplitsRune(t *testing.T) {
	out := TruncateShellOutput("日本語のテキスト", "", 10, 10, 3)
	assert.Equal(t, "日本語...", out.Stdout.Head)
	assert.True(t, utf8.ValidString(out.Stdout.Head))
}

func TestShellZeroLineLimitDisablesCut(t *testing.T) {
	line := strings.Repeat("x", 5000)
	out := TruncateShellOutput(line, "", 10, 10, 0)
	assert.Equal(t, line, out.Stdout.Head)
}

func TestShellEmptyStream(t *testing.T) {
	out := TruncateShellOutput("", "", 10, 10, 0)
	assert.Equal(t, Stream{Name: "stdout"}, out.Stdout)
	assert.Equal(t, Stream{Name: "stderr"}, out.Stderr)
}

func TestSearchFullCase(t *testing.T) {
	matches := []string{"m1", "m2", "m3", "m4"}
	out := TruncateSearchOutput(matches, 0, 10, 1<<20)

	assert.Equal(t, StrategyFull, out.Strategy)
	assert.Equal(t, matches, out.Data)
	assert.Equal(t, 0, out.Start)
	assert.Equal(t, 4, out.End)
	assert.Equal(t, 4, out.Total)
	assert.Equal(t, "1-4", out.DisplayRange())
}

func TestSearchLineCap(t *testing.T) {
	matches := make([]string, 50)
	for i := range matches {
		matches[i] = fmt.Sprintf("match %d", i+1)
	}
	out := TruncateSearchOutput(matches, 5, 25, 1<<20)

	assert.Equal(t, StrategyLine, out.Strategy)
	assert.Len(t, out.Data, 25)
	assert.Equal(t, 5, out.Start)
	assert.Equal(t, 30, out.End)
	assert.Equal(t, "match 6", out.Data[0])
	assert.Equal(t, "6-30", out.DisplayRange())
}

func TestSearchByteBudgetPrecedence(t *testing.T) {
	matches := make([]string, 50)
	for i := range matches {
		matches[i] = strings.Repeat("A", 100)
	}
	out := TruncateSearchOutput(matches, 0, 20, 350)

	assert.Equal(t, StrategyByte, out.Strategy)
	assert.Less(t, len(out.Data), 20)
	assert.Len(t, out.Data, 3)
}

func TestSearchByteBudgetCountsJoiningNewlines(t *testing.T) {
	// Two 10-byte lines join to 21 bytes, so a 20-byte budget keeps one.
	matches := []string{strings.Repeat("a", 10), strings.Repeat("b", 10)}
	out := TruncateSearchOutput(matches, 0, 10, 20)

	assert.Equal(t, StrategyByte, out.Strategy)
	assert.Len(t, out.Data, 1)
}

func TestSearchEmptyWindowDisplayRange(t *testing.T) {
	// A first line over budget yields an empty window whose raw start-end
	// values are reported without the usual +1 shift.
	matches := []string{strings.Repeat("a", 100)}
	out := TruncateSearchOutput(matches, 0, 10, 5)

	assert.Equal(t, StrategyByte, out.Strategy)
	assert.Empty(t, out.Data)
	assert.Equal(t, "0-0", out.DisplayRange())
}

func TestSearchStartIndexClamped(t *testing.T) {
	matches := []string{"a", "b"}

	out := TruncateSearchOutput(matches, -3, 10, 1<<20)
	assert.Equal(t, 0, out.Start)
	assert.Len(t, out.Data, 2)

	out = TruncateSearchOutput(matches, 99, 10, 1<<20)
	assert.Equal(t, 2, out.Start)
	assert.Empty(t, out.Data)
	assert.Equal(t, StrategyFull, out.Strategy)
}

func TestSearchZeroMaxLines(t *testing.T) {
	out := TruncateSearchOutput([]string{"a", "b"}, 0, 0, 1<<20)
	assert.Empty(t, out.Data)
	assert.Equal(t, StrategyLine, out.Strategy)
}

func TestFetchUnderLimitUntouched(t *testing.T) {
	out := TruncateFetchContent("short body", 100)
	assert.Equal(t, "short body", out.Content)
	assert.False(t, out.IsTruncated)
}

func TestFetchCutsToLimit(t *testing.T) {
	out := TruncateFetchContent(strings.Repeat("A", 100), 55)
	assert.True(t, out.IsTruncated)
	assert.Len(t, out.Content, 55)
}

func TestFetchNeverSplitsUTF8(t *testing.T) {
	// Each rune is 3 bytes; a limit mid-rune backs off to the boundary.
	content := strings.Repeat("日", 10)
	for limit := 0; limit <= len(content); limit++ {
		out := TruncateFetchContent(content, limit)
		require.True(t, utf8.ValidString(out.Content), "limit %d", limit)
		require.LessOrEqual(t, len(out.Content), limit, "limit %d", limit)
	}
}

func TestFetchNegativeLimit(t *testing.T) {
	out := TruncateFetchContent("abc", -1)
	assert.True(t, out.IsTruncated)
	assert.Empty(t, out.Content)
}
