package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHash(t *testing.T) {
	// sha256 of the empty string.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ComputeHash(""))
	assert.Equal(t, ComputeHash("abc"), ComputeHash("abc"))
	assert.NotEqual(t, ComputeHash("abc"), ComputeHash("abd"))
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, CountLines(""))
	assert.Equal(t, 1, CountLines("a"))
	assert.Equal(t, 1, CountLines("a\n"))
	assert.Equal(t, 2, CountLines("a\nb"))
	assert.Equal(t, 2, CountLines("a\nb\n"))
	assert.Equal(t, 3, CountLines("a\n\nb"))
}

func TestContentNumbered(t *testing.T) {
	c := FileContent("x\ny")
	assert.Equal(t, "1:x\n2:y", c.Numbered(1))
	assert.Equal(t, "5:x\n6:y", c.Numbered(5))
	assert.Equal(t, "x\ny", c.Text())
}

func TestContentNumberedEmpty(t *testing.T) {
	assert.Equal(t, "", FileContent("").Numbered(1))
}

func TestContentNumberedTrailingNewline(t *testing.T) {
	assert.Equal(t, "1:x\n2:y", FileContent("x\ny\n").Numbered(1))
}

func TestMetricsInsertReplaces(t *testing.T) {
	m := NewMetrics()
	m.Insert("/a.txt", NewFileOperation(ToolKindWrite).WithLinesAdded(3).WithContentHash("h1"))
	m.Insert("/a.txt", NewFileOperation(ToolKindPatch).WithLinesAdded(1).WithLinesRemoved(1).WithContentHash("h2"))

	op, ok := m.Get("/a.txt")
	require.True(t, ok)
	assert.Equal(t, ToolKindPatch, op.Kind)
	assert.Equal(t, uint64(1), op.LinesAdded)
	assert.Equal(t, uint64(1), op.LinesRemoved)
	assert.Equal(t, "h2", op.ContentHash)
	assert.Equal(t, 1, m.Len())
}

func TestMetricsPathsSorted(t *testing.T) {
	m := NewMetrics()
	m.Insert("/b", NewFileOperation(ToolKindWrite))
	m.Insert("/a", NewFileOperation(ToolKindWrite))
	m.Insert("/c", NewFileOperation(ToolKindWrite))
	assert.Equal(t, []string{"/a", "/b", "/c"}, m.Paths())
}

func TestMetricsConcurrentInsert(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Insert("/shared", NewFileOperation(ToolKindWrite).WithLinesAdded(1))
		}()
	}
	wg.Wait()

	op, ok := m.Get("/shared")
	require.True(t, ok)
	assert.Equal(t, uint64(1), op.LinesAdded)
	assert.Equal(t, 1, m.Len())
}

func TestToolOutputAsText(t *testing.T) {
	out := ToolOutput{Values: []ToolValue{
		TextValue("<file></file>"),
		EmptyValue{},
		ImageValue{MimeType: "image/png"},
		AIValue{Value: "generated"},
	}}
	assert.Equal(t, "<file></file>\nImage with mime type: image/png\ngenerated\n", out.AsText())
}
