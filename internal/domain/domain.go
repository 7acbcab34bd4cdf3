// Package domain holds the shared vocabulary of the tool runtime: tool
// kinds, tool inputs, the environment tunables, the per-turn metrics ledger,
// and the ToolOutput envelope handed back to the agent loop.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// ToolKind identifies a tool for metrics and logging.
type ToolKind string

const (
	ToolKindRead     ToolKind = "read"
	ToolKindWrite    ToolKind = "write"
	ToolKindRemove   ToolKind = "remove"
	ToolKindSearch   ToolKind = "search"
	ToolKindPatch    ToolKind = "patch"
	ToolKindUndo     ToolKind = "undo"
	ToolKindFetch    ToolKind = "fetch"
	ToolKindShell    ToolKind = "shell"
	ToolKindFollowup ToolKind = "followup"
	ToolKindPlan     ToolKind = "plan"
	ToolKindSkill    ToolKind = "skill"
	ToolKindImage    ToolKind = "image"
)

// Name returns the kind's display name.
func (k ToolKind) Name() string { return string(k) }

// ComputeHash returns the hex SHA-256 of content. It is the content hash
// recorded in FileOperation entries and read outputs.
func ComputeHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// CountLines counts logical lines the way the rendering layer does: an empty
// string has zero lines, and a single trailing newline terminates the last
// line rather than starting a new one.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}

// Content is file content plus line-based views over it.
type Content struct {
	text string
}

// FileContent wraps raw file text.
func FileContent(text string) Content {
	return Content{text: text}
}

// Text returns the raw content.
func (c Content) Text() string { return c.text }

// Numbered renders the content with 1-based "N:" line prefixes, numbering
// from the given starting line.
func (c Content) Numbered(from int) string {
	if c.text == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(c.text, "\n"), "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strconv.Itoa(from + i))
		b.WriteString(":")
		b.WriteString(line)
	}
	return b.String()
}
