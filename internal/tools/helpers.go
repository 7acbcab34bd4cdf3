// Package tools implements the built-in tools of the margay runtime. Each
// tool executes its primitive (file access, search, shell, fetch, ...),
// assembles the (input, output) pair for its operation, and delegates
// rendering and metrics tracking to the operation package.
package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/llmtool"
	"github.com/margaycli/margay/internal/snapshot"
)

// Runtime bundles the shared state every tool needs: the sandbox root,
// environment tunables, the per-turn metrics ledger, the snapshot store
// backing undo, and a directory for spillover files.
type Runtime struct {
	SandboxAbsDir string
	Env           *domain.Environment
	Metrics       *domain.Metrics
	Snapshots     *snapshot.Store
	TempDir       string
}

// NewToolErrorResult wraps an error message and its source error.
func NewToolErrorResult(call llmtool.ToolCall, msg string, srcErr error) llmtool.ToolResult {
	res := llmtool.NewErrorToolResult(msg, call)
	res.SourceErr = srcErr
	return res
}

// resultFromOutput flattens a rendered ToolOutput into a ToolResult.
func resultFromOutput(call llmtool.ToolCall, out domain.ToolOutput) llmtool.ToolResult {
	return llmtool.ToolResult{
		CallID: call.CallID,
		Name:   call.Name,
		Type:   call.Type,
		Result: strings.TrimSuffix(out.AsText(), "\n"),
	}
}

type wantPathType int

const (
	wantPathTypeAny wantPathType = iota
	wantPathTypeDir
	wantPathTypeFile
)

// normalizePath cleans a path provided by the LLM against the sandbox dir.
// Relative paths resolve against the sandbox; the returned absolute path is
// cleaned. When mustExist is set, a missing path is an error; when want
// constrains the path type, a mismatch is an error (a file where a dir was
// wanted is coerced to its parent).
func normalizePath(path, sandboxAbsDir string, want wantPathType, mustExist bool) (string, error) {
	sandbox := filepath.Clean(sandboxAbsDir)
	if !filepath.IsAbs(sandbox) {
		return "", fmt.Errorf("sandbox directory must be absolute")
	}

	var resolved string
	if filepath.IsAbs(path) {
		resolved = filepath.Clean(path)
	} else {
		resolved = filepath.Join(sandbox, path)
	}

	info, statErr := os.Stat(resolved)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			if mustExist {
				return "", fmt.Errorf("path does not exist: %w", statErr)
			}
			return resolved, nil
		}
		return "", statErr
	}

	switch want {
	case wantPathTypeDir:
		if !info.IsDir() {
			resolved = filepath.Dir(resolved)
		}
	case wantPathTypeFile:
		if info.IsDir() {
			return "", fmt.Errorf("path is a directory")
		}
	case wantPathTypeAny:
	}
	return resolved, nil
}

// readFileIfExists returns the file content, or nil when the file is absent.
func readFileIfExists(path string) (*string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	text := string(raw)
	return &text, nil
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
