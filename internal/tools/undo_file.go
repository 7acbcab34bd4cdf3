package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/llmtool"
	"github.com/margaycli/margay/internal/operation"
)

const ToolNameUndoFile = "undo_file"

type toolUndoFile struct {
	rt *Runtime
}

type paramsUndoFile struct {
	Path string `json:"path"`
}

// NewUndoFileTool reverts a file to its most recent snapshot. Successive
// calls walk further back through the snapshot stack.
func NewUndoFileTool(rt *Runtime) llmtool.Tool {
	return &toolUndoFile{rt: rt}
}

func (t *toolUndoFile) Name() string { return ToolNameUndoFile }

func (t *toolUndoFile) Info() llmtool.ToolInfo {
	return llmtool.ToolInfo{
		Name:        ToolNameUndoFile,
		Description: "Revert a file to the state captured before the last write/patch/remove.",
		Parameters: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "The path of the file to revert (absolute, or relative to sandbox dir)",
			},
		},
		Required: []string{"path"},
	}
}

func (t *toolUndoFile) Run(ctx context.Context, call llmtool.ToolCall) llmtool.ToolResult {
	var params paramsUndoFile
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return NewToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}
	if strings.TrimSpace(params.Path) == "" {
		return llmtool.NewErrorToolResult("path is required", call)
	}
	if t.rt.Snapshots == nil {
		return llmtool.NewErrorToolResult("undo is not available: no snapshot store configured", call)
	}

	absPath, err := normalizePath(params.Path, t.rt.SandboxAbsDir, wantPathTypeAny, false)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	beforeUndo, err := readFileIfExists(absPath)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	snap, ok, err := t.rt.Snapshots.Pop(absPath)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	var afterUndo *string
	if ok {
		// Restore the snapshot state on disk.
		if snap != nil {
			if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
				return NewToolErrorResult(call, err.Error(), err)
			}
			if err := os.WriteFile(absPath, []byte(*snap), 0o644); err != nil {
				return NewToolErrorResult(call, err.Error(), err)
			}
		} else if beforeUndo != nil {
			if err := os.Remove(absPath); err != nil {
				return NewToolErrorResult(call, err.Error(), err)
			}
		}
		afterUndo = snap
	} else {
		// Nothing to undo: the file keeps its current state.
		beforeUndo = nil
		afterUndo = nil
	}

	op := operation.FsUndo{
		Input: domain.FSUndo{Path: absPath},
		Output: operation.FsUndoOutput{
			BeforeUndo: beforeUndo,
			AfterUndo:  afterUndo,
		},
	}

	out := operation.IntoToolOutput(op, domain.ToolKindUndo, operation.TempContentFiles{}, t.rt.Env, t.rt.Metrics)
	return resultFromOutput(call, out)
}
