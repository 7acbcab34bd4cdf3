package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/llmtool"
	"github.com/margaycli/margay/internal/operation"
)

const ToolNameRemoveFile = "remove_file"

type toolRemoveFile struct {
	rt *Runtime
}

type paramsRemoveFile struct {
	Path string `json:"path"`
}

// NewRemoveFileTool deletes a file, snapshotting its content first so the
// removal can be undone.
func NewRemoveFileTool(rt *Runtime) llmtool.Tool {
	return &toolRemoveFile{rt: rt}
}

func (t *toolRemoveFile) Name() string { return ToolNameRemoveFile }

func (t *toolRemoveFile) Info() llmtool.ToolInfo {
	return llmtool.ToolInfo{
		Name:        ToolNameRemoveFile,
		Description: "Delete a file.",
		Parameters: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "The path of the file to delete (absolute, or relative to sandbox dir)",
			},
		},
		Required: []string{"path"},
	}
}

func (t *toolRemoveFile) Run(ctx context.Context, call llmtool.ToolCall) llmtool.ToolResult {
	var params paramsRemoveFile
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return NewToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}
	if strings.TrimSpace(params.Path) == "" {
		return llmtool.NewErrorToolResult("path is required", call)
	}

	absPath, err := normalizePath(params.Path, t.rt.SandboxAbsDir, wantPathTypeFile, true)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}
	content := string(raw)

	if t.rt.Snapshots != nil {
		if err := t.rt.Snapshots.Save(absPath, &content); err != nil {
			return NewToolErrorResult(call, err.Error(), err)
		}
	}
	if err := os.Remove(absPath); err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	op := operation.FsRemove{
		Input:  domain.FSRemove{Path: absPath},
		Output: operation.FsRemoveOutput{Content: content},
	}

	out := operation.IntoToolOutput(op, domain.ToolKindRemove, operation.TempContentFiles{}, t.rt.Env, t.rt.Metrics)
	return resultFromOutput(call, out)
}
