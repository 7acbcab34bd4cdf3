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

const ToolNameWriteFile = "write_file"

type toolWriteFile struct {
	rt *Runtime
}

type paramsWriteFile struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	Overwrite bool   `json:"overwrite"`
}

// NewWriteFileTool creates or overwrites a file with full content. The prior
// state is snapshotted so the write can be undone.
func NewWriteFileTool(rt *Runtime) llmtool.Tool {
	return &toolWriteFile{rt: rt}
}

func (t *toolWriteFile) Name() string { return ToolNameWriteFile }

func (t *toolWriteFile) Info() llmtool.ToolInfo {
	return llmtool.ToolInfo{
		Name:        ToolNameWriteFile,
		Description: "Create a file with the given content. Overwriting an existing file requires overwrite=true.",
		Parameters: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "The path of the file to write (absolute, or relative to sandbox dir)",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Full file content",
			},
			"overwrite": map[string]any{
				"type":        "boolean",
				"description": "Allow replacing an existing file",
			},
		},
		Required: []string{"path", "content"},
	}
}

func (t *toolWriteFile) Run(ctx context.Context, call llmtool.ToolCall) llmtool.ToolResult {
	var params paramsWriteFile
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return NewToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}
	if strings.TrimSpace(params.Path) == "" {
		return llmtool.NewErrorToolResult("path is required", call)
	}
	if len(params.Content) > t.rt.Env.MaxFileSize {
		return llmtool.NewErrorToolResult(fmt.Sprintf("content exceeds the %d byte file size limit", t.rt.Env.MaxFileSize), call)
	}

	absPath, err := normalizePath(params.Path, t.rt.SandboxAbsDir, wantPathTypeAny, false)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	before, err := readFileIfExists(absPath)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}
	if before != nil && !params.Overwrite {
		return llmtool.NewErrorToolResult(fmt.Sprintf("file already exists: %s (pass overwrite=true to replace it)", absPath), call)
	}

	if t.rt.Snapshots != nil {
		if err := t.rt.Snapshots.Save(absPath, before); err != nil {
			return NewToolErrorResult(call, err.Error(), err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}
	if err := os.WriteFile(absPath, []byte(params.Content), 0o644); err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	op := operation.FsCreate{
		Input: domain.FSWrite{
			Path:      absPath,
			Content:   params.Content,
			Overwrite: params.Overwrite,
		},
		Output: operation.FsCreateOutput{
			Path:        absPath,
			Before:      before,
			ContentHash: domain.ComputeHash(params.Content),
		},
	}

	out := operation.IntoToolOutput(op, domain.ToolKindWrite, operation.TempContentFiles{}, t.rt.Env, t.rt.Metrics)
	return resultFromOutput(call, out)
}
