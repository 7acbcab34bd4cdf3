package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/llmtool"
	"github.com/margaycli/margay/internal/operation"
)

const ToolNameReadFile = "read_file"

type toolReadFile struct {
	rt *Runtime
}

type paramsReadFile struct {
	Path        string `json:"path"`
	StartLine   *int   `json:"start_line"`
	EndLine     *int   `json:"end_line"`
	LineNumbers bool   `json:"line_numbers"`
}

// NewReadFileTool reads a line range of a file, bounded by the environment's
// read size cap.
func NewReadFileTool(rt *Runtime) llmtool.Tool {
	return &toolReadFile{rt: rt}
}

func (t *toolReadFile) Name() string { return ToolNameReadFile }

func (t *toolReadFile) Info() llmtool.ToolInfo {
	return llmtool.ToolInfo{
		Name:        ToolNameReadFile,
		Description: "Read a file, optionally a 1-based line range of it. Large files are truncated to the configured read size.",
		Parameters: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "The path of the file to read (absolute, or relative to sandbox dir)",
			},
			"start_line": map[string]any{
				"type":        "integer",
				"description": "First line to include (1-based, default 1)",
			},
			"end_line": map[string]any{
				"type":        "integer",
				"description": "Last line to include (inclusive, default end of file)",
			},
			"line_numbers": map[string]any{
				"type":        "boolean",
				"description": "Prefix each line with its line number if true",
			},
		},
		Required: []string{"path"},
	}
}

func (t *toolReadFile) Run(ctx context.Context, call llmtool.ToolCall) llmtool.ToolResult {
	var params paramsReadFile
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

	f, err := os.Open(absPath)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}
	defer f.Close()

	lr := &io.LimitedReader{R: f, N: int64(t.rt.Env.MaxReadSize)}
	raw, err := io.ReadAll(lr)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	content := dropInvalidUTF8(raw)
	total := domain.CountLines(content)

	start := 1
	if params.StartLine != nil && *params.StartLine > 1 {
		start = *params.StartLine
	}
	end := total
	if params.EndLine != nil && *params.EndLine < end {
		end = *params.EndLine
	}
	if total == 0 {
		start, end = 0, 0
	} else {
		if start > total {
			start = total
		}
		if end < start {
			end = start
		}
	}

	slice := content
	if total > 0 && (start > 1 || end < total) {
		lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
		slice = strings.Join(lines[start-1:end], "\n")
	}

	op := operation.FsRead{
		Input: domain.FSRead{
			Path:            absPath,
			StartLine:       params.StartLine,
			EndLine:         params.EndLine,
			ShowLineNumbers: params.LineNumbers,
		},
		Output: operation.ReadOutput{
			Content:     domain.FileContent(slice),
			StartLine:   start,
			EndLine:     end,
			TotalLines:  total,
			ContentHash: domain.ComputeHash(content),
		},
	}

	out := operation.IntoToolOutput(op, domain.ToolKindRead, operation.TempContentFiles{}, t.rt.Env, t.rt.Metrics)
	return resultFromOutput(call, out)
}

// dropInvalidUTF8 removes invalid bytes while preserving the order of valid
// content, so a bad prefix doesn't discard a valid tail.
func dropInvalidUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	buf := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		buf = append(buf, raw[i:i+size]...)
		i += size
	}
	return string(buf)
}
