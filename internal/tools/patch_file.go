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

const ToolNamePatchFile = "patch_file"

type toolPatchFile struct {
	rt *Runtime
}

type paramsPatchFile struct {
	Path      string  `json:"path"`
	Search    *string `json:"search"`
	Operation string  `json:"operation"`
	Content   string  `json:"content"`
}

// NewPatchFileTool modifies a file in place, anchored at a search string:
// replace swaps the anchor for the content, prepend/append insert the
// content before or after it. With no anchor, prepend/append apply to the
// whole file.
func NewPatchFileTool(rt *Runtime) llmtool.Tool {
	return &toolPatchFile{rt: rt}
}

func (t *toolPatchFile) Name() string { return ToolNamePatchFile }

func (t *toolPatchFile) Info() llmtool.ToolInfo {
	return llmtool.ToolInfo{
		Name:        ToolNamePatchFile,
		Description: "Patch a file in place. operation is one of: replace, prepend, append. search anchors the patch; replace requires it.",
		Parameters: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "The path of the file to patch (absolute, or relative to sandbox dir)",
			},
			"search": map[string]any{
				"type":        "string",
				"description": "Anchor text; the first occurrence is patched",
			},
			"operation": map[string]any{
				"type":        "string",
				"description": "One of: replace, prepend, append",
				"enum":        []string{"replace", "prepend", "append"},
			},
			"content": map[string]any{
				"type":        "string",
				"description": "The patch content",
			},
		},
		Required: []string{"path", "operation", "content"},
	}
}

func (t *toolPatchFile) Run(ctx context.Context, call llmtool.ToolCall) llmtool.ToolResult {
	var params paramsPatchFile
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
	before := string(raw)

	after, err := applyPatch(before, params.Search, domain.PatchOperation(params.Operation), params.Content)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}
	if len(after) > t.rt.Env.MaxFileSize {
		return llmtool.NewErrorToolResult(fmt.Sprintf("patched content exceeds the %d byte file size limit", t.rt.Env.MaxFileSize), call)
	}

	if t.rt.Snapshots != nil {
		if err := t.rt.Snapshots.Save(absPath, &before); err != nil {
			return NewToolErrorResult(call, err.Error(), err)
		}
	}
	if err := os.WriteFile(absPath, []byte(after), 0o644); err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	op := operation.FsPatch{
		Input: domain.FSPatch{
			Path:      absPath,
			Search:    params.Search,
			Operation: domain.PatchOperation(params.Operation),
			Content:   params.Content,
		},
		Output: operation.PatchOutput{
			Before:      before,
			After:       after,
			ContentHash: domain.ComputeHash(after),
		},
	}

	out := operation.IntoToolOutput(op, domain.ToolKindPatch, operation.TempContentFiles{}, t.rt.Env, t.rt.Metrics)
	return resultFromOutput(call, out)
}

func applyPatch(before string, search *string, op domain.PatchOperation, content string) (string, error) {
	if search == nil {
		switch op {
		case domain.PatchPrepend:
			return content + before, nil
		case domain.PatchAppend:
			return before + content, nil
		case domain.PatchReplace:
			return "", fmt.Errorf("replace requires a search anchor")
		default:
			return "", fmt.Errorf("unknown patch operation: %q", op)
		}
	}

	anchor := *search
	idx := strings.Index(before, anchor)
	if idx < 0 {
		return "", fmt.Errorf("search text not found in file")
	}

	switch op {
	case domain.PatchReplace:
		return before[:idx] + content + before[idx+len(anchor):], nil
	case domain.PatchPrepend:
		return before[:idx] + content + before[idx:], nil
	case domain.PatchAppend:
		end := idx + len(anchor)
		return before[:end] + content + before[end:], nil
	default:
		return "", fmt.Errorf("unknown patch operation: %q", op)
	}
}
