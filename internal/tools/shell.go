package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/llmtool"
	"github.com/margaycli/margay/internal/operation"
)

const (
	ToolNameShell       = "shell"
	defaultShellTimeout = 120 * time.Second
)

type toolShell struct {
	rt *Runtime
}

type paramsShell struct {
	Command   string `json:"command"`
	TimeoutMS int64  `json:"timeout_ms"`
	Cwd       string `json:"cwd"`
}

// NewShellTool runs a command line through the user's shell, capturing
// stdout and stderr separately. Streams that exceed the display budget are
// spilled to temp files so the full output stays retrievable.
func NewShellTool(rt *Runtime) llmtool.Tool {
	return &toolShell{rt: rt}
}

func (t *toolShell) Name() string { return ToolNameShell }

func (t *toolShell) Info() llmtool.ToolInfo {
	return llmtool.ToolInfo{
		Name:        ToolNameShell,
		Description: "Run a shell command. Returns stdout/stderr (truncated to a head/tail window when long) and the exit code.",
		Parameters: map[string]any{
			"command": map[string]any{
				"type":        "string",
				"description": "The command line to run",
			},
			"timeout_ms": map[string]any{
				"type":        "integer",
				"description": "Optional timeout in milliseconds (default ~120s)",
			},
			"cwd": map[string]any{
				"type":        "string",
				"description": "Optional working directory (absolute, or relative to sandbox dir)",
			},
		},
		Required: []string{"command"},
	}
}

func (t *toolShell) Run(ctx context.Context, call llmtool.ToolCall) llmtool.ToolResult {
	var params paramsShell
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return NewToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}
	if strings.TrimSpace(params.Command) == "" {
		return llmtool.NewErrorToolResult("command is required", call)
	}

	timeout := defaultShellTimeout
	if params.TimeoutMS > 0 {
		timeout = time.Duration(params.TimeoutMS) * time.Millisecond
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/bash"
	}

	dir := t.rt.SandboxAbsDir
	if strings.TrimSpace(params.Cwd) != "" {
		normalized, err := normalizePath(params.Cwd, t.rt.SandboxAbsDir, wantPathTypeDir, true)
		if err != nil {
			return NewToolErrorResult(call, err.Error(), err)
		}
		dir = normalized
	}

	cmd := exec.CommandContext(runCtx, shell, "-c", params.Command)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	var exitCode *int
	if state := cmd.ProcessState; state != nil && state.Exited() {
		code := state.ExitCode()
		exitCode = &code
	}

	if runErr != nil && stdout.Len() == 0 && stderr.Len() == 0 && exitCode == nil {
		// The process never produced anything (e.g. spawn failure).
		return NewToolErrorResult(call, runErr.Error(), runErr)
	}

	files := operation.TempContentFiles{
		Stdout: t.spillover("stdout", stdout.String()),
		Stderr: t.spillover("stderr", stderr.String()),
	}

	op := operation.Shell{
		Output: operation.ShellOutput{
			Output: operation.CommandOutput{
				Command:  params.Command,
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				ExitCode: exitCode,
			},
			Shell: shell,
		},
	}

	out := operation.IntoToolOutput(op, domain.ToolKindShell, files, t.rt.Env, t.rt.Metrics)
	return resultFromOutput(call, out)
}

// spillover writes the full stream content to a temp file when the stream
// will be truncated for display, and returns the file path ("" otherwise).
func (t *toolShell) spillover(stream, content string) string {
	if t.rt.TempDir == "" {
		return ""
	}
	if domain.CountLines(content) <= t.rt.Env.StdoutMaxPrefixLength+t.rt.Env.StdoutMaxSuffixLength {
		return ""
	}
	path := filepath.Join(t.rt.TempDir, fmt.Sprintf("margay_%s_%s.txt", stream, uuid.NewString()))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return ""
	}
	return path
}
