package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/llmtool"
	"github.com/margaycli/margay/internal/operation"
)

const ToolNameFollowUp = "follow_up"

type toolFollowUp struct {
	rt    *Runtime
	in    io.Reader
	out   io.Writer
	isTTY bool
}

type paramsFollowUp struct {
	Question string `json:"question"`
}

// NewFollowUpTool asks the user a question and returns their answer. When no
// interactive input is available the result is an interruption marker rather
// than an error, so the agent can carry on.
func NewFollowUpTool(rt *Runtime, in io.Reader, out io.Writer, isTTY bool) llmtool.Tool {
	return &toolFollowUp{rt: rt, in: in, out: out, isTTY: isTTY}
}

func (t *toolFollowUp) Name() string { return ToolNameFollowUp }

func (t *toolFollowUp) Info() llmtool.ToolInfo {
	return llmtool.ToolInfo{
		Name:        ToolNameFollowUp,
		Description: "Ask the user a clarifying question and wait for their reply.",
		Parameters: map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question to put to the user",
			},
		},
		Required: []string{"question"},
	}
}

func (t *toolFollowUp) Run(ctx context.Context, call llmtool.ToolCall) llmtool.ToolResult {
	var params paramsFollowUp
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return NewToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}

	var answer *string
	if t.isTTY && t.in != nil {
		fmt.Fprintf(t.out, "%s\n> ", params.Question)
		if line, err := bufio.NewReader(t.in).ReadString('\n'); err == nil {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				answer = &trimmed
			}
		}
	}

	op := operation.FollowUp{Output: answer}
	out := operation.IntoToolOutput(op, domain.ToolKindFollowup, operation.TempContentFiles{}, t.rt.Env, t.rt.Metrics)
	return resultFromOutput(call, out)
}
