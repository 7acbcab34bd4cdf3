package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/llmtool"
	"github.com/margaycli/margay/internal/operation"
)

const ToolNameCreatePlan = "create_plan"

type toolCreatePlan struct {
	rt *Runtime
}

type paramsCreatePlan struct {
	PlanName string `json:"plan_name"`
	Version  string `json:"version"`
	Content  string `json:"content"`
}

// NewCreatePlanTool persists a markdown plan under the sandbox's
// .margay/plans directory. When plan_name is omitted, the plan's first
// heading is used.
func NewCreatePlanTool(rt *Runtime) llmtool.Tool {
	return &toolCreatePlan{rt: rt}
}

func (t *toolCreatePlan) Name() string { return ToolNameCreatePlan }

func (t *toolCreatePlan) Info() llmtool.ToolInfo {
	return llmtool.ToolInfo{
		Name:        ToolNameCreatePlan,
		Description: "Persist a markdown plan document, named and versioned so later turns can retrieve it.",
		Parameters: map[string]any{
			"plan_name": map[string]any{
				"type":        "string",
				"description": "Short kebab-case plan name; defaults to a slug of the plan's first heading",
			},
			"version": map[string]any{
				"type":        "string",
				"description": "Plan version, e.g. v1",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "The full markdown plan",
			},
		},
		Required: []string{"version", "content"},
	}
}

func (t *toolCreatePlan) Run(ctx context.Context, call llmtool.ToolCall) llmtool.ToolResult {
	var params paramsCreatePlan
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return NewToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}
	if strings.TrimSpace(params.Content) == "" {
		return llmtool.NewErrorToolResult("content is required", call)
	}
	if strings.TrimSpace(params.Version) == "" {
		return llmtool.NewErrorToolResult("version is required", call)
	}

	name := strings.TrimSpace(params.PlanName)
	if name == "" {
		name = slugify(firstHeading(params.Content))
	}
	if name == "" {
		return llmtool.NewErrorToolResult("plan_name is required when the plan has no heading", call)
	}

	planDir := filepath.Join(t.rt.SandboxAbsDir, ".margay", "plans")
	if err := os.MkdirAll(planDir, 0o755); err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}
	planPath := filepath.Join(planDir, fmt.Sprintf("%s-%s.md", name, params.Version))
	if err := os.WriteFile(planPath, []byte(params.Content), 0o644); err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	op := operation.PlanCreate{
		Input:  domain.PlanCreate{PlanName: name, Version: params.Version},
		Output: operation.PlanCreateOutput{Path: planPath},
	}

	out := operation.IntoToolOutput(op, domain.ToolKindPlan, operation.TempContentFiles{}, t.rt.Env, t.rt.Metrics)
	return resultFromOutput(call, out)
}

// firstHeading returns the text of the first heading in the markdown
// document, or "".
func firstHeading(markdown string) string {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(source))

	var heading string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			var b strings.Builder
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					b.Write(t.Segment.Value(source))
				}
			}
			heading = b.String()
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return heading
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteString("-")
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
