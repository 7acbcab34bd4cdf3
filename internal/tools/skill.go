package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/margaycli/margay/internal/domain"
	"github.com/margaycli/margay/internal/llmtool"
	"github.com/margaycli/margay/internal/operation"
	"github.com/margaycli/margay/internal/skills"
)

const ToolNameSkill = "skill"

type toolSkill struct {
	rt *Runtime
}

type paramsSkill struct {
	Name string `json:"name"`
}

// NewSkillTool resolves a named skill and returns its command text and
// resources.
func NewSkillTool(rt *Runtime) llmtool.Tool {
	return &toolSkill{rt: rt}
}

func (t *toolSkill) Name() string { return ToolNameSkill }

func (t *toolSkill) Info() llmtool.ToolInfo {
	return llmtool.ToolInfo{
		Name:        ToolNameSkill,
		Description: "Load an Agent Skill by name, returning its command text and any resource files.",
		Parameters: map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "The skill name (its directory name under .margay/skills)",
			},
		},
		Required: []string{"name"},
	}
}

func (t *toolSkill) Run(ctx context.Context, call llmtool.ToolCall) llmtool.ToolResult {
	var params paramsSkill
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return NewToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}
	if strings.TrimSpace(params.Name) == "" {
		return llmtool.NewErrorToolResult("name is required", call)
	}

	skill, err := skills.Find(params.Name, t.rt.SandboxAbsDir)
	if err != nil {
		return NewToolErrorResult(call, err.Error(), err)
	}

	op := operation.Skill{
		Input: domain.SkillFetch{Name: params.Name},
		Output: operation.SkillOutput{
			Name:      skill.Name,
			Command:   skill.Command,
			Path:      strPtr(skill.AbsDir),
			Resources: skill.Resources,
		},
	}

	out := operation.IntoToolOutput(op, domain.ToolKindSkill, operation.TempContentFiles{}, t.rt.Env, t.rt.Metrics)
	return resultFromOutput(call, out)
}
