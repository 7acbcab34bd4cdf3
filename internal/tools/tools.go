package tools

import (
	"io"

	"github.com/margaycli/margay/internal/llmtool"
)

// All returns the full toolset for a runtime. Interactive streams feed the
// follow_up tool; pass isTTY=false to make it degrade to interruption
// markers.
func All(rt *Runtime, in io.Reader, out io.Writer, isTTY bool) []llmtool.Tool {
	return []llmtool.Tool{
		NewReadFileTool(rt),
		NewWriteFileTool(rt),
		NewPatchFileTool(rt),
		NewRemoveFileTool(rt),
		NewUndoFileTool(rt),
		NewSearchTool(rt),
		NewShellTool(rt),
		NewFetchTool(rt),
		NewCreatePlanTool(rt),
		NewSkillTool(rt),
		NewFollowUpTool(rt, in, out, isTTY),
	}
}

// Lookup finds a tool by name.
func Lookup(toolset []llmtool.Tool, name string) (llmtool.Tool, bool) {
	for _, t := range toolset {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}
