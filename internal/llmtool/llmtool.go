// Package llmtool defines the contract between the agent loop and the tool
// runtime: the Tool interface, tool metadata, and the call/result envelope.
package llmtool

import "context"

// ToolInfo describes a tool exposed to the LLM. Parameters holds the named
// arguments of the top-level object parameter, JSON-schema style:
//
//	{"path": {"type": "string", "description": "..."}}
//
// Required lists the keys of Parameters that must be present.
type ToolInfo struct {
	Name        string
	Description string
	Parameters  map[string]any
	Required    []string
}

// ToolCall is one invocation request. Input is the JSON-serialized params.
type ToolCall struct {
	CallID string `json:"call_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Input  string `json:"input"`
}

// ToolResult is the result of a ToolCall. CallID/Name/Type match the call.
// Result is the rendered output text handed to the agent; IsError marks tool
// failures. SourceErr optionally carries the underlying Go error for
// internal use and is never sent to the LLM.
type ToolResult struct {
	CallID string `json:"call_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Result string `json:"result"`

	IsError   bool  `json:"is_error"`
	SourceErr error `json:"-"`
}

// Tool is one dispatchable tool.
type Tool interface {
	Name() string
	Info() ToolInfo

	// Run executes the tool. Failures are reported through the result
	// (IsError true, Result holding a message for the LLM), not panics.
	Run(ctx context.Context, call ToolCall) ToolResult
}

// NewErrorToolResult builds an error result matching the call's identity.
func NewErrorToolResult(errMsg string, call ToolCall) ToolResult {
	return ToolResult{
		CallID:  call.CallID,
		Name:    call.Name,
		Type:    call.Type,
		Result:  errMsg,
		IsError: true,
	}
}
