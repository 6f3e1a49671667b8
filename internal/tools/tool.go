// Package tools holds the assistant's capabilities: ad-hoc SQL generation,
// the open-work report, and the contact recommendation engine, plus the
// registry that exposes them to the reasoning model.
package tools

import (
	"context"
	"fmt"

	"salespilot/internal/llm"
	"salespilot/internal/logging"
)

// Handler executes one tool call and always returns formatted text; failures
// are reported inside the text, never as a panic or error value, so the
// orchestration loop can feed them back to the model. actingAgent is the
// identity of the user the call runs for, threaded per call so one registry
// can serve requests on behalf of different agents.
type Handler func(ctx context.Context, actingAgent string, args map[string]any) string

// Tool is one capability exposed to the reasoning model.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     Handler
}

// Registry maps tool names to tools. A registry is built once at loop
// construction and injected; there is no process-wide instance, so tests and
// concurrent hosts can hold distinct tool sets.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering the same name twice silently overwrites
// the earlier entry (last write wins).
func (r *Registry) Register(tool Tool) {
	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool
}

// Manifest returns the capability list handed to the reasoning model, in
// registration order.
func (r *Registry) Manifest() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		specs = append(specs, llm.ToolSpec{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
	return specs
}

// Dispatch runs the named tool for actingAgent. An unknown name yields an
// error text result for the model to react to, not a loop-level fault.
func (r *Registry) Dispatch(ctx context.Context, name, actingAgent string, args map[string]any) string {
	tool, ok := r.tools[name]
	if !ok {
		logging.Error("dispatch of unknown tool %q", name)
		return fmt.Sprintf("Error: Tool '%s' not found.", name)
	}
	logging.Debug("dispatching tool %s for %s with args %v", name, actingAgent, args)
	return tool.Handler(ctx, actingAgent, args)
}

// argString extracts an optional string argument.
func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// argInt extracts an optional integer argument, tolerating the float64
// values JSON decoding produces.
func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
