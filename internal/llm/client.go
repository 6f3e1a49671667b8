// Package llm is the chat-completion boundary shared by the orchestration
// loop, the SQL synthesizer, and the evaluation judge.
package llm

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is one tool invocation request emitted by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Message is one turn in a conversation. ToolCalls is populated on assistant
// messages that request tool execution; ToolCallID links a tool-role message
// back to the request it answers.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolSpec describes one capability handed to the model.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Request is a single chat-completion call.
type Request struct {
	Model       string
	Messages    []Message
	Tools       []ToolSpec
	Temperature *float64
}

// Response carries either a textual answer, tool invocation requests, or both.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Client is implemented by the OpenAI adapter and by fakes in tests.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
