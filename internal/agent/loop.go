// Package agent implements the reasoning/act loop that turns a user question
// into a final answer by orchestrating tool calls.
package agent

import (
	"context"
	"fmt"

	"salespilot/internal/llm"
	"salespilot/internal/logging"
	"salespilot/internal/tools"
)

const (
	// DefaultMaxIterations bounds the reasoning rounds per question.
	DefaultMaxIterations = 5

	fallbackAnswer     = "I'm not sure how to help with that."
	limitReachedAnswer = "I've gathered information but reached my processing limit"
	errorAnswerPrefix  = "An error occurred while processing your request: "
)

// Loop drives one question end-to-end. Instances are cheap; a concurrent
// host creates one per request. The registry and acting agent are injected
// explicitly so independent loops can hold distinct tool sets.
type Loop struct {
	client        llm.Client
	registry      *tools.Registry
	model         string
	maxIterations int
}

func NewLoop(client llm.Client, registry *tools.Registry, model string, maxIterations int) *Loop {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Loop{
		client:        client,
		registry:      registry,
		model:         model,
		maxIterations: maxIterations,
	}
}

// Answer processes one user question on behalf of actingAgent. It never
// returns an error: every failure path yields a natural-language explanation.
func (l *Loop) Answer(ctx context.Context, question, actingAgent string) (answer string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("orchestration loop panic: %v", r)
			answer = fmt.Sprintf("%s%v", errorAnswerPrefix, r)
		}
	}()

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: l.systemMessage(actingAgent)},
		{Role: llm.RoleUser, Content: question},
	}
	manifest := l.registry.Manifest()

	for iteration := 0; iteration < l.maxIterations; iteration++ {
		logging.Debug("reasoning round %d/%d (%d messages)", iteration+1, l.maxIterations, len(messages))

		resp, err := l.client.Complete(ctx, llm.Request{
			Model:    l.model,
			Messages: messages,
			Tools:    manifest,
		})
		if err != nil {
			logging.Error("reasoning model call failed: %v", err)
			return errorAnswerPrefix + err.Error()
		}

		// No tool requests means the model has its final answer.
		if len(resp.ToolCalls) == 0 {
			if resp.Content == "" {
				return fallbackAnswer
			}
			return resp.Content
		}

		// Append the assistant turn verbatim, tool-call structure included,
		// so later rounds retain full context of what was requested.
		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// Execute each request in the order received, one tool message per
		// request, tagged with its originating id.
		for _, call := range resp.ToolCalls {
			logging.Debug("executing tool %s (%s)", call.Name, call.ID)
			result := l.registry.Dispatch(ctx, call.Name, actingAgent, call.Arguments)
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return limitReachedAnswer
}

func (l *Loop) systemMessage(actingAgent string) string {
	if actingAgent == "" {
		actingAgent = "Unknown"
	}
	return fmt.Sprintf(`You are a helpful sales assistant with access to a CRM database.

Current User: %s

You have multiple tools available:
- text_to_sql: For flexible, ad-hoc queries about any data in the database
- open_work: For quickly getting outstanding work items (automatically filtered for the current user)
- recommend_contacts: For scored recommendations of which accounts to contact next

IMPORTANT: For questions asking about multiple things (like "open work AND deals closing soon"):
1. Call open_work first
2. Then call text_to_sql for the additional information
3. After gathering all information, provide a synthesized, prioritized answer combining both results

Do NOT just return raw tool output - always provide a final synthesized answer after gathering information.`, actingAgent)
}
