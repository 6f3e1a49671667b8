package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespilot/internal/db"
	"salespilot/internal/llm"
	"salespilot/internal/tools"
)

// scriptedClient answers each round with a scripted function of the request,
// recording every request for assertions.
type scriptedClient struct {
	steps    []func(req llm.Request) (*llm.Response, error)
	requests []llm.Request
}

func (c *scriptedClient) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	c.requests = append(c.requests, req)
	i := len(c.requests) - 1
	if i < len(c.steps) {
		return c.steps[i](req)
	}
	return &llm.Response{Content: "unexpected extra round"}, nil
}

func respond(resp *llm.Response) func(llm.Request) (*llm.Response, error) {
	return func(llm.Request) (*llm.Response, error) { return resp, nil }
}

func echoRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	registry := tools.NewRegistry()
	registry.Register(tools.Tool{
		Name:        "echo",
		Description: "echoes its input",
		InputSchema: map[string]any{"type": "object"},
		Handler: func(ctx context.Context, actingAgent string, args map[string]any) string {
			return fmt.Sprintf("echo: %v", args["value"])
		},
	})
	return registry
}

func TestAnswer_DirectAnswer(t *testing.T) {
	client := &scriptedClient{steps: []func(llm.Request) (*llm.Response, error){
		respond(&llm.Response{Content: "There are 85 accounts."}),
	}}
	loop := NewLoop(client, echoRegistry(t), "test-model", 5)

	answer := loop.Answer(context.Background(), "How many accounts?", "Anna Snelling")
	assert.Equal(t, "There are 85 accounts.", answer)

	// System message carries the acting agent identity.
	require.NotEmpty(t, client.requests)
	sys := client.requests[0].Messages[0]
	assert.Equal(t, llm.RoleSystem, sys.Role)
	assert.Contains(t, sys.Content, "Anna Snelling")
}

func TestAnswer_EmptyContentFallback(t *testing.T) {
	client := &scriptedClient{steps: []func(llm.Request) (*llm.Response, error){
		respond(&llm.Response{Content: ""}),
	}}
	loop := NewLoop(client, echoRegistry(t), "test-model", 5)

	answer := loop.Answer(context.Background(), "anything", "Anna Snelling")
	assert.Equal(t, "I'm not sure how to help with that.", answer)
}

func TestAnswer_ToolRoundTrip(t *testing.T) {
	client := &scriptedClient{steps: []func(llm.Request) (*llm.Response, error){
		respond(&llm.Response{ToolCalls: []llm.ToolCall{
			{ID: "call_1", Name: "echo", Arguments: map[string]any{"value": "a"}},
			{ID: "call_2", Name: "echo", Arguments: map[string]any{"value": "b"}},
		}}),
		respond(&llm.Response{Content: "final answer"}),
	}}
	loop := NewLoop(client, echoRegistry(t), "test-model", 5)

	answer := loop.Answer(context.Background(), "run the echoes", "Anna Snelling")
	assert.Equal(t, "final answer", answer)
	require.Len(t, client.requests, 2)

	// Second round sees: system, user, assistant (with tool calls), and one
	// tool message per request with matching ids, in request order.
	msgs := client.requests[1].Messages
	require.Len(t, msgs, 5)

	assistant := msgs[2]
	assert.Equal(t, llm.RoleAssistant, assistant.Role)
	require.Len(t, assistant.ToolCalls, 2)
	assert.Equal(t, "call_1", assistant.ToolCalls[0].ID)

	assert.Equal(t, llm.RoleTool, msgs[3].Role)
	assert.Equal(t, "call_1", msgs[3].ToolCallID)
	assert.Equal(t, "echo: a", msgs[3].Content)
	assert.Equal(t, llm.RoleTool, msgs[4].Role)
	assert.Equal(t, "call_2", msgs[4].ToolCallID)
	assert.Equal(t, "echo: b", msgs[4].Content)
}

func TestAnswer_UnknownToolFedBack(t *testing.T) {
	client := &scriptedClient{steps: []func(llm.Request) (*llm.Response, error){
		respond(&llm.Response{ToolCalls: []llm.ToolCall{
			{ID: "call_1", Name: "bogus", Arguments: map[string]any{}},
		}}),
		respond(&llm.Response{Content: "recovered"}),
	}}
	loop := NewLoop(client, echoRegistry(t), "test-model", 5)

	answer := loop.Answer(context.Background(), "use a bad tool", "Anna Snelling")
	assert.Equal(t, "recovered", answer)

	msgs := client.requests[1].Messages
	assert.Equal(t, "Error: Tool 'bogus' not found.", msgs[len(msgs)-1].Content)
}

func TestAnswer_IterationLimit(t *testing.T) {
	keepCalling := respond(&llm.Response{ToolCalls: []llm.ToolCall{
		{ID: "call_x", Name: "echo", Arguments: map[string]any{"value": "again"}},
	}})
	client := &scriptedClient{steps: []func(llm.Request) (*llm.Response, error){
		keepCalling, keepCalling, keepCalling, keepCalling, keepCalling, keepCalling,
	}}
	loop := NewLoop(client, echoRegistry(t), "test-model", 3)

	answer := loop.Answer(context.Background(), "loop forever", "Anna Snelling")
	assert.Equal(t, "I've gathered information but reached my processing limit", answer)
	assert.Len(t, client.requests, 3)
}

func TestAnswer_ModelFailure(t *testing.T) {
	client := &scriptedClient{steps: []func(llm.Request) (*llm.Response, error){
		func(llm.Request) (*llm.Response, error) { return nil, fmt.Errorf("rate limited") },
	}}
	loop := NewLoop(client, echoRegistry(t), "test-model", 5)

	answer := loop.Answer(context.Background(), "anything", "Anna Snelling")
	assert.True(t, strings.HasPrefix(answer, "An error occurred while processing your request:"))
	assert.Contains(t, answer, "rate limited")
}

func TestAnswer_HandlerPanicRecovered(t *testing.T) {
	registry := tools.NewRegistry()
	registry.Register(tools.Tool{
		Name:        "boom",
		Description: "always panics",
		InputSchema: map[string]any{"type": "object"},
		Handler: func(ctx context.Context, actingAgent string, args map[string]any) string {
			panic("handler exploded")
		},
	})
	client := &scriptedClient{steps: []func(llm.Request) (*llm.Response, error){
		respond(&llm.Response{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "boom"}}}),
	}}
	loop := NewLoop(client, registry, "test-model", 5)

	answer := loop.Answer(context.Background(), "trigger it", "Anna Snelling")
	assert.Contains(t, answer, "An error occurred while processing your request:")
	assert.Contains(t, answer, "handler exploded")
}

// Scenario: an agent with no open engagements asks for their open items.
func TestAnswer_OpenWorkEmptyForAgent(t *testing.T) {
	_, path := db.NewTest(t)
	executor := db.NewExecutor(path)

	registry := tools.NewRegistry()
	registry.Register(tools.OpenWorkTool(tools.NewWorkReporter(executor)))

	client := &scriptedClient{steps: []func(llm.Request) (*llm.Response, error){
		respond(&llm.Response{ToolCalls: []llm.ToolCall{
			{ID: "call_1", Name: "open_work", Arguments: map[string]any{}},
		}}),
		// Synthesize from the tool result, as the system message instructs.
		func(req llm.Request) (*llm.Response, error) {
			last := req.Messages[len(req.Messages)-1]
			return &llm.Response{Content: last.Content}, nil
		},
	}}
	loop := NewLoop(client, registry, "test-model", 5)

	answer := loop.Answer(context.Background(), "What are my open items?", "Jane Doe")
	assert.Contains(t, answer, "No outstanding work items found for sales agent 'Jane Doe'.")
}

// One loop over one registry serves different acting agents without leaking
// one agent's report into another's run.
func TestAnswer_OpenWorkFollowsPerCallAgent(t *testing.T) {
	database, path := db.NewTest(t)
	_, err := database.Conn().Exec(`
		INSERT INTO accounts (account_id, account) VALUES (1, 'Hottechi');
		INSERT INTO products (product_id, product) VALUES (10, 'GTX Basic');
		INSERT INTO sales_pipeline (opportunity_id, sales_agent, product_id, account_id, deal_stage) VALUES
		 ('OPP1', 'Anna Snelling', 10, 1, 'Engaging');
	`)
	require.NoError(t, err)

	registry := tools.NewRegistry()
	registry.Register(tools.OpenWorkTool(tools.NewWorkReporter(db.NewExecutor(path))))

	steps := func() []func(llm.Request) (*llm.Response, error) {
		return []func(llm.Request) (*llm.Response, error){
			respond(&llm.Response{ToolCalls: []llm.ToolCall{
				{ID: "call_1", Name: "open_work", Arguments: map[string]any{}},
			}}),
			func(req llm.Request) (*llm.Response, error) {
				last := req.Messages[len(req.Messages)-1]
				return &llm.Response{Content: last.Content}, nil
			},
		}
	}

	annaLoop := NewLoop(&scriptedClient{steps: steps()}, registry, "test-model", 5)
	answer := annaLoop.Answer(context.Background(), "What are my open items?", "Anna Snelling")
	assert.Contains(t, answer, "Outstanding Work Items for Anna Snelling (1 found):")
	assert.Contains(t, answer, "Hottechi")

	vickiLoop := NewLoop(&scriptedClient{steps: steps()}, registry, "test-model", 5)
	answer = vickiLoop.Answer(context.Background(), "What are my open items?", "Vicki Laflamme")
	assert.Contains(t, answer, "No outstanding work items found for sales agent 'Vicki Laflamme'.")
	assert.NotContains(t, answer, "Hottechi")
}
