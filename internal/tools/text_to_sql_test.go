package tools

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespilot/internal/db"
	"salespilot/internal/llm"
)

// fakeClient replays scripted responses and records every request.
type fakeClient struct {
	responses []*llm.Response
	errs      []error
	requests  []llm.Request
}

func (f *fakeClient) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	f.requests = append(f.requests, req)
	i := len(f.requests) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return &llm.Response{Content: ""}, nil
}

func newSeededExecutor(t *testing.T) *db.Executor {
	t.Helper()
	database, path := db.NewTest(t)
	_, err := database.Conn().Exec(
		`INSERT INTO accounts (account_id, account, sector, revenue, propensity_to_buy) VALUES
		 (1, 'Hottechi', 'technolgy', 4269.0, 0.71),
		 (2, 'Konex', 'retail', 1520.0, 0.30)`)
	require.NoError(t, err)
	return db.NewExecutor(path)
}

func TestSynthesize_FirstAttemptSucceeds(t *testing.T) {
	executor := newSeededExecutor(t)
	client := &fakeClient{responses: []*llm.Response{
		{Content: "```sql\nSELECT account FROM accounts\n```"},
	}}

	synth := NewSynthesizer(client, executor, "test-model")
	sql, errText := synth.Synthesize(context.Background(), "list accounts")

	assert.Empty(t, errText)
	assert.Equal(t, "SELECT account FROM accounts", sql)
	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].Messages[0].Content, "Database Schema:")
	assert.Contains(t, client.requests[0].Messages[0].Content, "list accounts")
}

func TestSynthesize_RetriesWithErrorFeedback(t *testing.T) {
	executor := newSeededExecutor(t)
	client := &fakeClient{responses: []*llm.Response{
		{Content: "SELECT * FROM nonexistent_table"},
		{Content: "SELECT account FROM accounts"},
	}}

	synth := NewSynthesizer(client, executor, "test-model")
	sql, errText := synth.Synthesize(context.Background(), "list accounts")

	assert.Empty(t, errText)
	assert.Equal(t, "SELECT account FROM accounts", sql)
	require.Len(t, client.requests, 2)

	// The retry prompt carries the failed SQL and the literal error text.
	retry := client.requests[1].Messages[0].Content
	assert.Contains(t, retry, "SELECT * FROM nonexistent_table")
	assert.Contains(t, retry, "nonexistent_table")
	assert.Contains(t, retry, "EXACT column names")
}

func TestSynthesize_GuardRejection(t *testing.T) {
	executor := newSeededExecutor(t)
	client := &fakeClient{responses: []*llm.Response{
		{Content: "DROP TABLE accounts"},
		{Content: "DELETE FROM accounts"},
	}}

	synth := NewSynthesizer(client, executor, "test-model")
	sql, errText := synth.Synthesize(context.Background(), "remove everything")

	assert.Equal(t, "DELETE FROM accounts", sql)
	assert.NotEmpty(t, errText)
	assert.Contains(t, strings.ToLower(errText), "select")
}

func TestSynthesize_ExhaustionReturnsLastError(t *testing.T) {
	executor := newSeededExecutor(t)
	client := &fakeClient{responses: []*llm.Response{
		{Content: "SELECT * FROM missing_one"},
		{Content: "SELECT * FROM missing_two"},
	}}

	synth := NewSynthesizer(client, executor, "test-model")
	sql, errText := synth.Synthesize(context.Background(), "bad question")

	assert.Equal(t, "SELECT * FROM missing_two", sql)
	assert.NotEmpty(t, errText)
}

func TestSynthesize_ModelFailure(t *testing.T) {
	executor := newSeededExecutor(t)
	client := &fakeClient{errs: []error{
		fmt.Errorf("connection refused"),
		fmt.Errorf("connection refused"),
	}}

	synth := NewSynthesizer(client, executor, "test-model")
	sql, errText := synth.Synthesize(context.Background(), "list accounts")

	assert.Empty(t, sql)
	assert.Contains(t, errText, "connection refused")
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"SELECT 1":                          "SELECT 1",
		"```sql\nSELECT 1\n```":             "SELECT 1",
		"```\nSELECT 1\n```":                "SELECT 1",
		"  ```sql\nSELECT 1\nFROM t\n```  ": "SELECT 1\nFROM t",
	}
	for input, want := range cases {
		assert.Equal(t, want, stripCodeFences(input))
	}
}

func TestTextToSQLTool_Handler(t *testing.T) {
	executor := newSeededExecutor(t)
	client := &fakeClient{responses: []*llm.Response{
		{Content: "SELECT account FROM accounts ORDER BY account_id"},
	}}

	tool := TextToSQLTool(NewSynthesizer(client, executor, "test-model"), executor)

	out := tool.Handler(context.Background(), "Anna Snelling", map[string]any{"question": "list accounts"})
	assert.Contains(t, out, "SELECT account FROM accounts")
	assert.Contains(t, out, "Found 2 results")
	assert.Contains(t, out, "Hottechi")
}

func TestTextToSQLTool_NoQuestion(t *testing.T) {
	executor := newSeededExecutor(t)
	tool := TextToSQLTool(NewSynthesizer(&fakeClient{}, executor, "test-model"), executor)

	out := tool.Handler(context.Background(), "Anna Snelling", map[string]any{})
	assert.Equal(t, "Error: No question provided.", out)
}

func TestTextToSQLTool_SurfacesGenerationFailure(t *testing.T) {
	executor := newSeededExecutor(t)
	client := &fakeClient{responses: []*llm.Response{
		{Content: "DROP TABLE accounts"},
		{Content: "DROP TABLE accounts"},
	}}
	tool := TextToSQLTool(NewSynthesizer(client, executor, "test-model"), executor)

	out := tool.Handler(context.Background(), "Anna Snelling", map[string]any{"question": "destroy"})
	assert.Contains(t, out, "SQL generation failed")
	assert.Contains(t, out, "DROP TABLE accounts")
}
