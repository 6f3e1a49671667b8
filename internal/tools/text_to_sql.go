package tools

import (
	"context"
	"fmt"
	"strings"

	"salespilot/internal/db"
	"salespilot/internal/llm"
	"salespilot/internal/logging"
)

// Synthesizer turns a natural-language question into a validated, executable
// SELECT statement. Failed attempts feed their error text back into the next
// prompt, bounded by maxAttempts.
type Synthesizer struct {
	client      llm.Client
	executor    *db.Executor
	model       string
	maxAttempts int
}

func NewSynthesizer(client llm.Client, executor *db.Executor, model string) *Synthesizer {
	return &Synthesizer{
		client:      client,
		executor:    executor,
		model:       model,
		maxAttempts: 2,
	}
}

// Synthesize generates SQL for the question. On success the returned error
// text is empty and the statement has already passed a trial execution. After
// maxAttempts failures both the last SQL and the last error are returned so
// the caller can surface them together.
func (s *Synthesizer) Synthesize(ctx context.Context, question string) (sql string, errText string) {
	schema, err := s.executor.SchemaInfo(ctx)
	if err != nil {
		return "", fmt.Sprintf("failed to read database schema: %v", err)
	}
	businessContext := db.BusinessContext()

	var lastSQL, lastError string

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		var prompt string
		if attempt == 0 {
			prompt = s.firstPrompt(schema, businessContext, question)
		} else {
			prompt = s.retryPrompt(schema, question, lastSQL, lastError)
		}

		resp, err := s.client.Complete(ctx, llm.Request{
			Model:    s.model,
			Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		})
		if err != nil {
			lastError = fmt.Sprintf("SQL generation call failed: %v", err)
			continue
		}

		candidate := stripCodeFences(resp.Content)

		if err := ValidateSQL(candidate); err != nil {
			logging.Debug("attempt %d rejected by guard: %v", attempt+1, err)
			lastSQL = candidate
			lastError = err.Error()
			continue
		}

		// Trial execution: the caller re-executes after we return, so this
		// costs one extra round-trip in exchange for validated output.
		if _, err := s.executor.Query(ctx, candidate); err != nil {
			logging.Debug("attempt %d failed execution: %v", attempt+1, err)
			lastSQL = candidate
			lastError = err.Error()
			continue
		}

		return candidate, ""
	}

	return lastSQL, lastError
}

func (s *Synthesizer) firstPrompt(schema, businessContext, question string) string {
	return fmt.Sprintf(`You are a SQL expert. Given this database schema and a user question, generate a valid SQLite SQL query.

%s

%s

User question: %s

Generate ONLY the SQL query, no explanation. Use read-only SELECT statements only.
Prefer using the views when appropriate for the question.`, schema, businessContext, question)
}

func (s *Synthesizer) retryPrompt(schema, question, lastSQL, lastError string) string {
	return fmt.Sprintf(`Your previous SQL query failed with this error:

Error: %s

Previous query:
%s

Here is the schema again:
%s

User question: %s

Please fix the query. Pay careful attention to:
1. Use the EXACT column names from the schema
2. Check which table/view has the columns you need
3. Generate ONLY the corrected SQL query, no explanation.`, lastError, lastSQL, schema, question)
}

// stripCodeFences removes surrounding markdown fencing from model output.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = ""
		}
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-3]
	}
	return strings.TrimSpace(text)
}

// TextToSQLTool wraps the synthesizer as a registry tool.
func TextToSQLTool(synth *Synthesizer, executor *db.Executor) Tool {
	return Tool{
		Name: "text_to_sql",
		Description: "Generate and execute SQL queries from natural language questions about the " +
			"sales database. Use this for flexible, ad-hoc queries about accounts, deals, " +
			"interactions, products, and sales teams.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "The natural language question to convert to SQL.",
				},
			},
			"required": []string{"question"},
		},
		Handler: func(ctx context.Context, actingAgent string, args map[string]any) string {
			question := argString(args, "question")
			if question == "" {
				return "Error: No question provided."
			}

			sql, errText := synth.Synthesize(ctx, question)
			if errText != "" {
				return fmt.Sprintf("SQL generation failed: %s\n\nLast attempted SQL:\n```sql\n%s\n```", errText, sql)
			}

			result, err := executor.Query(ctx, sql)
			if err != nil {
				return fmt.Sprintf("Error executing query: %v\n\nSQL:\n```sql\n%s\n```", err, sql)
			}
			if result.Empty() {
				return fmt.Sprintf("No results found.\n\nSQL used:\n```sql\n%s\n```", sql)
			}

			return fmt.Sprintf("SQL Query:\n```sql\n%s\n```\n\nFound %d results:\n\n```\n%s```",
				sql, len(result.Rows), result.Table())
		},
	}
}
