package tools

import (
	"context"
	"fmt"
	"strings"

	"salespilot/internal/db"
	"salespilot/pkg/models"
)

const (
	defaultWorkLimit   = 25
	commentSnippetRune = 80
)

// WorkReporter fetches outstanding engagements for one sales agent.
type WorkReporter struct {
	executor *db.Executor
}

func NewWorkReporter(executor *db.Executor) *WorkReporter {
	return &WorkReporter{executor: executor}
}

// OpenWork returns up to limit open engagements, optionally filtered to one
// agent (case-insensitive exact match, bound parameter). Ordered by most
// recent activity, items without any activity last.
func (w *WorkReporter) OpenWork(ctx context.Context, limit int, salesAgent string) ([]models.WorkItem, error) {
	if limit <= 0 {
		limit = defaultWorkLimit
	}

	query := `
		SELECT account_id, account, deal_stage, sales_agent, product,
		       activity_type, status_lc, d_interaction, comment
		FROM v_open_work`
	var args []any
	if salesAgent != "" {
		query += " WHERE LOWER(sales_agent) = LOWER(?)"
		args = append(args, salesAgent)
	}
	query += " ORDER BY d_interaction IS NULL, d_interaction DESC LIMIT ?"
	args = append(args, limit)

	result, err := w.executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open work: %w", err)
	}

	items := make([]models.WorkItem, 0, len(result.Rows))
	for _, row := range result.Rows {
		items = append(items, models.WorkItem{
			AccountID:        parseInt64(row[0]),
			Account:          row[1],
			DealStage:        row[2],
			SalesAgent:       row[3],
			Product:          row[4],
			ActivityType:     row[5],
			Status:           row[6],
			LastActivityDate: row[7],
			Comment:          row[8],
		})
	}
	return items, nil
}

// FormatWorkItems renders the open-work report. An empty item list always
// yields an explicit "no items found" message.
func FormatWorkItems(items []models.WorkItem, salesAgent string) string {
	if len(items) == 0 {
		return fmt.Sprintf("No outstanding work items found for sales agent '%s'.", salesAgent)
	}

	lines := []string{fmt.Sprintf("Outstanding Work Items for %s (%d found):", salesAgent, len(items))}
	for _, item := range items {
		line := fmt.Sprintf("- %s | %s | Product: %s", item.Account, item.DealStage, item.Product)
		if item.ActivityType != "" {
			line += fmt.Sprintf(" | Last: %s (%s) on %s", item.ActivityType, item.Status, item.LastActivityDate)
		}
		if snippet := strings.TrimSpace(item.Comment); snippet != "" {
			runes := []rune(snippet)
			if len(runes) > commentSnippetRune {
				snippet = string(runes[:commentSnippetRune]) + "..."
			}
			line += fmt.Sprintf("\n  %s", snippet)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// OpenWorkTool wraps the reporter as a registry tool. The acting agent of
// the dispatching request is the fallback when the model supplies no
// sales_agent argument.
func OpenWorkTool(reporter *WorkReporter) Tool {
	return Tool{
		Name:        "open_work",
		Description: "Get outstanding work items and tasks in 'Engaging' stage (automatically filtered for the current sales agent).",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit":       map[string]any{"type": "integer", "description": "Maximum number of items to return (default 25)."},
				"sales_agent": map[string]any{"type": "string", "description": "Override the sales agent to report on."},
			},
		},
		Handler: func(ctx context.Context, actingAgent string, args map[string]any) string {
			limit := argInt(args, "limit", defaultWorkLimit)
			salesAgent := strings.TrimSpace(argString(args, "sales_agent"))
			if salesAgent == "" {
				salesAgent = actingAgent
			}

			items, err := reporter.OpenWork(ctx, limit, salesAgent)
			if err != nil {
				return fmt.Sprintf("Error fetching open work: %v", err)
			}
			return FormatWorkItems(items, salesAgent)
		},
	}
}
