package db

import (
	"context"
	"fmt"
	"strings"
)

// columns whose content is free text; sample values would bloat the prompt.
var textNoteColumns = map[string]bool{
	"comment":     true,
	"description": true,
	"notes":       true,
}

// SchemaInfo builds a textual description of every table and view, including
// up to five sample values per column. The output is fed verbatim into the
// SQL generation prompt.
func (e *Executor) SchemaInfo(ctx context.Context) (string, error) {
	objects, err := e.Query(ctx, `
		SELECT name, type
		FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return "", fmt.Errorf("failed to list tables: %w", err)
	}

	var b strings.Builder
	b.WriteString("Database Schema:\n")

	for _, obj := range objects.Rows {
		name, kind := obj[0], obj[1]
		b.WriteString(fmt.Sprintf("\n%s: %s\n", strings.ToUpper(kind), name))

		cols, err := e.Query(ctx, fmt.Sprintf("PRAGMA table_info(%q)", name))
		if err != nil {
			return "", fmt.Errorf("failed to describe %s: %w", name, err)
		}

		for _, col := range cols.Rows {
			// PRAGMA table_info columns: cid, name, type, notnull, dflt_value, pk
			colName, colType := col[1], col[2]
			if colType == "" {
				colType = "ANY"
			}

			if textNoteColumns[strings.ToLower(colName)] {
				b.WriteString(fmt.Sprintf("  - %s (%s) [contains text notes]\n", colName, colType))
				continue
			}

			samples, err := e.Query(ctx, fmt.Sprintf(
				"SELECT DISTINCT %q FROM %q WHERE %q IS NOT NULL LIMIT 5", colName, name, colName))
			if err != nil || samples.Empty() {
				b.WriteString(fmt.Sprintf("  - %s (%s)\n", colName, colType))
				continue
			}

			vals := make([]string, 0, len(samples.Rows))
			for _, row := range samples.Rows {
				v := row[0]
				if len(v) > 50 {
					v = v[:50] + "..."
				}
				vals = append(vals, v)
			}
			b.WriteString(fmt.Sprintf("  - %s (%s) [examples: %s]\n", colName, colType, strings.Join(vals, ", ")))
		}
	}

	return b.String(), nil
}

// BusinessContext returns the fixed prompt text describing entity
// relationships, the canonical views, and known naming quirks.
func BusinessContext() string {
	return `Business Context & Table Relationships:

KEY RELATIONSHIPS:
- accounts.account_id -> sales_pipeline.account_id (one-to-many)
- accounts.account_id -> interactions.account_id (one-to-many)
- products.product_id -> sales_pipeline.product_id (one-to-many)
- sales_teams.sales_agent -> sales_pipeline.sales_agent (one-to-many)

IMPORTANT VIEWS (use these for common queries):
- v_open_work: Outstanding work items (deals in 'Engaging' stage)
- v_pipeline_snapshot: Current state of all deals
- v_accounts_summary: Account overview with last touch date
- v_interactions_norm: Normalized interaction history

BUSINESS RULES:
- Deal stages: Prospecting -> Engaging -> Won/Lost
- "Outstanding items" or "open work" = deals in 'Engaging' stage
- "Last touch" = most recent interaction date with an account

EXAMPLE QUERIES:

Q: "Show me all accounts in the technology sector"
A: SELECT account_id, account, sector, revenue FROM accounts WHERE sector = 'technolgy';

Q: "What deals does Elease Gluck have?"
A: SELECT * FROM sales_pipeline WHERE sales_agent = 'Elease Gluck';

Q: "Show me engaging stage deals"
A: SELECT * FROM v_pipeline_snapshot WHERE deal_stage = 'Engaging';

Q: "Which accounts haven't been contacted recently?"
A: SELECT account_id, account, last_touch FROM v_accounts_summary WHERE last_touch < DATE('now', '-30 days');

CRITICAL: When querying the 'accounts' table, the company name column is 'account' NOT 'account_name'.`
}
