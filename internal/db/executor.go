package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"salespilot/internal/logging"
)

// Executor runs read-only SQL against the sales database. Every call opens
// its own connection with mode=ro and closes it before returning, so no
// handle is held between tool invocations.
type Executor struct {
	databasePath string
}

func NewExecutor(databasePath string) *Executor {
	return &Executor{databasePath: databasePath}
}

// Result is a tabular query result with every value rendered as text.
// NULLs come back as empty strings.
type Result struct {
	Columns []string
	Rows    [][]string
}

func (r *Result) Empty() bool {
	return len(r.Rows) == 0
}

// Table renders the result as fixed-width text for inclusion in tool output.
// Widths count runes, not bytes, so multibyte values stay aligned.
func (r *Result) Table() string {
	widths := make([]int, len(r.Columns))
	for i, c := range r.Columns {
		widths[i] = utf8.RuneCountInString(c)
	}
	for _, row := range r.Rows {
		for i, v := range row {
			if n := utf8.RuneCountInString(v); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, v := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(v)
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(v)))
		}
		b.WriteString("\n")
	}
	writeRow(r.Columns)
	for _, row := range r.Rows {
		writeRow(row)
	}
	return b.String()
}

// Query executes a single read-only statement and collects all rows.
func (e *Executor) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	conn, err := sql.Open("sqlite", readOnlyDSN(e.databasePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database read-only: %w", err)
	}
	defer conn.Close()

	logging.Debug("executing query: %s", query)

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		raw := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range raw {
			if v.Valid {
				row[i] = v.String
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return result, nil
}
