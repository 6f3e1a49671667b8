package db

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"salespilot/internal/logging"
)

// csvTables maps table names to the CSV file each one is loaded from.
var csvTables = map[string]string{
	"accounts":       "accounts.csv",
	"products":       "products.csv",
	"interactions":   "interactions.csv",
	"sales_pipeline": "sales_pipeline.csv",
	"sales_teams":    "sales_teams.csv",
}

// LoadCSVDir imports the five CRM source files from dataDir, replacing any
// existing rows. Column names come from each file's header row and must match
// the migrated schema. Returns the number of rows loaded per table.
func (db *DB) LoadCSVDir(dataDir string) (map[string]int, error) {
	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate before load: %w", err)
	}

	counts := make(map[string]int, len(csvTables))
	for _, table := range sortedTableNames() {
		n, err := db.loadCSVFile(table, filepath.Join(dataDir, csvTables[table]))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", table, err)
		}
		logging.Info("Loaded %d rows into %s", n, table)
		counts[table] = n
	}
	return counts, nil
}

// sortedTableNames fixes the load order so logs and failure points are
// reproducible run to run.
func sortedTableNames() []string {
	names := make([]string, 0, len(csvTables))
	for table := range csvTables {
		names = append(names, table)
	}
	sort.Strings(names)
	return names
}

func (db *DB) loadCSVFile(table, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("file %s has no header row", path)
	}

	header := records[0]
	quoted := make([]string, len(header))
	holes := make([]string, len(header))
	for i, col := range header {
		quoted[i] = fmt.Sprintf("%q", strings.TrimSpace(col))
		holes[i] = "?"
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %q", table)); err != nil {
		return 0, fmt.Errorf("failed to clear table: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		table, strings.Join(quoted, ", "), strings.Join(holes, ", ")))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	loaded := 0
	for _, record := range records[1:] {
		args := make([]any, len(header))
		for i := range header {
			if i < len(record) && strings.TrimSpace(record[i]) != "" {
				args[i] = record[i]
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", loaded+2, err)
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return loaded, nil
}
