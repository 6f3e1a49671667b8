package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"salespilot/internal/config"
	"salespilot/internal/db"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the schema and business-context text fed to the SQL synthesizer",
	RunE:  runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	executor := db.NewExecutor(cfg.DatabasePath)
	schema, err := executor.SchemaInfo(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(schema)
	fmt.Println(db.BusinessContext())
	return nil
}
