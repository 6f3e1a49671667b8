package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"salespilot/internal/config"
	"salespilot/internal/db"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the CRM CSV files into the sales database",
	Long: `Import accounts, products, interactions, sales_pipeline, and sales_teams
from CSV files, replacing existing rows, and apply the schema views.`,
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dataDir, _ := cmd.Flags().GetString("data")

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer database.Close()

	counts, err := database.LoadCSVDir(dataDir)
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(counts))
	for t := range counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	fmt.Println(titleStyle.Render("Loaded tables:"))
	for _, t := range tables {
		fmt.Printf("  %-16s %d rows\n", t, counts[t])
	}
	return nil
}
