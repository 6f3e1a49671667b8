package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"salespilot/internal/config"
	"salespilot/internal/db"
	"salespilot/internal/tools"
)

var openWorkCmd = &cobra.Command{
	Use:   "openwork",
	Short: "Print the outstanding work items report for one sales agent",
	RunE:  runOpenWork,
}

func runOpenWork(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	agentFlag, _ := cmd.Flags().GetString("agent")
	limit, _ := cmd.Flags().GetInt("limit")
	salesAgent := resolveAgent(agentFlag, cfg)

	reporter := tools.NewWorkReporter(db.NewExecutor(cfg.DatabasePath))
	items, err := reporter.OpenWork(cmd.Context(), limit, salesAgent)
	if err != nil {
		return err
	}

	fmt.Println(tools.FormatWorkItems(items, salesAgent))
	return nil
}
