package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"salespilot/internal/config"
	"salespilot/internal/db"
	"salespilot/internal/tools"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print scored contact recommendations without going through the LLM",
	RunE:  runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	n, _ := cmd.Flags().GetInt("n")
	sector, _ := cmd.Flags().GetString("sector")

	recommender := tools.NewRecommender(db.NewExecutor(cfg.DatabasePath))
	scores, err := recommender.Recommend(cmd.Context(), n, sector)
	if err != nil {
		return err
	}

	if len(scores) == 0 {
		fmt.Println("No accounts found.")
		return nil
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Top %d Contact Recommendations", len(scores))))
	for rank, s := range scores {
		lastStr := s.LastTouch
		if lastStr == "" {
			lastStr = "never"
		}
		fmt.Printf("%d. %s (%s) - Score: %.1f/100\n   Why contact: %s.\n   Last contact: %s\n",
			rank+1, s.Account, s.Sector, s.Score, s.Reason, lastStr)
	}
	return nil
}
