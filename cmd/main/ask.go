package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"salespilot/internal/config"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a question",
	Long:  "Run one question through the orchestration loop and print the synthesized answer.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	agentFlag, _ := cmd.Flags().GetString("agent")
	actingAgent := resolveAgent(agentFlag, cfg)

	loop, err := buildLoop(cfg)
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	fmt.Println(dimStyle.Render(fmt.Sprintf("Acting agent: %s", actingAgent)))

	answer := loop.Answer(cmd.Context(), question, actingAgent)
	fmt.Println(answerStyle.Render(answer))
	return nil
}
