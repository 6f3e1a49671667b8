package main

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"salespilot/internal/config"
	"salespilot/internal/eval"
	"salespilot/internal/llm"
	"salespilot/pkg/models"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the assistant against the golden question set",
	Long: `Run every golden case through the orchestration loop, score each answer
with an independent judge model, print a summary, and persist the results as
a timestamped JSON batch.`,
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	agentFlag, _ := cmd.Flags().GetString("agent")
	category, _ := cmd.Flags().GetString("category")
	goldenPath, _ := cmd.Flags().GetString("golden")

	defaultAgent := resolveAgent(agentFlag, cfg)
	fs := afero.NewOsFs()

	cases, err := loadCases(fs, goldenPath)
	if err != nil {
		return err
	}

	loop, err := buildLoop(cfg)
	if err != nil {
		return err
	}

	judge := eval.NewJudge(llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), cfg.JudgeModel)
	runner := eval.NewRunner(loop, judge)

	total := len(eval.FilterByCategory(cases, category))
	fmt.Println(titleStyle.Render(fmt.Sprintf("CRM Assistant Evaluation | %d test cases", total)))

	results := runner.Run(cmd.Context(), cases, eval.Options{
		Category:     category,
		DefaultAgent: defaultAgent,
		Progress: func(done, total int) {
			fmt.Println(dimStyle.Render(fmt.Sprintf("progress: %d/%d", done, total)))
		},
	})

	printSummary(results)

	path, err := eval.Save(fs, cfg.EvalOutputDir, results, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Results saved to: %s\n", path)
	return nil
}

func loadCases(fs afero.Fs, goldenPath string) ([]eval.GoldenCase, error) {
	if goldenPath != "" {
		return eval.LoadGoldenSet(fs, goldenPath)
	}
	return eval.DefaultGoldenSet()
}

func printSummary(results []models.EvaluationResult) {
	summaries, overall := eval.Summarize(results)

	fmt.Println(titleStyle.Render("SUMMARY"))
	fmt.Printf("  %-22s %3s  %10s  %5s  %5s\n", "Category", "N", "Avg Score", "Min", "Max")
	for _, s := range summaries {
		fmt.Printf("  %-22s %3d  %10.2f  %5.2f  %5.2f\n", s.Category, s.Count, s.Average, s.Min, s.Max)
	}
	fmt.Printf("  %-22s %3d  %10.2f  %5.2f  %5.2f\n", overall.Category, overall.Count, overall.Average, overall.Min, overall.Max)
}
