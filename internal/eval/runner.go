package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"salespilot/internal/logging"
	"salespilot/pkg/models"
)

// Answerer is the assistant under evaluation. *agent.Loop satisfies it; the
// harness treats it as a black box.
type Answerer interface {
	Answer(ctx context.Context, question, actingAgent string) string
}

// Options controls one evaluation run.
type Options struct {
	Category     string // run only this category when non-empty
	DefaultAgent string // acting agent for cases that do not name one
	Progress     func(done, total int)
}

// Runner drives golden cases through the assistant and judges each answer.
// Cases run strictly sequentially.
type Runner struct {
	answerer Answerer
	judge    *Judge
}

func NewRunner(answerer Answerer, judge *Judge) *Runner {
	return &Runner{answerer: answerer, judge: judge}
}

// Run evaluates the given cases and returns one result per case.
func (r *Runner) Run(ctx context.Context, cases []GoldenCase, opts Options) []models.EvaluationResult {
	cases = FilterByCategory(cases, opts.Category)
	results := make([]models.EvaluationResult, 0, len(cases))

	for i, c := range cases {
		actingAgent := c.SalesAgent
		if actingAgent == "" {
			actingAgent = opts.DefaultAgent
		}

		logging.Info("[%d/%d] %s (%s) agent=%s", i+1, len(cases), c.ID, c.Category, actingAgent)

		response := r.answerer.Answer(ctx, c.Question, actingAgent)
		scores := r.judge.Score(ctx, c.Question, response)
		avg := math.Round(scores.Average()*100) / 100

		logging.Info("  scores: rel=%d acc=%d comp=%d help=%d safety=%d -> avg=%.1f/5.0",
			scores.Relevance, scores.Accuracy, scores.Completeness,
			scores.Helpfulness, scores.Safety, avg)

		results = append(results, models.EvaluationResult{
			ID:           c.ID,
			Category:     c.Category,
			SalesAgent:   actingAgent,
			Question:     c.Question,
			Response:     response,
			Scores:       scores,
			AverageScore: avg,
		})

		if opts.Progress != nil {
			opts.Progress(i+1, len(cases))
		}
	}

	return results
}

// CategorySummary aggregates average scores for one category.
type CategorySummary struct {
	Category string
	Count    int
	Average  float64
	Min      float64
	Max      float64
}

// Summarize computes per-category summaries (sorted by category name) and
// the overall summary across all results.
func Summarize(results []models.EvaluationResult) ([]CategorySummary, CategorySummary) {
	byCategory := make(map[string][]float64)
	for _, r := range results {
		byCategory[r.Category] = append(byCategory[r.Category], r.AverageScore)
	}

	summaries := make([]CategorySummary, 0, len(byCategory))
	for category, scores := range byCategory {
		summaries = append(summaries, summarizeScores(category, scores))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Category < summaries[j].Category
	})

	all := make([]float64, 0, len(results))
	for _, r := range results {
		all = append(all, r.AverageScore)
	}
	return summaries, summarizeScores("OVERALL", all)
}

func summarizeScores(label string, scores []float64) CategorySummary {
	s := CategorySummary{Category: label, Count: len(scores)}
	if len(scores) == 0 {
		return s
	}
	s.Min, s.Max = scores[0], scores[0]
	var sum float64
	for _, v := range scores {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Average = sum / float64(len(scores))
	return s
}

// ResultBatch is the persisted form of one evaluation run.
type ResultBatch struct {
	BatchID   string                    `json:"batch_id"`
	CreatedAt time.Time                 `json:"created_at"`
	Results   []models.EvaluationResult `json:"results"`
}

// Save writes the results as one immutable timestamped JSON batch and
// returns the file path.
func Save(fs afero.Fs, dir string, results []models.EvaluationResult, now time.Time) (string, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	batch := ResultBatch{
		BatchID:   uuid.NewString(),
		CreatedAt: now,
		Results:   results,
	}
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("results_%s.json", now.Format("20060102_150405")))
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write results: %w", err)
	}
	return path, nil
}
