package tools

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"salespilot/internal/db"
	"salespilot/pkg/models"
)

// Scoring weights for the contact recommendation engine (100-point scale).
const (
	propensityWeight = 40.0
	revenueWeight    = 20.0
	recencyWeight    = 40.0
	recencyCapDays   = 90
)

// Recommender ranks accounts by contact priority. Scores are deterministic
// given database state and a point in time.
type Recommender struct {
	executor *db.Executor
	now      func() time.Time
}

func NewRecommender(executor *db.Executor) *Recommender {
	return &Recommender{executor: executor, now: time.Now}
}

// ScoreAccount computes the composite 0-100 priority score.
//
//	propensity * 40
//	+ revenue / maxRevenue * 20      (0 when maxRevenue is 0)
//	+ min(days, 90) / 90 * 40
func ScoreAccount(propensity, revenue, maxRevenue float64, daysSinceContact int) float64 {
	score := propensity * propensityWeight

	if maxRevenue > 0 {
		score += revenue / maxRevenue * revenueWeight
	}

	days := float64(daysSinceContact)
	if days > recencyCapDays {
		days = recencyCapDays
	}
	score += days / recencyCapDays * recencyWeight

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return math.Round(score*10) / 10
}

// Recommend returns the top n accounts by score, optionally filtered to a
// sector (case-insensitive exact match, bound parameter).
func (r *Recommender) Recommend(ctx context.Context, n int, sector string) ([]models.AccountScore, error) {
	if n <= 0 {
		n = 3
	}

	query := `
		SELECT account_id, account, sector, revenue, propensity_to_buy,
		       last_touch, has_open_work
		FROM v_accounts_summary`
	var args []any
	if sector != "" {
		query += " WHERE LOWER(sector) = LOWER(?)"
		args = append(args, sector)
	}

	rows, err := r.executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account summaries: %w", err)
	}

	// The revenue term is normalized against the whole book of business,
	// not the filtered subset.
	maxRevenue, err := r.maxRevenue(ctx)
	if err != nil {
		return nil, err
	}

	today := r.now()
	scores := make([]models.AccountScore, 0, len(rows.Rows))
	for _, row := range rows.Rows {
		rec := models.AccountScore{
			AccountID:       parseInt64(row[0]),
			Account:         row[1],
			Sector:          row[2],
			Revenue:         parseFloat(row[3]),
			PropensityToBuy: parseFloat(row[4]),
			LastTouch:       row[5],
			HasOpenWork:     row[6] == "1",
		}
		rec.DaysSinceContact = daysSince(rec.LastTouch, today)
		rec.Score = ScoreAccount(rec.PropensityToBuy, rec.Revenue, maxRevenue, rec.DaysSinceContact)
		rec.Reason = reasonFor(rec)
		scores = append(scores, rec)
	}

	// Stable sort keeps ties in natural row order.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores, nil
}

func (r *Recommender) maxRevenue(ctx context.Context) (float64, error) {
	result, err := r.executor.Query(ctx, "SELECT MAX(revenue) FROM accounts WHERE revenue IS NOT NULL")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch max revenue: %w", err)
	}
	if result.Empty() || result.Rows[0][0] == "" {
		return 0, nil
	}
	return parseFloat(result.Rows[0][0]), nil
}

// daysSince returns whole days between lastTouch (YYYY-MM-DD) and today.
// A missing or unparseable last touch counts as maximally stale.
func daysSince(lastTouch string, today time.Time) int {
	if lastTouch == "" {
		return recencyCapDays
	}
	t, err := time.Parse("2006-01-02", lastTouch[:min(len(lastTouch), 10)])
	if err != nil {
		return recencyCapDays
	}
	days := int(today.Sub(t).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days
}

// reasonFor builds the human-readable rationale. Every matching rule fires;
// the rules are not mutually exclusive.
func reasonFor(rec models.AccountScore) string {
	var reasons []string

	if rec.PropensityToBuy >= 0.65 {
		reasons = append(reasons, fmt.Sprintf("high propensity to buy (%.0f%%)", rec.PropensityToBuy*100))
	} else if rec.PropensityToBuy >= 0.45 {
		reasons = append(reasons, fmt.Sprintf("moderate propensity to buy (%.0f%%)", rec.PropensityToBuy*100))
	}

	if rec.Revenue >= 5000 {
		reasons = append(reasons, fmt.Sprintf("high-value account ($%.0fM revenue)", rec.Revenue))
	} else if rec.Revenue >= 1000 {
		reasons = append(reasons, fmt.Sprintf("mid-market account ($%.0fM revenue)", rec.Revenue))
	}

	if rec.DaysSinceContact >= recencyCapDays {
		reasons = append(reasons, fmt.Sprintf("relationship has gone cold (%d days since last contact)", rec.DaysSinceContact))
	} else if rec.DaysSinceContact >= 30 {
		reasons = append(reasons, fmt.Sprintf("not contacted recently (%d days ago)", rec.DaysSinceContact))
	}

	if rec.HasOpenWork {
		reasons = append(reasons, "has an active deal in pipeline")
	}
	if rec.LastTouch == "" {
		reasons = append(reasons, "never contacted - high-potential new outreach")
	}

	if len(reasons) == 0 {
		return "strong overall profile"
	}
	return strings.Join(reasons, "; ")
}

// RecommendTool wraps the recommender as a registry tool.
func RecommendTool(rec *Recommender) Tool {
	return Tool{
		Name:        "recommend_contacts",
		Description: "Recommend which accounts to contact next using a scoring model.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"n":      map[string]any{"type": "integer", "description": "Number of recommendations to return (default 3)."},
				"sector": map[string]any{"type": "string", "description": "Optional industry sector filter."},
			},
		},
		Handler: func(ctx context.Context, actingAgent string, args map[string]any) string {
			n := argInt(args, "n", 3)
			sector := strings.TrimSpace(argString(args, "sector"))

			scores, err := rec.Recommend(ctx, n, sector)
			if err != nil {
				return fmt.Sprintf("Error generating recommendations: %v", err)
			}

			if len(scores) == 0 {
				msg := "No accounts found"
				if sector != "" {
					msg += fmt.Sprintf(" in sector '%s'", sector)
				}
				return msg + "."
			}

			lines := []string{fmt.Sprintf("Top %d Contact Recommendations\n", len(scores))}
			for rank, s := range scores {
				lastStr := s.LastTouch
				if lastStr == "" {
					lastStr = "never"
				}
				lines = append(lines, fmt.Sprintf(
					"%d. %s (%s) - Score: %.1f/100\n   Why contact: %s.\n   Last contact: %s",
					rank+1, s.Account, s.Sector, s.Score, s.Reason, lastStr))
			}
			return strings.Join(lines, "\n\n")
		},
	}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
