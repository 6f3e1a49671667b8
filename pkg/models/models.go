package models

// AccountScore is one ranked entry from the contact recommendation engine.
// Computed fresh per request; never persisted.
type AccountScore struct {
	AccountID        int64   `json:"account_id"`
	Account          string  `json:"account"`
	Sector           string  `json:"sector"`
	Revenue          float64 `json:"revenue"`
	PropensityToBuy  float64 `json:"propensity_to_buy"`
	DaysSinceContact int     `json:"days_since_contact"`
	LastTouch        string  `json:"last_touch,omitempty"` // empty when never contacted
	HasOpenWork      bool    `json:"has_open_work"`
	Score            float64 `json:"score"`
	Reason           string  `json:"reason"`
}

// WorkItem is one outstanding engagement from the open-work report.
type WorkItem struct {
	AccountID        int64  `json:"account_id"`
	Account          string `json:"account"`
	DealStage        string `json:"deal_stage"`
	SalesAgent       string `json:"sales_agent"`
	Product          string `json:"product"`
	ActivityType     string `json:"activity_type,omitempty"`
	Status           string `json:"status,omitempty"`
	LastActivityDate string `json:"last_activity_date,omitempty"`
	Comment          string `json:"comment,omitempty"`
}

// RubricScores holds the judge's five 1-5 dimension scores. All five are
// zero when the judge call failed.
type RubricScores struct {
	Relevance    int    `json:"relevance"`
	Accuracy     int    `json:"accuracy"`
	Completeness int    `json:"completeness"`
	Helpfulness  int    `json:"helpfulness"`
	Safety       int    `json:"safety"`
	Comment      string `json:"overall_comment"`
}

// Total sums the five dimensions.
func (s RubricScores) Total() int {
	return s.Relevance + s.Accuracy + s.Completeness + s.Helpfulness + s.Safety
}

// Average is Total over the five dimensions.
func (s RubricScores) Average() float64 {
	return float64(s.Total()) / 5.0
}

// EvaluationResult is the immutable record produced for one golden case.
type EvaluationResult struct {
	ID           string       `json:"id"`
	Category     string       `json:"category"`
	SalesAgent   string       `json:"sales_agent"`
	Question     string       `json:"question"`
	Response     string       `json:"response"`
	Scores       RubricScores `json:"scores"`
	AverageScore float64      `json:"average_score"`
}
