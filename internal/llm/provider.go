package llm

import (
	"context"
	"math"

	"peerprep/interview/internal/models"
)

// Provider generates questions, scores answers and summarizes an interview.
// The interview controller only depends on this interface.
type Provider interface {
	GenerateQuestions(ctx context.Context) ([]models.Question, error)
	ScoreAnswer(ctx context.Context, question models.Question, answer string, difficulty models.Difficulty) (*Score, error)
	GenerateSummary(ctx context.Context, answers []models.Answer, scores []int) (*Summary, error)
	GetProviderName() string
}

type Score struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

type Summary struct {
	TotalScore      int     `json:"total_score"`
	AverageScore    float64 `json:"average_score"`
	PerformanceTier string  `json:"performance_tier"`
	SummaryText     string  `json:"summary"`
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)

// Totals sums the scores and averages them over the number of scores,
// rounded to one decimal.
func Totals(scores []int) (int, float64) {
	total := 0
	for _, s := range scores {
		total += s
	}
	if len(scores) == 0 {
		return 0, 0
	}
	return total, RoundTenth(float64(total) / float64(len(scores)))
}

func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// ClampScore keeps a score within 0..10.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > models.MaxAnswerScore {
		return models.MaxAnswerScore
	}
	return score
}

// FallbackSummary is the summary used when a provider cannot produce one.
func FallbackSummary(scores []int) *Summary {
	total, avg := Totals(scores)
	return &Summary{
		TotalScore:      total,
		AverageScore:    avg,
		PerformanceTier: models.PerformanceTier(avg),
		SummaryText:     models.SummaryFallback,
	}
}
