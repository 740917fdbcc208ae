package mock

import (
	"context"
	"fmt"
	"math"
	"strings"

	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/questions"
)

const providerName = "mock"

func init() {
	llm.RegisterProvider(providerName, func() (llm.Provider, error) {
		return NewProvider(), nil
	})
}

type topicKeywords struct {
	topic    string
	keywords []string
}

// checked in order; the first topic named by the question decides
var keywordMap = []topicKeywords{
	{"react", []string{"component", "jsx", "props", "state", "hook"}},
	{"javascript", []string{"function", "variable", "scope", "closure"}},
	{"node", []string{"server", "express", "api", "middleware"}},
	{"authentication", []string{"jwt", "token", "session", "password"}},
	{"performance", []string{"optimization", "cache", "lazy", "memo"}},
}

var difficultyMultiplier = map[models.Difficulty]float64{
	models.DifficultyEasy:   1,
	models.DifficultyMedium: 1.2,
	models.DifficultyHard:   1.5,
}

// Provider scores with answer-length and keyword heuristics. It never fails.
type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) GenerateQuestions(context.Context) ([]models.Question, error) {
	return questions.Default()
}

func (p *Provider) ScoreAnswer(_ context.Context, question models.Question, answer string, difficulty models.Difficulty) (*llm.Score, error) {
	length := len([]rune(strings.TrimSpace(answer)))

	base := 0
	if length > 50 {
		base += 3
	}
	if length > 100 {
		base += 2
	}
	if hasKeywords(question.Prompt, answer) {
		base += 3
	}

	multiplier, ok := difficultyMultiplier[difficulty]
	if !ok {
		multiplier = 1
	}
	score := llm.ClampScore(int(math.Round(float64(base) * multiplier)))
	return &llm.Score{Score: score, Feedback: Feedback(score, difficulty)}, nil
}

func (p *Provider) GenerateSummary(_ context.Context, _ []models.Answer, scores []int) (*llm.Summary, error) {
	total, avg := llm.Totals(scores)
	tier := models.PerformanceTier(avg)
	return &llm.Summary{
		TotalScore:      total,
		AverageScore:    avg,
		PerformanceTier: tier,
		SummaryText: fmt.Sprintf("Candidate demonstrated %s knowledge of full-stack development. Average score: %.1f/10. %s",
			strings.ToLower(tier), avg, Recommendation(avg)),
	}, nil
}

func (p *Provider) GetProviderName() string {
	return providerName
}

func hasKeywords(question, answer string) bool {
	q := strings.ToLower(question)
	a := strings.ToLower(answer)
	for _, entry := range keywordMap {
		if !strings.Contains(q, entry.topic) {
			continue
		}
		for _, kw := range entry.keywords {
			if strings.Contains(a, kw) {
				return true
			}
		}
		return false
	}
	return false
}

// Feedback is the canned feedback line for a score band.
func Feedback(score int, difficulty models.Difficulty) string {
	switch {
	case score >= 8:
		return fmt.Sprintf("Excellent answer for a %s question!", difficulty)
	case score >= 6:
		return fmt.Sprintf("Good answer, but could be more detailed for a %s question.", difficulty)
	case score >= 4:
		return fmt.Sprintf("Adequate answer, but missing key concepts for a %s question.", difficulty)
	default:
		return fmt.Sprintf("Answer needs improvement. Consider studying more about this %s topic.", difficulty)
	}
}

func Recommendation(average float64) string {
	switch {
	case average >= 8:
		return "Strong candidate, recommended for next round."
	case average >= 6:
		return "Good candidate with some areas for improvement."
	case average >= 4:
		return "Average candidate, may need additional training."
	default:
		return "Candidate needs significant improvement before being considered."
	}
}

var _ llm.Provider = (*Provider)(nil)
