package interview

import (
	"math"

	"peerprep/interview/internal/models"
)

// BuildResults derives the post-interview breakdown from a candidate's answers.
// An answer counts as correct when its score reaches threshold.
func BuildResults(c models.Candidate, threshold int) models.ResultsBreakdown {
	r := models.ResultsBreakdown{
		TotalAnswers:    len(c.Answers),
		TotalScore:      c.Score,
		MaxScore:        models.MaxTotalScore,
		AverageScore:    c.AverageScore,
		PerformanceTier: c.PerformanceTier,
		Summary:         c.Summary,
		Questions:       make([]models.QuestionResult, 0, len(c.Answers)),
	}
	for i, a := range c.Answers {
		correct := a.Score >= threshold
		if correct {
			r.CorrectAnswers++
		}
		r.Questions = append(r.Questions, models.QuestionResult{
			Index:      i + 1,
			QuestionID: a.QuestionID,
			Difficulty: a.Difficulty,
			Score:      a.Score,
			Correct:    correct,
		})
	}
	r.IncorrectAnswers = r.TotalAnswers - r.CorrectAnswers
	if r.TotalAnswers > 0 {
		r.Accuracy = int(math.Round(float64(r.CorrectAnswers) / float64(r.TotalAnswers) * 100))
	}
	return r
}
