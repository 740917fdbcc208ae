package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// time limits in seconds, fixed by difficulty
var DifficultyTimeLimits = map[Difficulty]int{
	DifficultyEasy:   20,
	DifficultyMedium: 60,
	DifficultyHard:   120,
}

func (d Difficulty) Valid() bool {
	_, ok := DifficultyTimeLimits[d]
	return ok
}

// TimeLimit returns the per-question limit in seconds, or 0 for an unknown difficulty.
func (d Difficulty) TimeLimit() int {
	return DifficultyTimeLimits[d]
}

type Phase string

const (
	PhaseUpload            Phase = "upload"
	PhaseProfileCompletion Phase = "profile_completion"
	PhaseInterview         Phase = "interview"
	PhaseCompleted         Phase = "completed"
)

const (
	QuestionsPerInterview = 6
	MaxAnswerScore        = 10
	MaxTotalScore         = QuestionsPerInterview * MaxAnswerScore

	DefaultCorrectAnswerThreshold = 6
	DefaultAdvanceDelay           = 2 * time.Second
	DefaultTickInterval           = time.Second

	MaxResumeSize = 10 << 20
)

const (
	TierExcellent = "Excellent"
	TierGood      = "Good"
	TierAverage   = "Average"
	TierPoor      = "Poor"
)

// PerformanceTier maps an average score (0-10) to its coarse label.
func PerformanceTier(average float64) string {
	switch {
	case average >= 8:
		return TierExcellent
	case average >= 6:
		return TierGood
	case average >= 4:
		return TierAverage
	default:
		return TierPoor
	}
}

const (
	ExpiredAnswerText     = "(No answer provided - time expired)"
	ExpiredAnswerFeedback = "No answer provided due to time limit."
	ScoringFallback       = "Answer recorded! Moving to the next question..."
	SummaryFallback       = "Interview completed! Thank you for participating. Your results are being processed."
)
