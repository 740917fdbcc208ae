package interview

import (
	"strings"
	"testing"
	"time"

	"peerprep/interview/internal/models"
)

func completedCandidate() models.Candidate {
	done := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return models.Candidate{
		ID:              "c1",
		Name:            "Jane",
		Completed:       true,
		CompletedAt:     &done,
		Score:           33,
		AverageScore:    5.5,
		PerformanceTier: models.TierAverage,
		Summary:         "Average candidate.",
		Answers: []models.Answer{
			{QuestionID: 1, Difficulty: models.DifficultyEasy, Score: 6},
			{QuestionID: 2, Difficulty: models.DifficultyEasy, Score: 5},
			{QuestionID: 3, Difficulty: models.DifficultyMedium, Score: 9},
			{QuestionID: 4, Difficulty: models.DifficultyMedium, Score: 0},
			{QuestionID: 5, Difficulty: models.DifficultyHard, Score: 7},
			{QuestionID: 6, Difficulty: models.DifficultyHard, Score: 6},
		},
	}
}

func TestBuildResultsDefaultThreshold(t *testing.T) {
	r := BuildResults(completedCandidate(), models.DefaultCorrectAnswerThreshold)
	if r.CorrectAnswers != 4 || r.IncorrectAnswers != 2 || r.TotalAnswers != 6 {
		t.Fatalf("unexpected counts %+v", r)
	}
	if r.Accuracy != 67 {
		t.Fatalf("expected 67%% accuracy, got %d", r.Accuracy)
	}
	if r.MaxScore != 60 || r.TotalScore != 33 {
		t.Fatalf("unexpected score totals %+v", r)
	}
	if !r.Questions[0].Correct || r.Questions[1].Correct {
		t.Fatalf("threshold must be inclusive: %+v", r.Questions[:2])
	}
}

func TestBuildResultsCustomThreshold(t *testing.T) {
	r := BuildResults(completedCandidate(), 8)
	if r.CorrectAnswers != 1 {
		t.Fatalf("expected one answer at or above 8, got %d", r.CorrectAnswers)
	}
}

func TestBuildResultsNoAnswers(t *testing.T) {
	r := BuildResults(models.Candidate{}, 6)
	if r.Accuracy != 0 || r.TotalAnswers != 0 {
		t.Fatalf("unexpected empty results %+v", r)
	}
}

func TestBuildTranscriptCompleted(t *testing.T) {
	cand := completedCandidate()
	s := models.DefaultSession()
	s.CurrentCandidate = &cand
	s.Questions = make([]models.Question, 6)
	for i := range s.Questions {
		s.Questions[i] = models.Question{ID: i + 1, Difficulty: cand.Answers[i].Difficulty, Prompt: "prompt"}
	}
	s.Answers = cand.Answers
	s.CurrentQuestionIndex = 6

	msgs := BuildTranscript(s, false, 6, time.Now())
	if !strings.HasPrefix(msgs[0].Content, "Hello Jane!") {
		t.Fatalf("unexpected greeting %q", msgs[0].Content)
	}
	last := msgs[len(msgs)-1].Content
	if !strings.Contains(last, "Correct Answers: 4/6") || !strings.Contains(last, "Average Score: 5.5/10") {
		t.Fatalf("unexpected results message %q", last)
	}
	// greeting, 6 x (question, answer) with no feedback text, results
	if len(msgs) != 1+12+1 {
		t.Fatalf("unexpected message count %d", len(msgs))
	}
}

func TestBuildTranscriptEmpty(t *testing.T) {
	if msgs := BuildTranscript(models.DefaultSession(), false, 6, time.Now()); len(msgs) != 0 {
		t.Fatalf("expected no messages without a candidate")
	}
}
