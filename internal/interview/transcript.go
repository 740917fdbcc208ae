package interview

import (
	"fmt"
	"strings"
	"time"

	"peerprep/interview/internal/models"
)

// Transcript rebuilds the chat history for the current session so a resumed
// interview shows every earlier question and answer.
func (c *Controller) Transcript() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BuildTranscript(c.store.Get(), c.restored, c.opts.CorrectAnswerThreshold, c.opts.Now().UTC())
}

func BuildTranscript(s models.Session, restored bool, threshold int, now time.Time) []models.ChatMessage {
	if s.CurrentCandidate == nil || len(s.Questions) == 0 {
		return []models.ChatMessage{}
	}

	var msgs []models.ChatMessage
	bot := func(at time.Time, format string, args ...interface{}) {
		msgs = append(msgs, models.ChatMessage{Role: models.RoleBot, Content: fmt.Sprintf(format, args...), Timestamp: at})
	}

	start := now
	if s.CurrentCandidate.StartedAt != nil {
		start = *s.CurrentCandidate.StartedAt
	}
	if restored {
		bot(now, "Welcome back! Continuing your interview...")
	} else {
		bot(start, "Hello %s! Your interview has %d questions. Each question is timed, so answer before the clock runs out.",
			s.CurrentCandidate.Name, len(s.Questions))
	}

	for i, a := range s.Answers {
		if i >= len(s.Questions) {
			break
		}
		q := s.Questions[i]
		bot(a.SubmittedAt, "Question %d (%s):\n\n%s", i+1, strings.ToUpper(string(q.Difficulty)), q.Prompt)
		msgs = append(msgs, models.ChatMessage{Role: models.RoleUser, Content: a.Text, Timestamp: a.SubmittedAt})
		if a.Feedback != "" {
			bot(a.SubmittedAt, "Score: %d/10\nFeedback: %s", a.Score, a.Feedback)
		}
	}

	if s.Phase() == models.PhaseInterview && s.CurrentQuestionIndex >= len(s.Answers) {
		if q, ok := s.CurrentQuestion(); ok {
			bot(now, "Question %d of %d (%s):\n\n%s\n\nYou have %d seconds to answer.",
				s.CurrentQuestionIndex+1, len(s.Questions), strings.ToUpper(string(q.Difficulty)), q.Prompt, q.TimeLimit)
		}
	}

	if s.Phase() == models.PhaseCompleted {
		r := BuildResults(*s.CurrentCandidate, threshold)
		at := now
		if s.CurrentCandidate.CompletedAt != nil {
			at = *s.CurrentCandidate.CompletedAt
		}
		bot(at, "%s", resultsMessage(r))
	}
	return msgs
}

func resultsMessage(r models.ResultsBreakdown) string {
	var b strings.Builder
	b.WriteString("Interview completed!\n\nDETAILED RESULTS:\n\n")
	fmt.Fprintf(&b, "Correct Answers: %d/%d\n", r.CorrectAnswers, r.TotalAnswers)
	fmt.Fprintf(&b, "Incorrect Answers: %d/%d\n", r.IncorrectAnswers, r.TotalAnswers)
	fmt.Fprintf(&b, "Accuracy: %d%%\n\n", r.Accuracy)
	b.WriteString("SCORING BREAKDOWN:\n")
	fmt.Fprintf(&b, "- Total Score: %d/%d\n", r.TotalScore, r.MaxScore)
	fmt.Fprintf(&b, "- Average Score: %.1f/10\n", r.AverageScore)
	fmt.Fprintf(&b, "- Performance Level: %s\n\n", r.PerformanceTier)
	b.WriteString("QUESTION-BY-QUESTION RESULTS:\n")
	for _, q := range r.Questions {
		mark := "Incorrect"
		if q.Correct {
			mark = "Correct"
		}
		fmt.Fprintf(&b, "Q%d (%s): %d/10 - %s\n", q.Index, strings.ToUpper(string(q.Difficulty)), q.Score, mark)
	}
	fmt.Fprintf(&b, "\nFEEDBACK:\n%s", r.Summary)
	return b.String()
}
