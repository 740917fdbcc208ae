package interview

import (
	"context"

	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/timer"

	"go.uber.org/zap"
)

// recordAnswerLocked stops the clock, scores the answer, appends it and then
// either schedules the next question or completes the interview. The answer
// is fully recorded before the completion check reads the answer count.
func (c *Controller) recordAnswerLocked(ctx context.Context, text string, expired bool) *models.Answer {
	c.disarmTimerLocked()

	session := c.store.Get()
	q, _ := session.CurrentQuestion()

	answer := models.Answer{
		QuestionID:  q.ID,
		Difficulty:  q.Difficulty,
		TimeUsed:    q.TimeLimit - timer.Clamp(session.RemainingTime, q.TimeLimit),
		SubmittedAt: c.opts.Now().UTC(),
	}

	outcome := metrics.OutcomeSubmitted
	if expired {
		outcome = metrics.OutcomeExpired
		answer.Text = models.ExpiredAnswerText
		answer.TimeUsed = q.TimeLimit
		answer.Score = 0
		answer.Feedback = models.ExpiredAnswerFeedback
		answer.Expired = true
	} else {
		answer.Text = text
		answer.Score, answer.Feedback = c.scoreLocked(ctx, q, text)
	}

	session = c.update(ctx, func(s *models.Session) {
		s.Answers = append(s.Answers, answer)
	})
	metrics.AnswerRecorded(string(q.Difficulty), outcome, answer.Score)
	c.logger.Info("answer recorded",
		zap.String("candidate_id", session.CurrentCandidate.ID),
		zap.Int("question_index", session.CurrentQuestionIndex),
		zap.Int("score", answer.Score),
		zap.Bool("expired", expired))
	c.notify(models.EventAnswerRecorded, map[string]interface{}{
		"index":  session.CurrentQuestionIndex,
		"answer": answer,
	})

	if len(session.Answers) >= len(session.Questions) {
		c.completeLocked(ctx)
		return &answer
	}

	c.awaitingNext = true
	epoch := c.epoch
	c.advance = c.opts.Scheduler.AfterFunc(c.opts.AdvanceDelay, func() {
		c.advanceAfterDelay(epoch)
	})
	return &answer
}

func (c *Controller) scoreLocked(ctx context.Context, q models.Question, text string) (int, string) {
	scoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.ScoringTimeout)
	defer cancel()

	result, err := c.provider.ScoreAnswer(scoreCtx, q, text, q.Difficulty)
	if err != nil || result == nil {
		metrics.ProviderFailed("score")
		c.logger.Warn("scoring failed, recording answer with fallback feedback",
			zap.Int("question_id", q.ID), zap.Error(err))
		return 0, models.ScoringFallback
	}
	return llm.ClampScore(result.Score), result.Feedback
}

func (c *Controller) advanceAfterDelay(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch || !c.awaitingNext {
		return
	}
	c.advance = nil
	c.awaitingNext = false

	session := c.update(context.Background(), func(s *models.Session) {
		s.CurrentQuestionIndex++
		if q, ok := s.CurrentQuestion(); ok {
			s.RemainingTime = q.TimeLimit
		}
	})
	if !session.Paused {
		c.armTimerLocked()
	}
	c.notifyQuestion(session)
}

func (c *Controller) onTick(arm uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if arm != c.timerArm {
		return false
	}
	session := c.store.Get()
	if !session.HasActiveSession() || session.Paused || c.resumePending || c.awaitingNext {
		return false
	}

	next, expired := timer.Step(session.RemainingTime)
	session = c.update(context.Background(), func(s *models.Session) { s.RemainingTime = next })
	c.notify(models.EventTick, map[string]int{"remaining_time": session.RemainingTime})

	if expired {
		c.logger.Info("question time expired",
			zap.String("candidate_id", session.CurrentCandidate.ID),
			zap.Int("question_index", session.CurrentQuestionIndex))
		c.notify(models.EventTimeExpired, map[string]int{"index": session.CurrentQuestionIndex})
		c.recordAnswerLocked(context.Background(), "", true)
		return false
	}
	return true
}

func (c *Controller) completeLocked(ctx context.Context) {
	c.disarmTimerLocked()
	c.cancelAdvanceLocked()

	session := c.store.Get()
	scores := make([]int, len(session.Answers))
	for i, a := range session.Answers {
		scores[i] = a.Score
	}

	summaryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.ScoringTimeout)
	defer cancel()
	summary, err := c.provider.GenerateSummary(summaryCtx, session.Answers, scores)
	if err != nil || summary == nil {
		metrics.ProviderFailed("summary")
		c.logger.Warn("summary failed, using fallback", zap.Error(err))
		summary = llm.FallbackSummary(scores)
	}
	// totals are always recomputed from the recorded scores
	summary.TotalScore, summary.AverageScore = llm.Totals(scores)
	if summary.PerformanceTier == "" {
		summary.PerformanceTier = models.PerformanceTier(summary.AverageScore)
	}

	now := c.opts.Now().UTC()
	session = c.update(ctx, func(s *models.Session) {
		cand := s.CurrentCandidate
		cand.Completed = true
		cand.CompletedAt = &now
		cand.Score = summary.TotalScore
		cand.AverageScore = summary.AverageScore
		cand.PerformanceTier = summary.PerformanceTier
		cand.Summary = summary.SummaryText
		cand.Answers = append([]models.Answer{}, s.Answers...)
		s.UpsertCandidate(*cand)

		s.CurrentQuestionIndex = len(s.Questions)
		s.RemainingTime = 0
		s.Active = false
		s.Paused = false
	})

	cand := *session.CurrentCandidate
	results := BuildResults(cand, c.opts.CorrectAnswerThreshold)
	metrics.InterviewCompleted()
	c.logger.Info("interview completed",
		zap.String("candidate_id", cand.ID),
		zap.Int("total_score", cand.Score),
		zap.Float64("average_score", cand.AverageScore))
	c.notify(models.EventInterviewCompleted, results)

	if c.opts.Completions != nil {
		event := models.CompletionEvent{
			CandidateID:     cand.ID,
			Name:            cand.Name,
			Email:           cand.Email,
			TotalScore:      cand.Score,
			AverageScore:    cand.AverageScore,
			PerformanceTier: cand.PerformanceTier,
			CompletedAt:     now,
		}
		if err := c.opts.Completions.PublishCompletion(context.WithoutCancel(ctx), event); err != nil {
			c.logger.Warn("failed to publish completion", zap.String("candidate_id", cand.ID), zap.Error(err))
		}
	}
}

func (c *Controller) armTimerLocked() {
	c.timerArm++
	arm := c.timerArm
	c.countdown.Arm(func() bool { return c.onTick(arm) })
}

func (c *Controller) disarmTimerLocked() {
	c.timerArm++
	c.countdown.Disarm()
}

func (c *Controller) cancelAdvanceLocked() {
	c.epoch++
	if c.advance != nil {
		c.advance.Stop()
		c.advance = nil
	}
	c.awaitingNext = false
}

func (c *Controller) cancelAllLocked() {
	c.disarmTimerLocked()
	c.cancelAdvanceLocked()
}
