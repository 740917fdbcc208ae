package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/schedule"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/timer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidPhase    = errors.New("operation not allowed in the current phase")
	ErrResumePending   = errors.New("a previous session is waiting to be resumed or discarded")
	ErrNoResumePending = errors.New("no previous session is waiting to be resumed")
	ErrAwaitingNext    = errors.New("answer already recorded, next question is on its way")
	ErrPaused          = errors.New("interview is paused")
	ErrNotPaused       = errors.New("interview is not paused")
	ErrQuestionSet     = errors.New("question provider returned an unusable question set")
)

// Notifier receives controller events. Publish must not block.
type Notifier interface {
	Publish(event models.Event)
}

// CompletionPublisher announces finished interviews to other services.
type CompletionPublisher interface {
	PublishCompletion(ctx context.Context, event models.CompletionEvent) error
}

type Options struct {
	AdvanceDelay           time.Duration
	TickInterval           time.Duration
	ScoringTimeout         time.Duration
	CorrectAnswerThreshold int
	Scheduler              schedule.Scheduler
	Notifier               Notifier
	Completions            CompletionPublisher
	Now                    func() time.Time
	NewID                  func() string
}

func (o *Options) setDefaults() {
	if o.AdvanceDelay <= 0 {
		o.AdvanceDelay = models.DefaultAdvanceDelay
	}
	if o.TickInterval <= 0 {
		o.TickInterval = models.DefaultTickInterval
	}
	if o.ScoringTimeout <= 0 {
		o.ScoringTimeout = 15 * time.Second
	}
	if o.CorrectAnswerThreshold <= 0 {
		o.CorrectAnswerThreshold = models.DefaultCorrectAnswerThreshold
	}
	if o.Scheduler == nil {
		o.Scheduler = schedule.Real()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
}

// Controller drives a candidate through upload, profile completion, the timed
// questions and completion. Every event, including timer ticks and the delayed
// advance, runs under mu, so session mutations never interleave.
type Controller struct {
	mu        sync.Mutex
	store     *store.SessionStore
	provider  llm.Provider
	intake    *resume.Intake
	logger    *zap.Logger
	opts      Options
	countdown *timer.Countdown

	// timerArm and epoch fence off ticks and advances scheduled before the
	// last disarm or cancel.
	timerArm uint64
	epoch    uint64
	advance  schedule.Handle

	awaitingNext  bool
	resumePending bool
	restored      bool
}

func NewController(s *store.SessionStore, provider llm.Provider, intake *resume.Intake, logger *zap.Logger, opts Options) *Controller {
	opts.setDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if intake == nil {
		intake = resume.NewIntake()
	}
	return &Controller{
		store:     s,
		provider:  provider,
		intake:    intake,
		logger:    logger,
		opts:      opts,
		countdown: timer.NewCountdown(opts.Scheduler, opts.TickInterval),
	}
}

// Start loads the persisted session. An unfinished interview is held paused
// and returned as an offer; the caller must ContinueSession or DiscardSession.
func (c *Controller) Start(ctx context.Context) (*models.ResumeOffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("starting with an empty session", zap.Error(err))
	}

	if !session.HasActiveSession() {
		if session.Active || session.Paused {
			// active flag without a usable interview behind it
			c.update(ctx, func(s *models.Session) {
				s.Active = false
				s.Paused = false
			})
		}
		return nil, nil
	}

	c.resumePending = true
	session = c.update(ctx, func(s *models.Session) { s.Paused = true })
	c.logger.Info("found unfinished interview",
		zap.String("candidate_id", session.CurrentCandidate.ID),
		zap.Int("question_index", session.CurrentQuestionIndex))
	return resumeOffer(session), nil
}

func resumeOffer(s models.Session) *models.ResumeOffer {
	return &models.ResumeOffer{
		Candidate:      *s.CurrentCandidate,
		AnsweredCount:  len(s.Answers),
		TotalQuestions: len(s.Questions),
	}
}

// UploadResume validates the file and creates the candidate.
func (c *Controller) UploadResume(ctx context.Context, upload resume.Upload) (*models.ResumeAck, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requirePhase(models.PhaseUpload); err != nil {
		return nil, err
	}
	ack, err := c.intake.Accept(upload)
	if err != nil {
		return nil, err
	}

	candidate := models.Candidate{
		ID:             c.opts.NewID(),
		ResumeFileName: ack.FileName,
		UploadedAt:     c.opts.Now().UTC(),
		Answers:        []models.Answer{},
	}
	c.update(ctx, func(s *models.Session) {
		s.CurrentCandidate = &candidate
		resetInterviewFields(s)
	})
	c.logger.Info("resume accepted", zap.String("candidate_id", candidate.ID), zap.String("file", ack.FileName))
	c.notify(models.EventCandidateCreated, candidate)
	return ack, nil
}

// BackToUpload drops a candidate whose profile was never completed.
func (c *Controller) BackToUpload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requirePhase(models.PhaseProfileCompletion); err != nil {
		return err
	}
	c.update(ctx, func(s *models.Session) {
		s.CurrentCandidate = nil
		resetInterviewFields(s)
	})
	c.notify(models.EventReset, nil)
	return nil
}

// CompleteProfile validates contact fields, fetches the question set and
// starts the first question.
func (c *Controller) CompleteProfile(ctx context.Context, req *models.ProfileRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requirePhase(models.PhaseProfileCompletion); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	questions, err := c.provider.GenerateQuestions(ctx)
	if err != nil {
		return fmt.Errorf("generate questions: %w", err)
	}
	if err := checkQuestions(questions); err != nil {
		return err
	}

	now := c.opts.Now().UTC()
	session := c.update(ctx, func(s *models.Session) {
		cand := s.CurrentCandidate
		cand.Name = req.Name
		cand.Email = req.Email
		cand.Phone = req.Phone
		cand.StartedAt = &now
		cand.Answers = []models.Answer{}

		s.Questions = questions
		s.Answers = []models.Answer{}
		s.CurrentQuestionIndex = 0
		s.RemainingTime = questions[0].TimeLimit
		s.Active = true
		s.Paused = false
		s.UpsertCandidate(*cand)
	})

	c.restored = false
	c.armTimerLocked()
	metrics.InterviewStarted()
	c.logger.Info("interview started", zap.String("candidate_id", session.CurrentCandidate.ID))
	c.notify(models.EventInterviewStarted, session.CurrentCandidate)
	c.notifyQuestion(session)
	return nil
}

func checkQuestions(questions []models.Question) error {
	if len(questions) != models.QuestionsPerInterview {
		return fmt.Errorf("%w: expected %d questions, got %d", ErrQuestionSet, models.QuestionsPerInterview, len(questions))
	}
	for i := range questions {
		if !questions[i].Difficulty.Valid() {
			return fmt.Errorf("%w: question %d has difficulty %q", ErrQuestionSet, questions[i].ID, questions[i].Difficulty)
		}
		questions[i].TimeLimit = questions[i].Difficulty.TimeLimit()
	}
	return nil
}

// SubmitAnswer scores and records the answer for the current question.
func (c *Controller) SubmitAnswer(ctx context.Context, text string) (*models.Answer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requirePhase(models.PhaseInterview); err != nil {
		return nil, err
	}
	if c.awaitingNext {
		return nil, ErrAwaitingNext
	}
	if c.store.Get().Paused {
		return nil, ErrPaused
	}
	return c.recordAnswerLocked(ctx, text, false), nil
}

// Pause stops the countdown. The remaining time is kept as is.
func (c *Controller) Pause(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requirePhase(models.PhaseInterview); err != nil {
		return err
	}
	if c.store.Get().Paused {
		return nil
	}
	c.disarmTimerLocked()
	session := c.update(ctx, func(s *models.Session) { s.Paused = true })
	c.notify(models.EventPaused, map[string]int{"remaining_time": session.RemainingTime})
	return nil
}

// Resume restarts the countdown from the paused remaining time.
func (c *Controller) Resume(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requirePhase(models.PhaseInterview); err != nil {
		return err
	}
	if !c.store.Get().Paused {
		return ErrNotPaused
	}
	session := c.update(ctx, func(s *models.Session) { s.Paused = false })
	if !c.awaitingNext {
		c.armTimerLocked()
	}
	c.notify(models.EventResumed, map[string]int{"remaining_time": session.RemainingTime})
	return nil
}

// ContinueSession accepts the offer made by Start and re-enters the interview.
func (c *Controller) ContinueSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.resumePending {
		return ErrNoResumePending
	}
	c.resumePending = false
	c.restored = true

	session := c.store.Get()
	if len(session.Answers) >= len(session.Questions) {
		// every answer was recorded before the restart; only completion is missing
		c.completeLocked(ctx)
		return nil
	}

	session = c.update(ctx, func(s *models.Session) {
		if len(s.Answers) > s.CurrentQuestionIndex {
			// restarted during the advance delay
			s.CurrentQuestionIndex = len(s.Answers)
			s.RemainingTime = 0
		}
		if s.RemainingTime == 0 {
			if q, ok := s.CurrentQuestion(); ok {
				s.RemainingTime = q.TimeLimit
			}
		}
		s.Paused = false
	})

	c.armTimerLocked()
	c.logger.Info("interview resumed",
		zap.String("candidate_id", session.CurrentCandidate.ID),
		zap.Int("question_index", session.CurrentQuestionIndex),
		zap.Int("remaining_time", session.RemainingTime))
	c.notify(models.EventResumed, map[string]int{"remaining_time": session.RemainingTime})
	c.notifyQuestion(session)
	return nil
}

// DiscardSession rejects the offer made by Start, removing the unfinished
// candidate and returning to upload. Completed candidates stay listed; use
// ClearAllData to wipe everything.
func (c *Controller) DiscardSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.resumePending {
		return ErrNoResumePending
	}
	c.resumePending = false
	c.cancelAllLocked()
	c.update(ctx, func(s *models.Session) {
		if s.CurrentCandidate != nil {
			s.RemoveCandidate(s.CurrentCandidate.ID)
		}
		s.CurrentCandidate = nil
		resetInterviewFields(s)
	})
	c.logger.Info("unfinished interview discarded")
	c.notify(models.EventSessionDiscarded, nil)
	return nil
}

// Reset abandons whatever is in progress and returns to upload. Completed
// candidates stay listed; an unfinished one is removed.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resumePending = false
	c.restored = false
	c.cancelAllLocked()
	c.update(ctx, func(s *models.Session) {
		if s.CurrentCandidate != nil && !s.CurrentCandidate.Completed {
			s.RemoveCandidate(s.CurrentCandidate.ID)
		}
		s.CurrentCandidate = nil
		resetInterviewFields(s)
	})
	c.notify(models.EventReset, nil)
	return nil
}

// ClearAllData wipes every candidate and evicts the durable session.
func (c *Controller) ClearAllData(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resumePending = false
	c.restored = false
	c.cancelAllLocked()
	if err := c.store.ClearAllData(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	c.logger.Info("all interview data cleared")
	c.notify(models.EventDataCleared, nil)
	return nil
}

// Shutdown stops the countdown and any pending advance without touching the
// persisted session, so the interview can be resumed after a restart.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disarmTimerLocked()
	if c.advance != nil {
		c.advance.Stop()
		c.advance = nil
	}
	c.epoch++
}

// State returns the candidate-facing view of the session.
func (c *Controller) State() models.SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.store.Get()
	view := models.SessionView{
		Phase:          s.Phase(),
		Candidate:      s.CurrentCandidate,
		QuestionIndex:  s.CurrentQuestionIndex,
		TotalQuestions: len(s.Questions),
		AnsweredCount:  len(s.Answers),
		RemainingTime:  s.RemainingTime,
		Paused:         s.Paused,
		AwaitingNext:   c.awaitingNext,
		ResumePending:  c.resumePending,
	}
	if q, ok := s.CurrentQuestion(); ok && view.Phase == models.PhaseInterview {
		view.CurrentQuestion = &q
	}
	if c.resumePending {
		view.ResumeOffer = resumeOffer(s)
	}
	if view.Phase == models.PhaseCompleted {
		results := BuildResults(*s.CurrentCandidate, c.opts.CorrectAnswerThreshold)
		view.Results = &results
	}
	return view
}

// Session returns a snapshot of the persisted aggregate.
func (c *Controller) Session() models.Session {
	return c.store.Get()
}

func (c *Controller) Ready(ctx context.Context) error {
	return c.store.Ping(ctx)
}

func (c *Controller) requirePhase(phase models.Phase) error {
	if c.resumePending {
		return ErrResumePending
	}
	if got := c.store.Get().Phase(); got != phase {
		return fmt.Errorf("%w: expected %s, currently %s", ErrInvalidPhase, phase, got)
	}
	return nil
}

// update applies a mutation and logs, rather than returns, persistence
// failures. Persistence is detached from request cancellation.
func (c *Controller) update(ctx context.Context, mutate func(*models.Session)) models.Session {
	session, err := c.store.Set(context.WithoutCancel(ctx), mutate)
	if err != nil {
		metrics.PersistFailed()
		c.logger.Warn("failed to persist session", zap.Error(err))
	}
	return session
}

func resetInterviewFields(s *models.Session) {
	s.Questions = []models.Question{}
	s.Answers = []models.Answer{}
	s.CurrentQuestionIndex = 0
	s.RemainingTime = 0
	s.Active = false
	s.Paused = false
}

func (c *Controller) notify(t models.EventType, payload interface{}) {
	if c.opts.Notifier == nil {
		return
	}
	c.opts.Notifier.Publish(models.Event{Type: t, Payload: payload, Timestamp: c.opts.Now().UTC()})
}

func (c *Controller) notifyQuestion(s models.Session) {
	q, ok := s.CurrentQuestion()
	if !ok {
		return
	}
	c.notify(models.EventQuestionPresented, map[string]interface{}{
		"index":          s.CurrentQuestionIndex,
		"total":          len(s.Questions),
		"question":       q,
		"remaining_time": s.RemainingTime,
	})
}
