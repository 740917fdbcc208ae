package models

import "time"

type Question struct {
	ID             int        `json:"id" yaml:"id"`
	Difficulty     Difficulty `json:"difficulty" yaml:"difficulty"`
	Prompt         string     `json:"question" yaml:"question"`
	TimeLimit      int        `json:"time_limit" yaml:"-"`
	ExpectedAnswer string     `json:"expected_answer,omitempty" yaml:"expected_answer"`
}

type Answer struct {
	QuestionID  int        `json:"question_id"`
	Difficulty  Difficulty `json:"difficulty"`
	Text        string     `json:"answer"`
	TimeUsed    int        `json:"time_used"`
	Score       int        `json:"score"`
	Feedback    string     `json:"feedback"`
	Expired     bool       `json:"expired,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

type Candidate struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	ResumeFileName  string     `json:"resume_file_name"`
	UploadedAt      time.Time  `json:"uploaded_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Score           int        `json:"score"`
	AverageScore    float64    `json:"average_score"`
	PerformanceTier string     `json:"performance_tier,omitempty"`
	Summary         string     `json:"summary"`
	Answers         []Answer   `json:"answers"`
}

// SortTime is the completion time when present, otherwise the upload time.
func (c *Candidate) SortTime() time.Time {
	if c.CompletedAt != nil {
		return *c.CompletedAt
	}
	return c.UploadedAt
}

func (c Candidate) clone() Candidate {
	out := c
	out.Answers = append([]Answer(nil), c.Answers...)
	if c.StartedAt != nil {
		t := *c.StartedAt
		out.StartedAt = &t
	}
	if c.CompletedAt != nil {
		t := *c.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// Session is the persisted interview aggregate.
type Session struct {
	Candidates           []Candidate `json:"candidates"`
	CurrentCandidate     *Candidate  `json:"current_candidate"`
	Questions            []Question  `json:"questions"`
	Answers              []Answer    `json:"answers"`
	CurrentQuestionIndex int         `json:"current_question"`
	RemainingTime        int         `json:"time_remaining"`
	Active               bool        `json:"is_interview_active"`
	Paused               bool        `json:"is_paused"`
}

// DefaultSession is the empty session: no candidate, no questions.
func DefaultSession() Session {
	return Session{
		Candidates: []Candidate{},
		Questions:  []Question{},
		Answers:    []Answer{},
	}
}

// Clone returns a deep copy so callers can never alias store-owned slices.
func (s Session) Clone() Session {
	out := s
	out.Candidates = make([]Candidate, len(s.Candidates))
	for i := range s.Candidates {
		out.Candidates[i] = s.Candidates[i].clone()
	}
	if s.CurrentCandidate != nil {
		c := s.CurrentCandidate.clone()
		out.CurrentCandidate = &c
	}
	out.Questions = append([]Question{}, s.Questions...)
	out.Answers = append([]Answer{}, s.Answers...)
	return out
}

func (s Session) CurrentQuestion() (Question, bool) {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentQuestionIndex], true
}

// HasActiveSession reports an interview that was started and not yet finished.
func (s Session) HasActiveSession() bool {
	return s.Active && s.CurrentCandidate != nil && len(s.Questions) > 0 &&
		s.CurrentQuestionIndex < len(s.Questions)
}

// Phase derives the candidate-facing phase from the persisted fields.
func (s Session) Phase() Phase {
	switch {
	case s.CurrentCandidate == nil:
		return PhaseUpload
	case s.CurrentCandidate.Completed:
		return PhaseCompleted
	case s.Active && len(s.Questions) > 0:
		return PhaseInterview
	default:
		return PhaseProfileCompletion
	}
}

// FindCandidate returns the index of the candidate with the given id, or -1.
func (s *Session) FindCandidate(id string) int {
	for i := range s.Candidates {
		if s.Candidates[i].ID == id {
			return i
		}
	}
	return -1
}

// UpsertCandidate replaces the list entry with the same id or appends it.
func (s *Session) UpsertCandidate(c Candidate) {
	if i := s.FindCandidate(c.ID); i >= 0 {
		s.Candidates[i] = c
		return
	}
	s.Candidates = append(s.Candidates, c)
}

func (s *Session) RemoveCandidate(id string) {
	if i := s.FindCandidate(id); i >= 0 {
		s.Candidates = append(s.Candidates[:i], s.Candidates[i+1:]...)
	}
}
