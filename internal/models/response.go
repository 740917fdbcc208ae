package models

import "time"

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// DetailFor returns the reason recorded for a field, if any.
func (e *ErrorResponse) DetailFor(field string) (string, bool) {
	for _, d := range e.Details {
		if d.Field == field {
			return d.Reason, true
		}
	}
	return "", false
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// simple acknowledgement body
type Resp struct {
	OK   bool   `json:"ok"`
	Info string `json:"info,omitempty"`
}

// ResumeAck is returned by resume intake. Contact fields are always empty.
type ResumeAck struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// ResumeOffer describes an unfinished session found at startup.
type ResumeOffer struct {
	Candidate      Candidate `json:"candidate"`
	AnsweredCount  int       `json:"answered_count"`
	TotalQuestions int       `json:"total_questions"`
}

type QuestionResult struct {
	Index      int        `json:"index"`
	QuestionID int        `json:"question_id"`
	Difficulty Difficulty `json:"difficulty"`
	Score      int        `json:"score"`
	Correct    bool       `json:"correct"`
}

// ResultsBreakdown is the post-interview summary shown to the candidate.
type ResultsBreakdown struct {
	CorrectAnswers   int              `json:"correct_answers"`
	IncorrectAnswers int              `json:"incorrect_answers"`
	TotalAnswers     int              `json:"total_answers"`
	Accuracy         int              `json:"accuracy_percentage"`
	TotalScore       int              `json:"total_score"`
	MaxScore         int              `json:"max_score"`
	AverageScore     float64          `json:"average_score"`
	PerformanceTier  string           `json:"performance_tier"`
	Summary          string           `json:"summary"`
	Questions        []QuestionResult `json:"questions"`
}

// SessionView is the candidate-facing state snapshot.
type SessionView struct {
	Phase           Phase             `json:"phase"`
	Candidate       *Candidate        `json:"candidate,omitempty"`
	CurrentQuestion *Question         `json:"current_question,omitempty"`
	QuestionIndex   int               `json:"question_index"`
	TotalQuestions  int               `json:"total_questions"`
	AnsweredCount   int               `json:"answered_count"`
	RemainingTime   int               `json:"remaining_time"`
	Paused          bool              `json:"paused"`
	AwaitingNext    bool              `json:"awaiting_next"`
	ResumePending   bool              `json:"resume_pending"`
	ResumeOffer     *ResumeOffer      `json:"resume_offer,omitempty"`
	Results         *ResultsBreakdown `json:"results,omitempty"`
}

// AnswerResult is returned after an answer is recorded.
type AnswerResult struct {
	Answer  *Answer     `json:"answer"`
	Session SessionView `json:"session"`
}

type MessageRole string

const (
	RoleBot  MessageRole = "bot"
	RoleUser MessageRole = "user"
)

type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// CandidateSummary is the interviewer list row.
type CandidateSummary struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	ResumeFileName  string     `json:"resume_file_name"`
	UploadedAt      time.Time  `json:"uploaded_at"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Score           int        `json:"score"`
	AverageScore    float64    `json:"average_score"`
	PerformanceTier string     `json:"performance_tier,omitempty"`
	Status          string     `json:"status"`
}

type CandidateDetail struct {
	Candidate Candidate         `json:"candidate"`
	Results   *ResultsBreakdown `json:"results,omitempty"`
}

type CandidateStats struct {
	Total        int     `json:"total"`
	Completed    int     `json:"completed"`
	Pending      int     `json:"pending"`
	AverageScore float64 `json:"average_score"`
}
