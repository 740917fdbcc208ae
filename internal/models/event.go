package models

import "time"

type EventType string

const (
	EventCandidateCreated   EventType = "candidate_created"
	EventInterviewStarted   EventType = "interview_started"
	EventQuestionPresented  EventType = "question_presented"
	EventTick               EventType = "tick"
	EventTimeExpired        EventType = "time_expired"
	EventAnswerRecorded     EventType = "answer_recorded"
	EventInterviewCompleted EventType = "interview_completed"
	EventPaused             EventType = "paused"
	EventResumed            EventType = "resumed"
	EventSessionDiscarded   EventType = "session_discarded"
	EventReset              EventType = "reset"
	EventDataCleared        EventType = "data_cleared"

	// EventSnapshot is sent once to a client when it connects.
	EventSnapshot EventType = "snapshot"
)

// Event is pushed to live clients whenever the controller changes the session.
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// CompletionEvent is published once per finished interview.
type CompletionEvent struct {
	CandidateID     string    `json:"candidate_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	TotalScore      int       `json:"total_score"`
	AverageScore    float64   `json:"average_score"`
	PerformanceTier string    `json:"performance_tier"`
	CompletedAt     time.Time `json:"completed_at"`
}
