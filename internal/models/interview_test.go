package models

import (
	"testing"
	"time"
)

func TestDifficultyTimeLimits(t *testing.T) {
	if DifficultyEasy.TimeLimit() != 20 || DifficultyMedium.TimeLimit() != 60 || DifficultyHard.TimeLimit() != 120 {
		t.Fatalf("unexpected time limits: %v", DifficultyTimeLimits)
	}
	if Difficulty("expert").Valid() {
		t.Fatalf("unknown difficulty must not be valid")
	}
}

func TestPerformanceTier(t *testing.T) {
	cases := []struct {
		avg  float64
		want string
	}{
		{9.5, TierExcellent},
		{8, TierExcellent},
		{6.5, TierGood},
		{4, TierAverage},
		{3.9, TierPoor},
	}
	for _, tc := range cases {
		if got := PerformanceTier(tc.avg); got != tc.want {
			t.Fatalf("PerformanceTier(%v) = %s, want %s", tc.avg, got, tc.want)
		}
	}
}

func TestSessionPhase(t *testing.T) {
	s := DefaultSession()
	if s.Phase() != PhaseUpload {
		t.Fatalf("expected upload phase, got %s", s.Phase())
	}

	s.CurrentCandidate = &Candidate{ID: "c1"}
	if s.Phase() != PhaseProfileCompletion {
		t.Fatalf("expected profile completion, got %s", s.Phase())
	}

	s.Questions = []Question{{ID: 1, Difficulty: DifficultyEasy, TimeLimit: 20}}
	s.Active = true
	if s.Phase() != PhaseInterview {
		t.Fatalf("expected interview, got %s", s.Phase())
	}

	s.Active = false
	s.CurrentCandidate.Completed = true
	if s.Phase() != PhaseCompleted {
		t.Fatalf("expected completed, got %s", s.Phase())
	}
}

func TestSessionQueriesOnReturnedValues(t *testing.T) {
	started := func() Session {
		s := DefaultSession()
		s.CurrentCandidate = &Candidate{ID: "c1"}
		s.Questions = []Question{{ID: 1, Difficulty: DifficultyEasy, TimeLimit: 20}}
		s.Active = true
		return s
	}

	if got := DefaultSession().Phase(); got != PhaseUpload {
		t.Fatalf("expected upload phase, got %s", got)
	}
	if got := started().Phase(); got != PhaseInterview {
		t.Fatalf("expected interview phase, got %s", got)
	}
	if !started().HasActiveSession() {
		t.Fatalf("expected an active session")
	}
	if q, ok := started().CurrentQuestion(); !ok || q.ID != 1 {
		t.Fatalf("expected first question, got %+v (ok=%v)", q, ok)
	}
}

func TestSessionCloneIsDeep(t *testing.T) {
	now := time.Now()
	s := DefaultSession()
	s.CurrentCandidate = &Candidate{ID: "c1", CompletedAt: &now, Answers: []Answer{{Score: 3}}}
	s.Candidates = []Candidate{*s.CurrentCandidate}
	s.Answers = []Answer{{Score: 5}}

	c := s.Clone()
	c.CurrentCandidate.Name = "changed"
	c.CurrentCandidate.Answers[0].Score = 9
	c.Candidates[0].ID = "other"
	c.Answers[0].Score = 1

	if s.CurrentCandidate.Name != "" || s.CurrentCandidate.Answers[0].Score != 3 {
		t.Fatalf("clone aliased current candidate")
	}
	if s.Candidates[0].ID != "c1" || s.Answers[0].Score != 5 {
		t.Fatalf("clone aliased slices")
	}
}

func TestUpsertAndRemoveCandidate(t *testing.T) {
	s := DefaultSession()
	s.UpsertCandidate(Candidate{ID: "a", Name: "A"})
	s.UpsertCandidate(Candidate{ID: "b", Name: "B"})
	s.UpsertCandidate(Candidate{ID: "a", Name: "A2"})

	if len(s.Candidates) != 2 || s.Candidates[0].Name != "A2" {
		t.Fatalf("unexpected candidates %+v", s.Candidates)
	}
	s.RemoveCandidate("a")
	if len(s.Candidates) != 1 || s.Candidates[0].ID != "b" {
		t.Fatalf("unexpected candidates after remove %+v", s.Candidates)
	}
	s.RemoveCandidate("missing")
	if len(s.Candidates) != 1 {
		t.Fatalf("removing a missing id must be a no-op")
	}
}
