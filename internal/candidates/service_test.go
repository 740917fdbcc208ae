package candidates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerprep/interview/internal/models"
)

type staticSource struct{ session models.Session }

func (s staticSource) Get() models.Session { return s.session.Clone() }

func ts(day int) time.Time { return time.Date(2024, 3, day, 9, 0, 0, 0, time.UTC) }

func fixture() staticSource {
	done := ts(5)
	return staticSource{session: models.Session{Candidates: []models.Candidate{
		{ID: "a", Name: "alice", Email: "alice@example.com", UploadedAt: ts(1), Completed: true, CompletedAt: &done, Score: 40, AverageScore: 6.7,
			Answers: []models.Answer{{QuestionID: 1, Score: 8}, {QuestionID: 2, Score: 3}}},
		{ID: "b", Name: "Bob", Email: "bob@corp.io", UploadedAt: ts(3), Score: 0},
		{ID: "c", Name: "carol", Email: "carol@example.com", UploadedAt: ts(2), Completed: true, CompletedAt: &done, Score: 52, AverageScore: 8.7},
	}}}
}

func ids(list []models.CandidateSummary) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func TestListDefaultsToScoreDescending(t *testing.T) {
	svc := NewService(fixture(), 0)

	list, err := svc.List(ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(list))
	assert.Equal(t, StatusCompleted, list[0].Status)
	assert.Equal(t, StatusPending, list[2].Status)
	assert.Equal(t, "carol@example.com", list[0].Email)
	assert.NotNil(t, list[0].CompletedAt)
}

func TestListSortAndSearch(t *testing.T) {
	svc := NewService(fixture(), 0)

	tests := []struct {
		name  string
		query ListQuery
		want  []string
	}{
		{"name ascending ignores case", ListQuery{SortBy: SortByName, Order: OrderAsc}, []string{"a", "b", "c"}},
		{"date uses completion time first", ListQuery{SortBy: SortByDate, Order: OrderAsc}, []string{"b", "a", "c"}},
		{"score ascending", ListQuery{SortBy: SortByScore, Order: OrderAsc}, []string{"b", "a", "c"}},
		{"search by email", ListQuery{Search: "EXAMPLE.com"}, []string{"c", "a"}},
		{"search by name", ListQuery{Search: " bob "}, []string{"b"}},
		{"no match", ListQuery{Search: "zed"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := svc.List(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(list))
		})
	}
}

func TestListRejectsUnknownSort(t *testing.T) {
	svc := NewService(fixture(), 0)

	_, err := svc.List(ListQuery{SortBy: "age"})
	assert.ErrorIs(t, err, ErrInvalidSort)

	_, err = svc.List(ListQuery{Order: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestDetail(t *testing.T) {
	svc := NewService(fixture(), 6)

	detail, err := svc.Detail("a")
	require.NoError(t, err)
	require.NotNil(t, detail.Results)
	assert.Equal(t, 1, detail.Results.CorrectAnswers)
	assert.Equal(t, 50, detail.Results.Accuracy)

	pending, err := svc.Detail("b")
	require.NoError(t, err)
	assert.Nil(t, pending.Results)

	_, err = svc.Detail("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStats(t *testing.T) {
	svc := NewService(fixture(), 0)

	stats := svc.Stats()
	assert.Equal(t, models.CandidateStats{Total: 3, Completed: 2, Pending: 1, AverageScore: 46}, stats)

	empty := NewService(staticSource{session: models.DefaultSession()}, 0).Stats()
	assert.Zero(t, empty.AverageScore)
}
