package candidates

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jinzhu/copier"

	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/models"
)

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"

	SortByScore = "score"
	SortByName  = "name"
	SortByDate  = "date"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

var (
	ErrNotFound     = errors.New("candidate not found")
	ErrInvalidSort  = errors.New("sort_by must be one of score, name, date")
	ErrInvalidOrder = errors.New("order must be asc or desc")
)

// SessionSource is the read side of the session store.
type SessionSource interface {
	Get() models.Session
}

// ListQuery filters and orders the interviewer list. Empty fields take the
// defaults: no filter, score, descending.
type ListQuery struct {
	Search string
	SortBy string
	Order  string
}

func (q *ListQuery) normalize() error {
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	if q.SortBy == "" {
		q.SortBy = SortByScore
	}
	if q.Order == "" {
		q.Order = OrderDesc
	}
	switch q.SortBy {
	case SortByScore, SortByName, SortByDate:
	default:
		return ErrInvalidSort
	}
	if q.Order != OrderAsc && q.Order != OrderDesc {
		return ErrInvalidOrder
	}
	return nil
}

type Service struct {
	source    SessionSource
	threshold int
}

func NewService(source SessionSource, threshold int) *Service {
	if threshold <= 0 {
		threshold = models.DefaultCorrectAnswerThreshold
	}
	return &Service{source: source, threshold: threshold}
}

func (s *Service) List(q ListQuery) ([]models.CandidateSummary, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}

	session := s.source.Get()
	matched := make([]models.Candidate, 0, len(session.Candidates))
	for _, c := range session.Candidates {
		if q.Search == "" ||
			strings.Contains(strings.ToLower(c.Name), q.Search) ||
			strings.Contains(strings.ToLower(c.Email), q.Search) {
			matched = append(matched, c)
		}
	}

	sort.SliceStable(matched, less(matched, q.SortBy, q.Order == OrderDesc))

	out := make([]models.CandidateSummary, 0, len(matched))
	for i := range matched {
		summary, err := toSummary(&matched[i])
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

func less(list []models.Candidate, sortBy string, desc bool) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := &list[i], &list[j]
		var lt, gt bool
		switch sortBy {
		case SortByName:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			lt, gt = an < bn, an > bn
		case SortByDate:
			at, bt := a.SortTime(), b.SortTime()
			lt, gt = at.Before(bt), at.After(bt)
		default:
			lt, gt = a.Score < b.Score, a.Score > b.Score
		}
		if desc {
			return gt
		}
		return lt
	}
}

func toSummary(c *models.Candidate) (models.CandidateSummary, error) {
	var summary models.CandidateSummary
	if err := copier.Copy(&summary, c); err != nil {
		return models.CandidateSummary{}, fmt.Errorf("map candidate %s: %w", c.ID, err)
	}
	summary.Status = StatusPending
	if c.Completed {
		summary.Status = StatusCompleted
	}
	return summary, nil
}

// Detail returns the candidate with a results breakdown once completed.
func (s *Service) Detail(id string) (*models.CandidateDetail, error) {
	session := s.source.Get()
	i := session.FindCandidate(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	c := session.Candidates[i]
	detail := &models.CandidateDetail{Candidate: c}
	if c.Completed {
		results := interview.BuildResults(c, s.threshold)
		detail.Results = &results
	}
	return detail, nil
}

// Stats averages the total score over completed candidates only.
func (s *Service) Stats() models.CandidateStats {
	session := s.source.Get()
	stats := models.CandidateStats{Total: len(session.Candidates)}
	sum := 0
	for _, c := range session.Candidates {
		if c.Completed {
			stats.Completed++
			sum += c.Score
		}
	}
	stats.Pending = stats.Total - stats.Completed
	if stats.Completed > 0 {
		stats.AverageScore = llm.RoundTenth(float64(sum) / float64(stats.Completed))
	}
	return stats
}
