package jobs

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"peerprep/interview/internal/models"
)

type mutableSource struct {
	mu      sync.Mutex
	session models.Session
}

func (s *mutableSource) Get() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clone()
}

func (s *mutableSource) add(c models.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Candidates = append(s.session.Candidates, c)
}

func completed(id string, at time.Time) models.Candidate {
	return models.Candidate{ID: id, Name: id, Completed: true, CompletedAt: &at, Score: 30}
}

func readLines(t *testing.T, path string) []models.Candidate {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	var out []models.Candidate
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var c models.Candidate
		if err := json.Unmarshal(scanner.Bytes(), &c); err != nil {
			t.Fatalf("bad export line %q: %v", scanner.Text(), err)
		}
		out = append(out, c)
	}
	return out
}

func TestRunExport_NoData(t *testing.T) {
	exportDir := filepath.Join(t.TempDir(), "exports")
	job := NewCandidateExporterJob(&mutableSource{}, &ExporterConfig{ExportDir: exportDir, ExportEnabled: true}, nil)

	path, err := job.RunExport()
	if err != nil {
		t.Fatalf("RunExport with no data should not error, got %v", err)
	}
	if path != "" {
		t.Fatalf("expected no file, got %s", path)
	}
	if _, err := os.Stat(exportDir); !os.IsNotExist(err) {
		t.Fatalf("export dir should not be created when nothing is exported")
	}
}

func TestRunExport_OnlyNewCompletions(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	source := &mutableSource{session: models.Session{Candidates: []models.Candidate{
		completed("a", base),
		{ID: "pending", Name: "pending"},
	}}}
	exportDir := t.TempDir()
	job := NewCandidateExporterJob(source, &ExporterConfig{ExportDir: exportDir, ExportEnabled: true}, nil)

	calls := 0
	job.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Hour)
	}

	first, err := job.RunExport()
	if err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	lines := readLines(t, first)
	if len(lines) != 1 || lines[0].ID != "a" {
		t.Fatalf("expected only candidate a, got %+v", lines)
	}

	again, err := job.RunExport()
	if err != nil || again != "" {
		t.Fatalf("second export should find nothing new, got %q, %v", again, err)
	}

	source.add(completed("b", base.Add(time.Minute)))
	second, err := job.RunExport()
	if err != nil {
		t.Fatalf("third export failed: %v", err)
	}
	if second == first {
		t.Fatalf("expected a new file name")
	}
	lines = readLines(t, second)
	if len(lines) != 1 || lines[0].ID != "b" {
		t.Fatalf("expected only candidate b, got %+v", lines)
	}
}

func TestStartDisabledDoesNotSchedule(t *testing.T) {
	job := NewCandidateExporterJob(&mutableSource{}, &ExporterConfig{Schedule: "not a schedule"}, nil)
	if err := job.Start(); err != nil {
		t.Fatalf("disabled exporter should not parse the schedule: %v", err)
	}
	job.Stop()
}

func TestStartRejectsBadSchedule(t *testing.T) {
	job := NewCandidateExporterJob(&mutableSource{}, &ExporterConfig{Schedule: "not a schedule", ExportEnabled: true}, nil)
	if err := job.Start(); err == nil {
		t.Fatalf("expected schedule error")
	}
}

func TestStartAndStop(t *testing.T) {
	job := NewCandidateExporterJob(&mutableSource{}, &ExporterConfig{Schedule: "@hourly", ExportDir: t.TempDir(), ExportEnabled: true}, nil)
	if err := job.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(job.cron.Entries()) != 1 {
		t.Fatalf("expected one scheduled entry")
	}
	job.Stop()
}

func TestHandleCompletionExportsImmediately(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	source := &mutableSource{session: models.Session{Candidates: []models.Candidate{completed("a", at)}}}
	exportDir := t.TempDir()
	job := NewCandidateExporterJob(source, &ExporterConfig{ExportDir: exportDir, ExportEnabled: true}, nil)

	job.HandleCompletion(models.CompletionEvent{CandidateID: "a", CompletedAt: at})

	files, err := filepath.Glob(filepath.Join(exportDir, "candidates_export_*.jsonl"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one export file, got %v (%v)", files, err)
	}
	if lines := readLines(t, files[0]); len(lines) != 1 || lines[0].ID != "a" {
		t.Fatalf("expected candidate a, got %+v", lines)
	}
}

func TestHandleCompletionDisabled(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	source := &mutableSource{session: models.Session{Candidates: []models.Candidate{completed("a", at)}}}
	exportDir := filepath.Join(t.TempDir(), "exports")
	job := NewCandidateExporterJob(source, &ExporterConfig{ExportDir: exportDir}, nil)

	job.HandleCompletion(models.CompletionEvent{CandidateID: "a"})

	if _, err := os.Stat(exportDir); !os.IsNotExist(err) {
		t.Fatalf("disabled exporter must not write anything")
	}
}
