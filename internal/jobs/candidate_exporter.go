package jobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"peerprep/interview/internal/models"
)

// SessionSource is the read side of the session store.
type SessionSource interface {
	Get() models.Session
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // Cron schedule, e.g. "@daily" or "0 2 * * *"
	ExportDir     string
	ExportEnabled bool
}

// CandidateExporterJob writes newly completed candidates to JSONL files.
type CandidateExporterJob struct {
	source SessionSource
	config *ExporterConfig
	cron   *cron.Cron
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	watermark time.Time
}

func NewCandidateExporterJob(source SessionSource, config *ExporterConfig, logger *zap.Logger) *CandidateExporterJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateExporterJob{
		source: source,
		config: config,
		cron:   cron.New(),
		logger: logger,
		now:    time.Now,
	}
}

// Start begins the scheduled export job
func (j *CandidateExporterJob) Start() error {
	if !j.config.ExportEnabled {
		j.logger.Info("candidate export is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunExport(); err != nil {
			j.logger.Error("export job failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("candidate exporter started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop waits for a running export to finish.
func (j *CandidateExporterJob) Stop() {
	<-j.cron.Stop().Done()
}

// HandleCompletion exports as soon as an interview finishes instead of
// waiting for the next scheduled run.
func (j *CandidateExporterJob) HandleCompletion(event models.CompletionEvent) {
	if !j.config.ExportEnabled {
		j.logger.Debug("candidate export is disabled, ignoring completion", zap.String("candidate_id", event.CandidateID))
		return
	}
	path, err := j.RunExport()
	if err != nil {
		j.logger.Error("export after completion failed", zap.String("candidate_id", event.CandidateID), zap.Error(err))
		return
	}
	j.logger.Info("exported after completion", zap.String("candidate_id", event.CandidateID), zap.String("path", path))
}

// RunExport writes every candidate completed after the previous run and
// returns the file path, or "" when there was nothing new.
func (j *CandidateExporterJob) RunExport() (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	session := j.source.Get()
	var (
		buf    bytes.Buffer
		count  int
		newest = j.watermark
	)
	enc := json.NewEncoder(&buf)
	for _, c := range session.Candidates {
		if !c.Completed || c.CompletedAt == nil || !c.CompletedAt.After(j.watermark) {
			continue
		}
		if err := enc.Encode(c); err != nil {
			return "", fmt.Errorf("failed to encode candidate %s: %w", c.ID, err)
		}
		count++
		if c.CompletedAt.After(newest) {
			newest = *c.CompletedAt
		}
	}

	if count == 0 {
		j.logger.Debug("no newly completed candidates to export")
		return "", nil
	}

	if err := os.MkdirAll(j.config.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	filename := fmt.Sprintf("candidates_export_%s.jsonl", j.now().UTC().Format("20060102_150405.000"))
	path := filepath.Join(j.config.ExportDir, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	j.watermark = newest
	j.logger.Info("exported completed candidates", zap.Int("count", count), zap.String("path", path))
	return path, nil
}
