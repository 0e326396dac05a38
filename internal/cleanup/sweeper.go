// Package cleanup evicts aged uploads/results and prunes job rows whose
// artifacts are gone. The sweeper is the only component allowed to delete job
// rows.
package cleanup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"soundmap/internal/entity"
)

// JobStore is the slice of the job repository the sweeper needs.
type JobStore interface {
	ListAll(ctx context.Context) ([]*entity.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Sweeper struct {
	uploadDir string
	resultDir string
	maxAge    time.Duration
	jobs      JobStore
	logger    *slog.Logger
}

func NewSweeper(uploadDir, resultDir string, maxAge time.Duration, jobs JobStore, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		uploadDir: uploadDir,
		resultDir: resultDir,
		maxAge:    maxAge,
		jobs:      jobs,
		logger:    logger,
	}
}

// Sweep deletes files older than the age threshold, then prunes store rows.
// File deletion runs strictly first so the pruning existence check reflects
// the post-deletion state.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxAge)
	for _, dir := range []string{s.uploadDir, s.resultDir} {
		s.sweepDir(dir, cutoff)
	}
	s.pruneStore(ctx, cutoff)
}

func (s *Sweeper) sweepDir(dir string, cutoff time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Warn("sweep: cannot read dir", "dir", dir, "err", err)
		return
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			s.logger.Warn("sweep: delete failed", "path", path, "err", err)
			continue
		}
		s.logger.Info("sweep: deleted aged file", "path", path)
	}
}

// pruneStore removes rows none of whose recorded artifacts still exist.
// Rows that never recorded artifacts (still processing, or failed) are kept
// until they age out, so a job submitted moments ago survives the sweep that
// precedes the next submission.
func (s *Sweeper) pruneStore(ctx context.Context, cutoff time.Time) {
	all, err := s.jobs.ListAll(ctx)
	if err != nil {
		s.logger.Warn("sweep: cannot list jobs", "err", err)
		return
	}
	for _, j := range all {
		if !s.prunable(j, cutoff) {
			continue
		}
		if err := s.jobs.Delete(ctx, j.ID); err != nil {
			s.logger.Warn("sweep: job delete failed", "job_id", j.ID, "err", err)
			continue
		}
		s.logger.Info("sweep: pruned job", "job_id", j.ID, "status", j.Status)
	}
}

func (s *Sweeper) prunable(j *entity.Job, cutoff time.Time) bool {
	if len(j.Plots) == 0 {
		return j.CreatedAt.Before(cutoff)
	}
	for _, name := range j.Plots {
		if _, err := os.Stat(filepath.Join(s.resultDir, name)); err == nil {
			return false
		}
	}
	return true
}
