package cleanup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundmap/constants"
	"soundmap/internal/entity"
)

type fakeStore struct {
	jobs    map[uuid.UUID]*entity.Job
	deleted []uuid.UUID
}

func newFakeStore(jobs ...*entity.Job) *fakeStore {
	s := &fakeStore{jobs: make(map[uuid.UUID]*entity.Job)}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *fakeStore) ListAll(context.Context) ([]*entity.Job, error) {
	out := make([]*entity.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.jobs, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	old := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, old, old))
	return path
}

func TestSweepDeletesAgedFilesOnly(t *testing.T) {
	uploads, results := t.TempDir(), t.TempDir()
	oldFile := writeAged(t, uploads, "old.xlsx", 8*24*time.Hour)
	freshFile := writeAged(t, results, "fresh.png", time.Hour)

	sw := NewSweeper(uploads, results, 7*24*time.Hour, newFakeStore(), slog.Default())
	sw.Sweep(context.Background())

	_, err := os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err), "aged upload should be gone")
	_, err = os.Stat(freshFile)
	assert.NoError(t, err, "fresh result should survive")
}

func TestSweepPrunesJobsWithMissingArtifacts(t *testing.T) {
	uploads, results := t.TempDir(), t.TempDir()
	kept := &entity.Job{
		ID:        uuid.New(),
		Status:    constants.JobStatusDone,
		CreatedAt: time.Now().Add(-10 * 24 * time.Hour),
		Plots:     []string{"kept_scatter.png"},
	}
	writeAged(t, results, "kept_scatter.png", time.Hour)

	orphan := &entity.Job{
		ID:        uuid.New(),
		Status:    constants.JobStatusDone,
		CreatedAt: time.Now().Add(-10 * 24 * time.Hour),
		Plots:     []string{"gone_scatter.png"},
	}

	store := newFakeStore(kept, orphan)
	sw := NewSweeper(uploads, results, 7*24*time.Hour, store, slog.Default())
	sw.Sweep(context.Background())

	assert.Contains(t, store.jobs, kept.ID, "job with a surviving artifact stays")
	assert.NotContains(t, store.jobs, orphan.ID, "job with no surviving artifact is pruned")
}

func TestSweepKeepsRecentArtifactlessJobs(t *testing.T) {
	uploads, results := t.TempDir(), t.TempDir()
	running := &entity.Job{
		ID:        uuid.New(),
		Status:    constants.JobStatusProcessing,
		CreatedAt: time.Now(),
	}
	failed := &entity.Job{
		ID:        uuid.New(),
		Status:    constants.JobStatusError,
		CreatedAt: time.Now().Add(-10 * 24 * time.Hour),
	}

	store := newFakeStore(running, failed)
	sw := NewSweeper(uploads, results, 7*24*time.Hour, store, slog.Default())
	sw.Sweep(context.Background())

	assert.Contains(t, store.jobs, running.ID, "in-flight job survives the sweep")
	assert.NotContains(t, store.jobs, failed.ID, "aged artifactless job is pruned")
}

func TestSweepFileDeletionPrecedesPruning(t *testing.T) {
	uploads, results := t.TempDir(), t.TempDir()
	// Artifact exists but is past the age threshold; the sweep deletes it
	// first, so the pruning pass must see it as missing and drop the job.
	writeAged(t, results, "aged_scatter.png", 8*24*time.Hour)
	job := &entity.Job{
		ID:        uuid.New(),
		Status:    constants.JobStatusDone,
		CreatedAt: time.Now().Add(-8 * 24 * time.Hour),
		Plots:     []string{"aged_scatter.png"},
	}

	store := newFakeStore(job)
	sw := NewSweeper(uploads, results, 7*24*time.Hour, store, slog.Default())
	sw.Sweep(context.Background())

	assert.NotContains(t, store.jobs, job.ID)
}
