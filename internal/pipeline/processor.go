// Package pipeline runs one uploaded table through the whole transform:
// read → reshape → encode → coordinates → normalize → artifacts → terminal
// store write.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"soundmap/constants"
	"soundmap/internal/entity"
	"soundmap/internal/export"
	"soundmap/internal/plot"
	"soundmap/internal/preview"
	"soundmap/internal/settings"
	"soundmap/internal/survey"
)

// JobStore is the slice of the job repository the runner needs. Update on an
// id the sweeper already removed is a no-op, which the runner relies on.
type JobStore interface {
	Update(ctx context.Context, id uuid.UUID, upd entity.JobUpdate) error
}

// Processor coordinates the per-job pipeline. It is safe for concurrent use;
// each job reads one settings snapshot and touches only its own store row.
type Processor struct {
	logger    *slog.Logger
	jobs      JobStore
	schema    survey.TableSchema
	renderers map[string]plot.Renderer
	export    *export.Service
	settings  *settings.Store
	resultDir string
}

func NewProcessor(
	logger *slog.Logger,
	jobs JobStore,
	schema survey.TableSchema,
	renderers []plot.Renderer,
	exporter *export.Service,
	st *settings.Store,
	resultDir string,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	byKind := make(map[string]plot.Renderer, len(renderers))
	for _, r := range renderers {
		byKind[r.Kind()] = r
	}
	return &Processor{
		logger:    logger,
		jobs:      jobs,
		schema:    schema,
		renderers: byKind,
		export:    exporter,
		settings:  st,
		resultDir: resultDir,
	}
}

// ProcessFile executes the pipeline for one upload and performs exactly one
// terminal store write: "done" with the artifact list and timestamp, or
// "error" with only the status flipped. The uploaded file is deleted
// unconditionally afterward; per-job failures never escalate to the caller
// beyond the returned status.
func (p *Processor) ProcessFile(ctx context.Context, inputPath string, jobID uuid.UUID) constants.JobStatus {
	defer p.removeUpload(inputPath, jobID)

	snap := p.settings.Snapshot()

	rows, err := survey.ReadRows(inputPath)
	if err != nil {
		return p.fail(ctx, jobID, "reading input", err)
	}

	table, err := survey.BuildSceneTable(p.schema, rows, p.logger)
	if err != nil {
		return p.fail(ctx, jobID, "reshaping table", err)
	}

	scenes := p.computeScenes(table, snap, jobID)
	artifacts := p.writeArtifacts(jobID, p.title(inputPath, jobID), scenes, snap)

	now := time.Now().UTC()
	done := constants.JobStatusDone
	previewHTML := preview.TableFragment(rows)
	upd := entity.JobUpdate{
		Status:      &done,
		ProcessedAt: &now,
		Plots:       artifacts,
		PreviewHTML: &previewHTML,
	}
	if err := p.jobs.Update(ctx, jobID, upd); err != nil {
		p.logger.Error("pipeline.finish.failed", "job_id", jobID, "err", err)
		return constants.JobStatusError
	}

	p.logger.Info("pipeline.ok", "job_id", jobID, "scenes", len(scenes), "artifacts", len(artifacts))
	return done
}

// computeScenes derives both coordinate forms per scene and decodes keys for
// display. An undecodable key falls back to the sentinel and is logged, never
// fatal.
func (p *Processor) computeScenes(table *survey.SceneTable, snap settings.Snapshot, jobID uuid.UUID) []plot.Scene {
	labels := table.Labels()
	scenes := make([]plot.Scene, 0, len(table.Keys))
	for i, key := range table.Keys {
		raw := survey.ComputeVector(table.Ratings[key])
		if strings.Contains(labels[i], survey.UnknownLabel) {
			p.logger.Warn("scene key decoded with unknown segment", "job_id", jobID, "key", key)
		}
		scenes = append(scenes, plot.Scene{
			Key:   key,
			Label: labels[i],
			Raw:   raw,
			Norm:  survey.NormalizeCoordinates(raw, snap.FixedMax),
		})
	}
	return scenes
}

// writeArtifacts renders the plot kinds named by the job's settings snapshot,
// tolerating individual failures: a broken renderer costs one artifact, not
// the job.
func (p *Processor) writeArtifacts(jobID uuid.UUID, title string, scenes []plot.Scene, snap settings.Snapshot) []string {
	artifacts := make([]string, 0, len(snap.PlotKinds)+1)

	for _, kind := range snap.PlotKinds {
		r, ok := p.renderers[kind]
		if !ok {
			p.logger.Warn("pipeline.render.unknown_kind", "job_id", jobID, "kind", kind)
			continue
		}
		name := fmt.Sprintf("%s_%s.png", jobID, kind)
		png, err := r.Render(title, scenes, snap)
		if err != nil {
			p.logger.Error("pipeline.render.failed", "job_id", jobID, "kind", kind, "err", err)
			continue
		}
		if err := p.writeResult(name, png); err != nil {
			p.logger.Error("pipeline.artifact.write_failed", "job_id", jobID, "name", name, "err", err)
			continue
		}
		artifacts = append(artifacts, name)
	}

	if p.export != nil {
		name := fmt.Sprintf("%s_coordinates.xlsx", jobID)
		book, err := p.export.CoordinatesXLSX(scenes)
		if err != nil {
			p.logger.Error("pipeline.export.failed", "job_id", jobID, "err", err)
		} else if err := p.writeResult(name, book); err != nil {
			p.logger.Error("pipeline.artifact.write_failed", "job_id", jobID, "name", name, "err", err)
		} else {
			artifacts = append(artifacts, name)
		}
	}

	return artifacts
}

func (p *Processor) writeResult(name string, data []byte) error {
	return os.WriteFile(filepath.Join(p.resultDir, name), data, 0o644)
}

// fail performs the single terminal error write. Only the status flips; the
// artifact list stays empty.
func (p *Processor) fail(ctx context.Context, jobID uuid.UUID, stage string, cause error) constants.JobStatus {
	p.logger.Error("pipeline.failed", "job_id", jobID, "stage", stage, "err", cause)
	errStatus := constants.JobStatusError
	msg := cause.Error()
	upd := entity.JobUpdate{Status: &errStatus, ErrorMessage: &msg}
	if err := p.jobs.Update(ctx, jobID, upd); err != nil {
		p.logger.Error("pipeline.fail.write_failed", "job_id", jobID, "err", err)
	}
	return errStatus
}

// removeUpload deletes the input file after the terminal write. The input is
// no longer needed for correctness, so deletion failure is swallowed.
func (p *Processor) removeUpload(inputPath string, jobID uuid.UUID) {
	if err := os.Remove(inputPath); err != nil && !os.IsNotExist(err) {
		p.logger.Warn("pipeline.upload.delete_failed", "job_id", jobID, "path", inputPath, "err", err)
	}
}

func (p *Processor) title(inputPath string, jobID uuid.UUID) string {
	base := filepath.Base(inputPath)
	base = strings.TrimPrefix(base, jobID.String()+"_")
	return strings.TrimSuffix(base, filepath.Ext(base))
}
