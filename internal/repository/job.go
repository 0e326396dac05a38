package repository

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"soundmap/constants"
	"soundmap/gen/ent"
	entjob "soundmap/gen/ent/job"
	"soundmap/internal/common"
	"soundmap/internal/entity"
)

// JobRepository is the only shared mutable surface of the system. Every
// mutation addresses exactly one row, so concurrent terminal writes from
// different jobs cannot clobber each other.
type JobRepository interface {
	Create(ctx context.Context, id uuid.UUID, filename string) (*entity.Job, error)
	// Update applies the non-nil fields of upd. An absent id is a no-op, not an
	// error: the sweeper may remove a job before its runner finishes.
	Update(ctx context.Context, id uuid.UUID, upd entity.JobUpdate) error
	Get(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	// ListAll returns every job ordered by processed_at descending; jobs whose
	// timestamp is still unset sort last.
	ListAll(ctx context.Context) ([]*entity.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type jobRepo struct {
	ent *ent.Client
	log *slog.Logger
}

func NewJobRepository(entc *ent.Client, log *slog.Logger) JobRepository {
	return &jobRepo{ent: entc, log: log}
}

func (r *jobRepo) Create(ctx context.Context, id uuid.UUID, filename string) (*entity.Job, error) {
	row, err := r.ent.Job.
		Create().
		SetID(id).
		SetFilename(filename).
		SetStatus(string(constants.JobStatusProcessing)).
		Save(ctx)
	if err != nil {
		r.log.Error("job create failed", "job_id", id, "err", err)
		return nil, common.NewAppError("STORE_ERROR", "creating job", common.ErrStore)
	}
	r.log.Info("job created", "job_id", row.ID, "filename", filename)
	return toJob(row), nil
}

func (r *jobRepo) Update(ctx context.Context, id uuid.UUID, upd entity.JobUpdate) error {
	m := r.ent.Job.UpdateOneID(id)
	if upd.Status != nil {
		m.SetStatus(string(*upd.Status))
	}
	if upd.ProcessedAt != nil {
		m.SetProcessedAt(*upd.ProcessedAt)
	}
	if upd.Plots != nil {
		m.SetPlots(upd.Plots)
	}
	if upd.PreviewHTML != nil {
		m.SetPreviewHTML(*upd.PreviewHTML)
	}
	if upd.ErrorMessage != nil {
		m.SetErrorMessage(*upd.ErrorMessage)
	}
	if _, err := m.Save(ctx); err != nil {
		if ent.IsNotFound(err) {
			r.log.Warn("job update on absent id ignored", "job_id", id)
			return nil
		}
		r.log.Error("job update failed", "job_id", id, "err", err)
		return common.NewAppError("STORE_ERROR", "updating job", common.ErrStore)
	}
	return nil
}

func (r *jobRepo) Get(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	row, err := r.ent.Job.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, common.ErrNotFound
		}
		r.log.Error("job get failed", "job_id", id, "err", err)
		return nil, common.NewAppError("STORE_ERROR", "reading job", common.ErrStore)
	}
	return toJob(row), nil
}

func (r *jobRepo) ListAll(ctx context.Context) ([]*entity.Job, error) {
	rows, err := r.ent.Job.Query().
		Order(ent.Desc(entjob.FieldProcessedAt)).
		All(ctx)
	if err != nil {
		r.log.Error("job list failed", "err", err)
		return nil, common.NewAppError("STORE_ERROR", "listing jobs", common.ErrStore)
	}
	out := make([]*entity.Job, 0, len(rows))
	for _, row := range rows {
		out = append(out, toJob(row))
	}
	// NULL ordering differs between backends; enforce nulls-last here.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ProcessedAt, out[j].ProcessedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out, nil
}

func (r *jobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ent.Job.DeleteOneID(id).Exec(ctx); err != nil {
		if ent.IsNotFound(err) {
			return nil
		}
		r.log.Error("job delete failed", "job_id", id, "err", err)
		return common.NewAppError("STORE_ERROR", "deleting job", common.ErrStore)
	}
	return nil
}

func toJob(e *ent.Job) *entity.Job {
	plots := e.Plots
	if plots == nil {
		plots = []string{}
	}
	return &entity.Job{
		ID:           e.ID,
		Filename:     e.Filename,
		Status:       constants.JobStatus(e.Status),
		CreatedAt:    e.CreatedAt,
		ProcessedAt:  e.ProcessedAt,
		Plots:        plots,
		PreviewHTML:  e.PreviewHTML,
		ErrorMessage: e.ErrorMessage,
	}
}
