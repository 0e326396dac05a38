// Package server is the HTTP front door: submit an upload, poll its job,
// fetch artifacts. All pipeline failures stay behind the status field; only
// store failures surface as hard handler errors.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"soundmap/constants"
	"soundmap/internal/async"
	"soundmap/internal/cleanup"
	"soundmap/internal/common"
	"soundmap/internal/entity"
	"soundmap/internal/settings"
)

// JobStore is the read/create slice of the job repository the handlers need.
type JobStore interface {
	Create(ctx context.Context, id uuid.UUID, filename string) (*entity.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	ListAll(ctx context.Context) ([]*entity.Job, error)
}

type Handler struct {
	MaxUploadBytes int64
	UploadDir      string
	ResultDir      string

	Jobs     JobStore
	Queue    async.Queue
	Sweeper  *cleanup.Sweeper
	Settings *settings.Store

	logger *slog.Logger
}

func NewHandler(
	jobs JobStore,
	queue async.Queue,
	sweeper *cleanup.Sweeper,
	st *settings.Store,
	uploadDir, resultDir string,
	maxUploadBytes int64,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		MaxUploadBytes: maxUploadBytes,
		UploadDir:      uploadDir,
		ResultDir:      resultDir,
		Jobs:           jobs,
		Queue:          queue,
		Sweeper:        sweeper,
		Settings:       st,
		logger:         logger,
	}
}

type uploadResponse struct {
	Status string `json:"status"`
	FileID string `json:"file_id"`
}

// Upload accepts one table file, creates the job row and dispatches the
// runner. It returns as soon as the job is queued; callers poll for the
// terminal state.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	// Age-based eviction runs synchronously before every submission.
	if h.Sweeper != nil {
		h.Sweeper.Sweep(r.Context())
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		h.logger.Warn("upload: parse form failed", "err", err)
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if !constants.AllowedExt(ext) {
		writeError(w, http.StatusBadRequest, "only .xlsx and .csv files are allowed")
		return
	}

	id := uuid.New()
	savedPath := filepath.Join(h.UploadDir, fmt.Sprintf("%s_%s", id, filepath.Base(header.Filename)))
	out, err := os.Create(savedPath)
	if err != nil {
		h.logger.Error("upload: create file failed", "path", savedPath, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		h.logger.Error("upload: save failed", "path", savedPath, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out.Close()

	if _, err := h.Jobs.Create(r.Context(), id, header.Filename); err != nil {
		h.logger.Error("upload: job create failed", "job_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}

	job := async.Job{ID: id, InputPath: savedPath, SubmittedAt: time.Now()}
	if err := h.Queue.Enqueue(r.Context(), job); err != nil {
		if errors.Is(err, async.ErrQueueFull) {
			h.logger.Warn("upload: queue full, rejecting", "job_id", id)
			writeError(w, http.StatusServiceUnavailable, "server busy, retry later")
			return
		}
		h.logger.Error("upload: enqueue failed", "job_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.Info("upload accepted", "job_id", id, "filename", header.Filename, "bytes", header.Size)
	writeJSON(w, http.StatusOK, uploadResponse{
		Status: string(constants.JobStatusProcessing),
		FileID: id.String(),
	})
}

// Status returns the full job record; granular error causes stay in the logs.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	job, err := h.Jobs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		h.logger.Error("status: store read failed", "job_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// Result serves one artifact belonging to a job. Ownership is enforced: only
// names recorded on the job row are served.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	name := r.PathValue("name")

	job, err := h.Jobs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		h.logger.Error("result: store read failed", "job_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}

	owned := false
	for _, p := range job.Plots {
		if p == name {
			owned = true
			break
		}
	}
	if !owned {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	path := filepath.Join(h.ResultDir, filepath.Base(name))
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Content-Type", contentTypeFor(name))
	http.ServeFile(w, r, path)
}

// History lists every job, processed_at descending with unset timestamps
// last; the repository guarantees the ordering.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Jobs.ListAll(r.Context())
	if err != nil {
		h.logger.Error("history: store list failed", "err", err)
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

type toggleBody struct {
	ConnectPairs bool `json:"connect_pairs"`
}

// GetToggle reads the process-wide pair-lines flag.
func (h *Handler) GetToggle(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toggleBody{ConnectPairs: h.Settings.ConnectPairs()})
}

// SetToggle flips the process-wide pair-lines flag. The flag is advisory:
// jobs already running keep their snapshot.
func (h *Handler) SetToggle(w http.ResponseWriter, r *http.Request) {
	var body toggleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	h.Settings.SetConnectPairs(body.ConnectPairs)
	h.logger.Info("pair-lines toggle set", "connect_pairs", body.ConnectPairs)
	writeJSON(w, http.StatusOK, toggleBody{ConnectPairs: h.Settings.ConnectPairs()})
}

func contentTypeFor(name string) string {
	switch constants.NormalizeExt(filepath.Ext(name)) {
	case "png":
		return "image/png"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
