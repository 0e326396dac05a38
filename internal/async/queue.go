package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull reports a submission that could not be accepted right now,
// either because the channel is at capacity or the queue is shutting down.
var ErrQueueFull = errors.New("job queue full")

// Job is the smallest useful unit: one uploaded file bound to one store row.
type Job struct {
	ID          uuid.UUID
	InputPath   string
	SubmittedAt time.Time
}

// Queue decouples submission from execution: Enqueue returns immediately and
// the caller polls the store for the terminal state.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
