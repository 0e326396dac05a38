package entity

import (
	"time"

	"github.com/google/uuid"

	"soundmap/constants"
)

// Job represents one processing request for data transfer between layers.
// The JSON layout is the status-endpoint contract; new optional fields may be
// appended without breaking existing readers.
type Job struct {
	ID           uuid.UUID           `json:"file_id"`
	Filename     string              `json:"filename"`
	Status       constants.JobStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	ProcessedAt  *time.Time          `json:"processed_at"`
	Plots        []string            `json:"plots"`
	PreviewHTML  string              `json:"preview_html"`
	ErrorMessage *string             `json:"-"`
}

// JobUpdate carries the fields of a partial store update. Nil fields are left
// untouched.
type JobUpdate struct {
	Status       *constants.JobStatus
	ProcessedAt  *time.Time
	Plots        []string
	PreviewHTML  *string
	ErrorMessage *string
}
