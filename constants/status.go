package constants

// JobStatus is the canonical status for job rows.
type JobStatus string

// Stable values (store these exact strings in the DB and in status responses).
const (
	JobStatusProcessing JobStatus = "processing" // created, pipeline not finished
	JobStatusDone       JobStatus = "done"       // terminal success
	JobStatusError      JobStatus = "error"      // terminal failure
)

// JobStatuses holds the allowed values for the status field on Job.
var JobStatuses = []string{
	string(JobStatusProcessing),
	string(JobStatusDone),
	string(JobStatusError),
}

// Terminal reports whether s is one of the two final states.
func (s JobStatus) Terminal() bool {
	return s == JobStatusDone || s == JobStatusError
}
