// internal/models/job.go
package models

// JobStatus is the lifecycle state of a job posting. Archiving is a status
// value, not deletion.
type JobStatus string

const (
	JobStatusOpen     JobStatus = "open"
	JobStatusClosed   JobStatus = "closed"
	JobStatusDraft    JobStatus = "draft"
	JobStatusArchived JobStatus = "archived"
)

// ValidJobStatus reports whether s is a recognized job status.
func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusOpen, JobStatusClosed, JobStatusDraft, JobStatusArchived:
		return true
	}
	return false
}

type Job struct {
	ID     int64     `json:"id"`
	Title  string    `json:"title"`
	Slug   string    `json:"slug"`
	Status JobStatus `json:"status"`
	// Order defines the board position. Values form a strict total order but
	// are not required to be contiguous.
	Order int      `json:"order"`
	Tags  []string `json:"tags"`
}

// Clone returns a deep copy so callers never alias store memory.
func (j Job) Clone() Job {
	out := j
	if j.Tags != nil {
		out.Tags = append([]string(nil), j.Tags...)
	}
	return out
}

// JobPatch is a partial-field update for a job. Nil fields are left unchanged.
type JobPatch struct {
	Title  *string    `json:"title,omitempty"`
	Slug   *string    `json:"slug,omitempty"`
	Status *JobStatus `json:"status,omitempty"`
	Order  *int       `json:"order,omitempty"`
	Tags   *[]string  `json:"tags,omitempty"`
}

// JobFilter narrows ListJobs results. Zero values match everything.
type JobFilter struct {
	Status JobStatus
	Title  string // case-insensitive substring
}
