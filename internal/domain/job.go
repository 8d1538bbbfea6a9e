package domain

import "time"

// JobStatus represents lifecycle states for a job posting.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "OPEN"
	JobStatusClosed JobStatus = "CLOSED"
)

// Job is a minimal posting model for the job service's gated routes.
type Job struct {
	ID          string
	Title       string
	Company     string
	Category    string
	Description string
	PostedBy    string
	Status      JobStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
