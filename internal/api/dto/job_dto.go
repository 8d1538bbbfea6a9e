package dto

import (
	"time"

	"github.com/spec-kit/job-marketplace/internal/domain"
)

// JobCreateRequest payload for new postings.
type JobCreateRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// JobResponse is the wire view of a posting.
type JobResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Category  string    `json:"category"`
	PostedBy  string    `json:"postedBy"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewJobResponse maps a domain job.
func NewJobResponse(job *domain.Job) JobResponse {
	return JobResponse{
		ID:        job.ID,
		Title:     job.Title,
		Company:   job.Company,
		Category:  job.Category,
		PostedBy:  job.PostedBy,
		Status:    string(job.Status),
		CreatedAt: job.CreatedAt,
	}
}
