package service

import (
	"context"

	"github.com/spec-kit/job-marketplace/internal/domain"
	"github.com/spec-kit/job-marketplace/internal/repository"
	apperrors "github.com/spec-kit/job-marketplace/pkg/util"
)

// JobService backs the job service's gated routes. Deliberately thin: the
// point of these routes is exercising per-service authorization, not job
// marketplace business rules.
type JobService struct {
	jobs repository.JobRepository
}

// NewJobService builds the service.
func NewJobService(jobs repository.JobRepository) *JobService {
	return &JobService{jobs: jobs}
}

// ListOpen returns open postings, newest first.
func (s *JobService) ListOpen(ctx context.Context, limit int) ([]domain.Job, error) {
	return s.jobs.ListOpen(ctx, limit)
}

// Create persists a posting on behalf of the authenticated recruiter.
func (s *JobService) Create(ctx context.Context, postedBy, title, company, category, description string) (*domain.Job, error) {
	if title == "" || company == "" {
		return nil, apperrors.NewValidationError("title and company are required", nil)
	}
	job := &domain.Job{
		Title:       title,
		Company:     company,
		Category:    category,
		Description: description,
		PostedBy:    postedBy,
		Status:      domain.JobStatusOpen,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}
