package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-marketplace/internal/domain"
)

// JobRepository persists job postings for the job service's gated routes.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	ListOpen(ctx context.Context, limit int) ([]domain.Job, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository returns a Postgres-backed implementation.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (title, company, category, description, posted_by, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		job.Title,
		job.Company,
		job.Category,
		job.Description,
		job.PostedBy,
		job.Status,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
}

func (r *jobRepository) ListOpen(ctx context.Context, limit int) ([]domain.Job, error) {
	const query = `
        SELECT id, title, company, category, description, posted_by, status, created_at, updated_at
        FROM jobs WHERE status=$1 ORDER BY created_at DESC LIMIT $2`

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, query, domain.JobStatusOpen, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID,
			&job.Title,
			&job.Company,
			&job.Category,
			&job.Description,
			&job.PostedBy,
			&job.Status,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
