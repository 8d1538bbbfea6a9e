package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-marketplace/internal/api/dto"
	"github.com/spec-kit/job-marketplace/internal/auth"
	"github.com/spec-kit/job-marketplace/internal/service"
)

// JobsHandler exposes the job service's gated routes.
type JobsHandler struct {
	jobs *service.JobService
}

// NewJobsHandler constructs the handler.
func NewJobsHandler(jobs *service.JobService) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

// ListPublic handles GET /job/jobs/public/list without authentication.
func (h *JobsHandler) ListPublic(c *fiber.Ctx) error {
	return h.list(c)
}

// List handles GET /job/jobs for authenticated callers.
func (h *JobsHandler) List(c *fiber.Ctx) error {
	return h.list(c)
}

func (h *JobsHandler) list(c *fiber.Ctx) error {
	jobs, err := h.jobs.ListOpen(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		return err
	}

	out := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, dto.NewJobResponse(&jobs[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create handles POST /job/jobs. The gatekeeper has already enforced the
// recruiter role; the identity it attached names the poster.
func (h *JobsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	var req dto.JobCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	job, err := h.jobs.Create(c.UserContext(), principal.Subject, req.Title, req.Company, req.Category, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewJobResponse(job)})
}
