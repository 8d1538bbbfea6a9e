package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-marketplace/internal/observability"
)

// MetricsHandler exposes the in-process counters on an admin-gated route.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs the handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Auth handles GET /identity/auth/admin/metrics: gatekeeper rejection
// counts keyed by internal failure kind. Clients only ever see uniform
// 401s, so this is where operators read the actual reasons.
func (h *MetricsHandler) Auth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"authRejections": h.metrics.AuthRejections(),
		},
	})
}
