package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/job-marketplace/internal/domain"
	"github.com/spec-kit/job-marketplace/internal/events"
	"github.com/spec-kit/job-marketplace/internal/observability"
	"github.com/spec-kit/job-marketplace/internal/policy"
	apperrors "github.com/spec-kit/job-marketplace/pkg/util"
)

const principalKey = "auth_principal"

// TokenValidator decides whether a presented token admits its bearer.
// The identity service implements it in-process; the gateway implements it
// as a remote call.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*domain.Identity, error)
}

// Gatekeeper is the per-service request filter: it resolves the route's
// requirement, validates the bearer token when one is required, enforces
// role gates and attaches the identity to the request. Handlers behind it
// must never re-parse the token themselves.
type Gatekeeper struct {
	validator  TokenValidator
	table      *policy.Table
	logger     *zap.Logger
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
}

// NewGatekeeper constructs the filter. Metrics and dispatcher may be nil.
func NewGatekeeper(validator TokenValidator, table *policy.Table, logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher) *Gatekeeper {
	return &Gatekeeper{
		validator:  validator,
		table:      table,
		logger:     logger,
		metrics:    metrics,
		dispatcher: dispatcher,
	}
}

// Handle gates one request. Every failure collapses into the same 401; the
// actual kind goes to logs and metrics only.
func (g *Gatekeeper) Handle(c *fiber.Ctx) error {
	requirement := g.table.Evaluate(c.Method(), c.Path())
	if requirement.Kind == policy.KindPublic {
		return c.Next()
	}

	token, ok := BearerToken(c)
	if !ok {
		return g.reject(c, "", "missing bearer token")
	}

	identity, err := g.validator.Validate(c.UserContext(), token)
	if err != nil {
		return g.reject(c, "", err.Error())
	}

	if requirement.Kind == policy.KindRole && !domain.HasRole(identity.Roles, requirement.Role) {
		return g.reject(c, identity.Subject, "missing role "+requirement.Role.String())
	}

	g.metrics.RecordAuthDecision(true, "")
	c.Locals(principalKey, identity)
	return c.Next()
}

func (g *Gatekeeper) reject(c *fiber.Ctx, subject, reason string) error {
	g.logger.Debug("request rejected",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("reason", reason),
	)
	g.metrics.RecordAuthDecision(false, reason)
	if g.dispatcher != nil {
		_ = g.dispatcher.Publish(c.UserContext(), events.NewRejection(subject, reason, c.Method(), c.Path()))
	}
	return apperrors.NewUnauthorized()
}

// BearerToken extracts the token from the standard authorization header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// PrincipalFromContext retrieves the identity attached by the gatekeeper.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
