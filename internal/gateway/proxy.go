package gateway

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"

	"github.com/spec-kit/job-marketplace/internal/config"
)

// Upstream binds a path prefix to a downstream service base URL.
type Upstream struct {
	Prefix string
	Target string
}

// Upstreams derives the routing table from configuration.
func Upstreams(cfg config.GatewayConfig) []Upstream {
	return []Upstream{
		{Prefix: "/identity", Target: cfg.IdentityURL},
		{Prefix: "/job", Target: cfg.JobURL},
		{Prefix: "/jp", Target: cfg.JobProfileURL},
		{Prefix: "/files", Target: cfg.FileURL},
	}
}

// RegisterProxy wires the forwarding routes. The gatekeeper runs before
// these, so a request reaching a handler here has already passed the edge
// policy; downstream services still re-validate on their own.
func RegisterProxy(app *fiber.App, upstreams []Upstream) {
	for _, upstream := range upstreams {
		target := strings.TrimRight(upstream.Target, "/")
		app.All(upstream.Prefix+"/*", forwardTo(target))
		app.All(upstream.Prefix, forwardTo(target))
	}
}

func forwardTo(target string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return proxy.Do(c, target+c.OriginalURL())
	}
}
