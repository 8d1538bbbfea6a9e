// Package policy implements the static per-service route authorization
// tables. A table is built once at process start and never mutated at
// runtime; changing policy means redeploying.
package policy

import (
	"strings"

	"github.com/spec-kit/job-marketplace/internal/domain"
)

// RequirementKind classifies what proof of identity a route demands.
type RequirementKind int

const (
	// KindPublic skips token handling entirely, garbage headers included.
	KindPublic RequirementKind = iota
	// KindAuthenticated accepts any valid, unexpired, non-revoked token.
	KindAuthenticated
	// KindRole additionally demands a specific role in the token snapshot.
	KindRole
)

// Requirement is the resolved access rule for one method+path.
type Requirement struct {
	Kind RequirementKind
	Role domain.Role
}

// Public requires nothing.
func Public() Requirement { return Requirement{Kind: KindPublic} }

// Authenticated requires a valid token of any role.
func Authenticated() Requirement { return Requirement{Kind: KindAuthenticated} }

// RequireRole requires a valid token whose role snapshot contains r.
func RequireRole(r domain.Role) Requirement {
	return Requirement{Kind: KindRole, Role: r}
}

// MethodAny matches every HTTP method.
const MethodAny = "*"

// Rule binds an HTTP method and path pattern to a requirement. Patterns are
// either exact paths or prefixes ending in "/**", which match the prefix
// itself and everything below it.
type Rule struct {
	Method      string
	Pattern     string
	Requirement Requirement
}

// Table is an ordered rule list with a default for unmatched routes.
// Rule order matters: the first matching rule wins, so more specific
// patterns must come before broader ones.
type Table struct {
	rules    []Rule
	fallback Requirement
}

// NewTable builds a table. Internal services pass Authenticated() as the
// fallback (fail-closed); the edge gateway passes Public() and lists only
// its secured routes; finer policy lives downstream.
func NewTable(fallback Requirement, rules ...Rule) *Table {
	return &Table{rules: rules, fallback: fallback}
}

// Evaluate resolves the requirement for a request. First match wins.
// Trailing slashes are stripped before matching so "/a/b/" cannot slip
// past a rule written for "/a/b".
func (t *Table) Evaluate(method, path string) Requirement {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	for _, rule := range t.rules {
		if rule.Method != MethodAny && !strings.EqualFold(rule.Method, method) {
			continue
		}
		if matchPattern(rule.Pattern, path) {
			return rule.Requirement
		}
	}
	return t.fallback
}

// matchPattern supports exact paths and "/**" suffix globs. "/a/b/**"
// matches "/a/b" and anything under it, but not "/a/bc".
func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		if path == prefix {
			return true
		}
		return strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}
