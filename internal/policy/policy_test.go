package policy

import (
	"testing"

	"github.com/spec-kit/job-marketplace/internal/domain"
)

func TestEvaluate_FirstMatchWins(t *testing.T) {
	t.Parallel()

	table := NewTable(Authenticated(),
		Rule{"GET", "/api/admin/reports", RequireRole(domain.RoleAdmin)},
		Rule{"GET", "/api/admin/**", RequireRole(domain.RoleStaff)},
		Rule{"GET", "/api/**", Public()},
	)

	if got := table.Evaluate("GET", "/api/admin/reports"); got.Kind != KindRole || got.Role != domain.RoleAdmin {
		t.Fatalf("exact rule should win: got %+v", got)
	}
	if got := table.Evaluate("GET", "/api/admin/users"); got.Kind != KindRole || got.Role != domain.RoleStaff {
		t.Fatalf("glob rule should win over broader one: got %+v", got)
	}
	if got := table.Evaluate("GET", "/api/things"); got.Kind != KindPublic {
		t.Fatalf("broad glob should match: got %+v", got)
	}
}

func TestEvaluate_MethodMatters(t *testing.T) {
	t.Parallel()

	table := NewTable(Authenticated(),
		Rule{"POST", "/identity/auth/login", Public()},
	)

	if got := table.Evaluate("POST", "/identity/auth/login"); got.Kind != KindPublic {
		t.Fatalf("POST login should be public: got %+v", got)
	}
	if got := table.Evaluate("GET", "/identity/auth/login"); got.Kind != KindAuthenticated {
		t.Fatalf("GET login should fall through to default: got %+v", got)
	}
	if got := table.Evaluate("post", "/identity/auth/login"); got.Kind != KindPublic {
		t.Fatalf("method match should be case-insensitive: got %+v", got)
	}
}

func TestEvaluate_DefaultFailClosed(t *testing.T) {
	t.Parallel()

	table := NewTable(Authenticated())
	if got := table.Evaluate("DELETE", "/anything/at/all"); got.Kind != KindAuthenticated {
		t.Fatalf("unmatched route must fail closed: got %+v", got)
	}
}

func TestEvaluate_TrailingSlashNormalized(t *testing.T) {
	t.Parallel()

	table := NewTable(Authenticated(),
		Rule{"POST", "/job/jobs", RequireRole(domain.RoleRecruiter)},
	)

	if got := table.Evaluate("POST", "/job/jobs/"); got.Kind != KindRole || got.Role != domain.RoleRecruiter {
		t.Fatalf("trailing slash must not bypass the rule: got %+v", got)
	}
	if got := table.Evaluate("GET", "/"); got.Kind != KindAuthenticated {
		t.Fatalf("root path should still evaluate: got %+v", got)
	}
}

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/a/b", "/a/b", true},
		{"/a/b", "/a/b/c", false},
		{"/a/b/**", "/a/b", true},
		{"/a/b/**", "/a/b/c", true},
		{"/a/b/**", "/a/b/c/d", true},
		{"/a/b/**", "/a/bc", false},
		{"/a/b/**", "/a", false},
	}
	for _, tc := range cases {
		if got := matchPattern(tc.pattern, tc.path); got != tc.want {
			t.Fatalf("matchPattern(%q, %q) = %v, want %v", tc.pattern, tc.path, got, tc.want)
		}
	}
}

func TestGatewayTable_FailOpenWithSecuredList(t *testing.T) {
	t.Parallel()

	table := GatewayTable()

	// Open routes stay open.
	for _, path := range []string{"/identity/auth/login", "/files/preview/abc", "/files/get/abc"} {
		if got := table.Evaluate("GET", path); got.Kind != KindPublic {
			t.Fatalf("%s should be open at the gateway: got %+v", path, got)
		}
	}
	if got := table.Evaluate("POST", "/files/upload"); got.Kind != KindPublic {
		t.Fatalf("upload should be open: got %+v", got)
	}

	// Secured prefixes are gated.
	for _, path := range []string{"/job/jobs", "/jp/skills/1", "/files/delete/abc"} {
		if got := table.Evaluate("GET", path); got.Kind != KindAuthenticated {
			t.Fatalf("%s should be secured at the gateway: got %+v", path, got)
		}
	}

	// Everything unmatched is admitted: the gateway defaults open.
	if got := table.Evaluate("GET", "/ws/notifications"); got.Kind != KindPublic {
		t.Fatalf("unmatched gateway route should default open: got %+v", got)
	}
}

func TestIdentityTable_Defaults(t *testing.T) {
	t.Parallel()

	table := IdentityTable()

	if got := table.Evaluate("GET", "/identity/auth/validate"); got.Kind != KindPublic {
		t.Fatalf("validate must be public: got %+v", got)
	}
	if got := table.Evaluate("POST", "/identity/auth/logout"); got.Kind != KindAuthenticated {
		t.Fatalf("logout must require authentication: got %+v", got)
	}
	if got := table.Evaluate("POST", "/identity/auth/admin/accounts"); got.Kind != KindRole || got.Role != domain.RoleAdmin {
		t.Fatalf("admin POST must be admin-gated: got %+v", got)
	}
}
