package policy

import "github.com/spec-kit/job-marketplace/internal/domain"

// Per-service tables. Each service owns its table and evaluates it
// independently; the gateway never decides fine-grained policy for them.

// IdentityTable gates the identity service routes. Unmatched routes
// require authentication.
func IdentityTable() *Table {
	return NewTable(Authenticated(),
		Rule{"POST", "/identity/auth/login", Public()},
		Rule{"POST", "/identity/auth/signup", Public()},
		Rule{"POST", "/identity/auth/refresh", Public()},
		Rule{"GET", "/identity/auth/verify", Public()},
		Rule{"GET", "/identity/auth/validate", Public()},
		Rule{"GET", "/identity/auth/public/**", Public()},
		Rule{"POST", "/identity/auth/admin/**", RequireRole(domain.RoleAdmin)},
		Rule{"GET", "/identity/auth/admin/**", RequireRole(domain.RoleAdmin)},
		Rule{"PUT", "/identity/auth/admin/**", RequireRole(domain.RoleAdmin)},
		Rule{"DELETE", "/identity/auth/admin/delete/**", RequireRole(domain.RoleAdmin)},
		Rule{"GET", "/health/**", Public()},
	)
}

// JobTable gates the job service routes. Category administration is
// admin-only, posting jobs is recruiter work, browsing public listings
// needs nothing; everything unmatched requires authentication.
func JobTable() *Table {
	return NewTable(Authenticated(),
		Rule{"GET", "/job/jobs/public/**", Public()},
		Rule{"GET", "/job/categories/public/**", Public()},
		Rule{"POST", "/job/categories/admin/**", RequireRole(domain.RoleAdmin)},
		Rule{"PUT", "/job/categories/admin/**", RequireRole(domain.RoleAdmin)},
		Rule{"DELETE", "/job/categories/admin/**", RequireRole(domain.RoleAdmin)},
		Rule{"POST", "/job/jobs", RequireRole(domain.RoleRecruiter)},
		Rule{"GET", "/health/**", Public()},
	)
}

// GatewayTable is the edge allowlist. The gateway gates a narrow secured
// list and admits everything unmatched; each downstream service
// re-validates with its own fail-closed table. The open file routes come
// first so ordering keeps them reachable without a token.
func GatewayTable() *Table {
	return NewTable(Public(),
		Rule{MethodAny, "/identity/**", Public()},
		Rule{MethodAny, "/files/preview/**", Public()},
		Rule{"POST", "/files/upload", Public()},
		Rule{MethodAny, "/files/get/**", Public()},
		Rule{MethodAny, "/files/**", Authenticated()},
		Rule{MethodAny, "/job/**", Authenticated()},
		Rule{MethodAny, "/jp/**", Authenticated()},
	)
}
