package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/job-marketplace/internal/domain"
)

// Codec signs and verifies session tokens with a process-wide symmetric key.
// It is a pure function of its inputs: no I/O, safe for concurrent use.
// Changing the secret invalidates every outstanding token, which is the
// accepted operational tradeoff for symmetric signing.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec builds a codec. An empty secret is a configuration error and is
// rejected here so it can never surface per-request.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token codec: signing secret is empty")
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// Claims is the signed token payload: subject plus a role snapshot.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Subject returns the claim subject.
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// ExpiresAt returns the expiry instant carried by the token.
func (c *Claims) ExpiresAt() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// DomainRoles parses the roles claim, dropping nothing: an unknown role name
// makes the whole token invalid.
func (c *Claims) DomainRoles() ([]domain.Role, error) {
	roles, err := domain.ParseRoles(c.Roles)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return roles, nil
}

// IssueAccess signs a short-lived access token for the subject.
func (c *Codec) IssueAccess(subject string, roles []domain.Role) (string, time.Time, error) {
	return c.issue(subject, roles, c.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the subject.
func (c *Codec) IssueRefresh(subject string, roles []domain.Role) (string, time.Time, error) {
	return c.issue(subject, roles, c.refreshTTL)
}

func (c *Codec) issue(subject string, roles []domain.Role, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Roles: domain.RoleNames(roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Decode verifies signature and structure only. Expiry and revocation are
// deliberately left to the caller, which needs to tell the failure kinds
// apart; expiry validation at parse level is therefore disabled.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.RegisteredClaims.Subject == "" || claims.RegisteredClaims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
