package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/job-marketplace/internal/auth"
	"github.com/spec-kit/job-marketplace/internal/domain"
	"github.com/spec-kit/job-marketplace/internal/events"
	"github.com/spec-kit/job-marketplace/internal/repository"
	"github.com/spec-kit/job-marketplace/internal/revocation"
)

// TokenPair is the access/refresh pair issued at login and refresh.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}

// TokenService issues, validates, rotates and revokes session tokens.
// A token has no stored "active" state: validity is derived per call from
// signature, expiry and revocation absence.
type TokenService struct {
	users      repository.UserRepository
	revoked    revocation.Store
	codec      *auth.Codec
	dispatcher events.Dispatcher
}

// NewTokenService builds the service. The dispatcher may be nil when no
// audit sink is wired (tests).
func NewTokenService(codec *auth.Codec, users repository.UserRepository, revoked revocation.Store, dispatcher events.Dispatcher) *TokenService {
	return &TokenService{
		users:      users,
		revoked:    revoked,
		codec:      codec,
		dispatcher: dispatcher,
	}
}

// Login verifies credentials against the credential store and issues a
// token pair embedding the role snapshot taken now. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *TokenService) Login(ctx context.Context, username, password string) (*TokenPair, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publish(ctx, eventWithReason(events.EventLoginRejected, username, "unknown user"))
			return nil, nil, auth.ErrBadCredentials
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.publish(ctx, eventWithReason(events.EventLoginRejected, username, "bad password"))
		return nil, nil, auth.ErrBadCredentials
	}
	if !user.Enabled {
		s.publish(ctx, eventWithReason(events.EventLoginRejected, username, "account disabled"))
		return nil, nil, auth.ErrAccountDisabled
	}

	pair, err := s.issuePair(user.Username, user.Roles)
	if err != nil {
		return nil, nil, err
	}
	s.publish(ctx, events.New(events.EventLoginSucceeded, user.Username))
	return pair, user, nil
}

// Refresh validates a refresh token and rotates it: a new pair is issued
// and the consumed refresh token is revoked so it cannot be replayed.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, identity, err := s.check(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(identity.Subject, identity.Roles)
	if err != nil {
		return nil, err
	}

	if err := s.revoked.Revoke(ctx, refreshToken, claims.ExpiresAt()); err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventTokenRefreshed, identity.Subject))
	return pair, nil
}

// Validate is the hot path, called on every protected request: signature,
// then expiry, then revocation. A token at exactly its expiry instant is
// already expired.
func (s *TokenService) Validate(ctx context.Context, accessToken string) (*domain.Identity, error) {
	_, identity, err := s.check(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// Logout revokes the presented token, keyed by its literal encoded string,
// with the token's own expiry so the entry can be pruned once the token
// would have died anyway. Revoking twice is a no-op.
func (s *TokenService) Logout(ctx context.Context, token string) error {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return err
	}
	if err := s.revoked.Revoke(ctx, token, claims.ExpiresAt()); err != nil {
		return err
	}
	s.publish(ctx, events.New(events.EventTokenRevoked, claims.Subject()))
	return nil
}

func (s *TokenService) check(ctx context.Context, token string) (*auth.Claims, *domain.Identity, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, nil, err
	}
	if !time.Now().Before(claims.ExpiresAt()) {
		return nil, nil, auth.ErrExpiredToken
	}
	revoked, err := s.revoked.IsRevoked(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, auth.ErrRevokedToken
	}

	roles, err := claims.DomainRoles()
	if err != nil {
		return nil, nil, err
	}
	return claims, &domain.Identity{Subject: claims.Subject(), Roles: roles}, nil
}

func (s *TokenService) issuePair(subject string, roles []domain.Role) (*TokenPair, error) {
	accessToken, accessExp, err := s.codec.IssueAccess(subject, roles)
	if err != nil {
		return nil, err
	}
	refreshToken, _, err := s.codec.IssueRefresh(subject, roles)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: accessExp,
	}, nil
}

func (s *TokenService) publish(ctx context.Context, ev events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, ev)
}

func eventWithReason(eventType events.EventType, subject, reason string) events.Event {
	ev := events.New(eventType, subject)
	ev.Reason = reason
	return ev
}
