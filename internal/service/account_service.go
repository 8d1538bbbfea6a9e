package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/job-marketplace/internal/auth"
	"github.com/spec-kit/job-marketplace/internal/domain"
	"github.com/spec-kit/job-marketplace/internal/events"
	"github.com/spec-kit/job-marketplace/internal/repository"
	apperrors "github.com/spec-kit/job-marketplace/pkg/util"
)

// SignupInput carries the registration payload.
type SignupInput struct {
	Name            string
	Username        string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
	Role            string
}

// AccountService manages registration and verification. Accounts start
// disabled and cannot log in until verified.
type AccountService struct {
	users      repository.UserRepository
	bcryptCost int
	dispatcher events.Dispatcher
}

// NewAccountService builds the service.
func NewAccountService(users repository.UserRepository, bcryptCost int, dispatcher events.Dispatcher) *AccountService {
	return &AccountService{users: users, bcryptCost: bcryptCost, dispatcher: dispatcher}
}

// Signup registers a disabled account with a verification code. The
// requested role expands down the hierarchy: an admin also gets recruiter,
// staff and user; a recruiter gets staff and user; everyone gets user.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("username, email and password are required", nil)
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperrors.NewValidationError("passwords do not match", nil)
	}

	if taken, err := s.users.ExistsByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.NewConflict("username already exists", nil)
	}
	if taken, err := s.users.ExistsByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.NewConflict("email already exists", nil)
	}
	if in.PhoneNumber != "" {
		if taken, err := s.users.ExistsByPhoneNumber(ctx, in.PhoneNumber); err != nil {
			return nil, err
		} else if taken {
			return nil, apperrors.NewConflict("phone number already exists", nil)
		}
	}

	roles, err := signupRoles(in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	code := uuid.NewString()
	user := &domain.User{
		Name:             in.Name,
		Username:         in.Username,
		Email:            in.Email,
		PhoneNumber:      in.PhoneNumber,
		PasswordHash:     hash,
		Roles:            roles,
		Enabled:          false,
		VerificationCode: &code,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventUserSignedUp, user.Username))
	return user, nil
}

// Verify enables the account matching the verification code and clears the
// code so it cannot be reused.
func (s *AccountService) Verify(ctx context.Context, code string) (*domain.User, error) {
	user, err := s.users.GetByVerificationCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("verification code invalid or already used", nil)
		}
		return nil, err
	}

	user.Enabled = true
	user.VerificationCode = nil
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventUserVerified, user.Username))
	return user, nil
}

// GetProfile loads the account for profile display.
func (s *AccountService) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func signupRoles(requested string) ([]domain.Role, error) {
	if requested == "" {
		return []domain.Role{domain.RoleUser}, nil
	}
	role, err := domain.ParseRole(requested)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	return domain.ExpandRole(role), nil
}

func (s *AccountService) publish(ctx context.Context, ev events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, ev)
}
