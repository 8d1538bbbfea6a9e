package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-marketplace/internal/api/dto"
	"github.com/spec-kit/job-marketplace/internal/auth"
	"github.com/spec-kit/job-marketplace/internal/service"
)

// AuthHandler exposes the identity service's auth endpoints.
type AuthHandler struct {
	tokens   *service.TokenService
	accounts *service.AccountService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(tokens *service.TokenService, accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{tokens: tokens, accounts: accounts}
}

// Signup handles POST /identity/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.accounts.Signup(c.UserContext(), service.SignupInput{
		Name:            req.Name,
		Username:        req.Username,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "signup successful, check your email to verify the account",
		"data":    fiber.Map{"username": user.Username},
	})
}

// Verify handles GET /identity/auth/verify?token=.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	code := c.Query("token")
	if code == "" {
		return fiber.NewError(http.StatusBadRequest, "token query parameter required")
	}

	if _, err := h.accounts.Verify(c.UserContext(), code); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": http.StatusOK, "message": "account verified"})
}

// Login handles POST /identity/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	pair, user, err := h.tokens.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) || errors.Is(err, auth.ErrAccountDisabled) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return err
	}

	return c.JSON(dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Profile:      dto.NewUserProfile(user),
	})
}

// Refresh handles POST /identity/auth/refresh. Whatever the failure kind,
// the response is the same line the clients already depend on.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	pair, err := h.tokens.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "Invalid or expired refresh token")
	}

	return c.JSON(dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Validate handles GET /identity/auth/validate?token=. Internal endpoint
// used by the edge gateway; success is the literal body "true".
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := h.tokens.Validate(c.UserContext(), token); err != nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	return c.SendString("true")
}

// Logout handles POST /identity/auth/logout: revokes the presented bearer
// token. The revocation write runs on a detached context so a client
// disconnect cannot abandon it halfway.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.tokens.Logout(context.WithoutCancel(c.UserContext()), token); err != nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"status": http.StatusOK, "message": "logged out"})
}

// Profile handles GET /identity/auth/profile for the authenticated caller.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.accounts.GetProfile(c.UserContext(), principal.Subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserProfile(user)})
}
