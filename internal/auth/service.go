// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/user"
)

type Service struct {
	users  user.Repository
	tokens *TokenService
	logger *slog.Logger
}

func NewService(
	users user.Repository,
	tokens *TokenService,
	logger *slog.Logger,
) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleUser,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.NewAppError(
				err,
				"an account with this email already exists",
				http.StatusConflict,
				"EMAIL_EXISTS",
			)
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID)

	return s.issueTokens(u)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	// The comparison runs against a dummy hash when the account does
	// not exist so lookup failures are not observable through timing.
	var storedHash *string
	if u != nil {
		storedHash = &u.PasswordHash
	}

	valid, err := core.VerifyPasswordTimingSafe(req.Password, storedHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid || u == nil {
		return nil, invalidCredentialsError()
	}

	s.logger.Info("user logged in", "user_id", u.ID)

	return s.issueTokens(u)
}

// Refresh verifies the refresh token against its own secret, re-reads
// the user so a role change takes effect on the next access token, and
// mints a fresh pair.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*AuthResult, error) {
	claims, err := s.tokens.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrTokenExpired):
			return nil, core.NewAppError(
				err,
				"refresh token has expired, please log in again",
				http.StatusUnauthorized,
				"REFRESH_TOKEN_EXPIRED",
			)
		default:
			return nil, core.NewAppError(
				err,
				"invalid refresh token",
				http.StatusForbidden,
				"INVALID_REFRESH_TOKEN",
			)
		}
	}

	// The token was valid but its subject is gone, which is a
	// different failure than a forged or expired token.
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NewAppError(
				err,
				"user not found",
				http.StatusNotFound,
				"USER_NOT_FOUND",
			)
		}
		return nil, err
	}

	return s.issueTokens(u)
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) issueTokens(u *user.User) (*AuthResult, error) {
	claims := UserClaims{ID: u.ID, Email: u.Email, Role: u.Role}

	accessToken, err := s.tokens.CreateAccessToken(claims)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.CreateRefreshToken(claims)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func invalidCredentialsError() *core.AppError {
	return core.NewAppError(
		core.ErrUnauthorized,
		"invalid email or password",
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
	)
}
