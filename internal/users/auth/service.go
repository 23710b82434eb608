// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/crystalbox/internal/platform/apperr"
	"github.com/taibuivan/crystalbox/internal/platform/sec"
	"github.com/taibuivan/crystalbox/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user and
	// returns it with its expiry instant.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, time.Time, error)
}

// Service implements the sign-in use case.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	accessTokenTTL time.Duration
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider, accessTokenTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		accessTokenTTL: accessTokenTTL,
		logger:         logger,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Username or email
	Password string
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

/*
Login validates user credentials and issues an access token.

Description: Unknown accounts and wrong passwords produce the same
Unauthorized error so logins cannot be enumerated.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Token: Signed access token and its expiry
  - err: Validation, Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Token, error) {
	input.Login = strings.TrimSpace(input.Login)

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByLogin(context, input.Login)
	if err != nil {
		if apperr.IsNotFound(err) {
			service.logger.Info("login_rejected", slog.String("reason", "unknown_login"))
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.logger.Info("login_rejected", slog.String("reason", "bad_password"), slog.Int("user_id", user.ID))
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !user.Role.IsValid() {
		return nil, apperr.Forbidden("Account has no usable role")
	}

	accessToken, expiresAt, err := service.tokenProvider.GenerateAccessToken(
		strconv.Itoa(user.ID), user.Username, string(user.Role), service.accessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	service.logger.Info("login_succeeded", slog.Int("user_id", user.ID), slog.String("role", string(user.Role)))
	return &Token{AccessToken: accessToken, ExpiresAt: expiresAt}, nil
}
