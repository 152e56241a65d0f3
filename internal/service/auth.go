// Package service contains the business logic layer: validation,
// uniqueness rules and the cross-document consistency maintenance between
// groups and events. Handlers parse HTTP, services enforce the rules,
// repositories talk to the store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/huddleapp/huddle/internal/apperror"
	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/repository"
)

// AuthService handles registration and login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record with the issued token so the handler
// can set the token header and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// Emails are lower-cased before the duplicate check and before storage, so
// email uniqueness is case-insensitive. Usernames are compared as-is.
// Duplicate email or username fails with a conflict; missing required
// fields fail with a validation error.
func (s *AuthService) Register(ctx context.Context, account model.AccountData, person model.PersonData) (*AuthResult, error) {
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	account.Username = strings.TrimSpace(account.Username)

	if account.Email == "" || account.Username == "" || account.Password == "" {
		return nil, apperror.ValidationFailed("accountData", "Missing data!")
	}

	emailTaken, err := s.users.ExistsByEmail(ctx, account.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}
	if emailTaken {
		return nil, apperror.Conflict("E-mail address is taken!")
	}

	usernameTaken, err := s.users.ExistsByUsername(ctx, account.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking username: %w", err)
	}
	if usernameTaken {
		return nil, apperror.Conflict("Username is taken!")
	}

	hash, err := s.passwords.Hash(account.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}
	account.Password = hash

	user := &model.User{
		AccountData: account,
		PersonData:  person,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user %q: %w", account.Username, err)
	}

	s.logger.Info("user registered",
		slog.String("username", account.Username),
		slog.String("id", user.ID),
	)

	token, err := s.tokens.Generate(account.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %q: %w", account.Username, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies the credentials and issues a fresh token.
// Both an unknown username and a wrong password fail with Unauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("accountData", "Missing data!")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Unauthorized("Username is incorrect!")
	}

	if err := s.passwords.Verify(user.AccountData.Password, password); err != nil {
		return nil, apperror.Unauthorized("Password is incorrect!")
	}

	token, err := s.tokens.Generate(username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %q: %w", username, err)
	}

	s.logger.Info("user logged in", slog.String("username", username))

	return &AuthResult{User: user, Token: token}, nil
}
