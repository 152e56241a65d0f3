package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/huddleapp/huddle/internal/apperror"
	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/repository"
)

// UserService handles profile and account maintenance for the acting user.
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{users: users, passwords: passwords, logger: logger}
}

// Get returns the user record for the given username.
func (s *UserService) Get(ctx context.Context, username string) (*model.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// List returns all registered users. An empty result is not an error.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/user: listing users: %w", err)
	}
	return users, nil
}

// UpdateProfile replaces the user's personData and returns the updated
// record.
func (s *UserService) UpdateProfile(ctx context.Context, username string, person model.PersonData) (*model.User, error) {
	if err := s.users.UpdatePerson(ctx, username, person); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("username", username))
	return s.users.GetByUsername(ctx, username)
}

// UpdatePassword verifies the old password before storing a hash of the
// new one.
func (s *UserService) UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) (*model.User, error) {
	if newPassword == "" {
		return nil, apperror.ValidationFailed("newPassword", "Missing data!")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.passwords.Verify(user.AccountData.Password, oldPassword); err != nil {
		return nil, apperror.Unauthorized("Password is incorrect!")
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, username, hash); err != nil {
		return nil, err
	}

	s.logger.Info("password changed", slog.String("username", username))

	user.AccountData.Password = hash
	return user, nil
}

// Delete removes the account. Group membership entries and event invites
// for the username are deliberately left in place — there is no cascade on
// user deletion.
func (s *UserService) Delete(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.String("username", username))
	return nil
}
