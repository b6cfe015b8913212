package service

import (
	"context"
	"strings"

	"yatube/internal/auth"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

type UserService struct {
	users repository.UserRepository
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Signup validates and registers a new account.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewFieldError("username", err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewFieldError("email", err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewFieldError("password", err.Error())
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: username, Email: email, Password: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user when the credentials match.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}
