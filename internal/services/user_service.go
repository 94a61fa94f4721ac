package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/terraincognita07/ekklesia/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, userID string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	UpdateRole(ctx context.Context, userID string, role models.Role) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	Delete(ctx context.Context, userID string) error
}

type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

func (service *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := service.users.List(ctx)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

func (service *UserService) UpdateRole(ctx context.Context, userID string, rawRole string) (models.User, error) {
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return models.User{}, validationError("role must be one of admin, presbyter, deacon, user")
	}
	if err := service.users.UpdateRole(ctx, userID, role); err != nil {
		return models.User{}, storeError(fmt.Sprintf("user %s", userID), err)
	}
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, storeError(fmt.Sprintf("user %s", userID), err)
	}
	return user, nil
}

func (service *UserService) Delete(ctx context.Context, userID string) error {
	if err := service.users.Delete(ctx, userID); err != nil {
		return storeError(fmt.Sprintf("user %s", userID), err)
	}
	return nil
}

// ResetPassword replaces the password of username with newPassword. Tokens
// issued before the reset stop authenticating.
func (service *UserService) ResetPassword(ctx context.Context, username string, newPassword string) error {
	normalized := NormalizeUsername(username)
	if normalized == "" {
		return validationError("invalid username %q", strings.TrimSpace(username))
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return validationError("%s", ErrWeakPassword.Error())
	}

	user, err := service.users.FindByUsername(ctx, normalized)
	if err != nil {
		return storeError(fmt.Sprintf("user %s", normalized), err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return storeError(fmt.Sprintf("user %s", normalized), err)
	}
	return nil
}
