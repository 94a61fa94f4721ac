package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/ekklesia/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByID(ctx context.Context, userID string) (models.User, error)
	CreateRegistered(ctx context.Context, user *models.User, assignRole func(existingUsers int64) (models.Role, error)) error
}

type RegisterInput struct {
	Username string
	Password string
	FullName string
	Role     string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

type AuthService struct {
	users  AuthUserRepository
	tokens *TokenIssuer
}

func NewAuthService(users AuthUserRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates an account and signs it in. The very first account is
// the administrator; later self-registrations are plain users.
func (service *AuthService) Register(ctx context.Context, input RegisterInput, now time.Time) (AuthResult, error) {
	username, password, err := NormalizeCredentialsInput(input.Username, input.Password)
	if err != nil {
		return AuthResult{}, validationError("username must be 3-32 of a-z 0-9 . _ - and password is required")
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return AuthResult{}, validationError("%s", ErrWeakPassword.Error())
	}

	requestedRole := models.RoleUser
	if strings.TrimSpace(input.Role) != "" {
		requestedRole, err = models.ParseRole(input.Role)
		if err != nil {
			return AuthResult{}, validationError("unknown role %q", strings.TrimSpace(input.Role))
		}
	}

	exists, err := service.users.ExistsByUsername(ctx, username)
	if err != nil {
		return AuthResult{}, storeError("check username", err)
	}
	if exists {
		return AuthResult{}, fmt.Errorf("%w: username already exists", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(input.FullName),
		CreatedAt:    now.UTC(),
	}
	err = service.users.CreateRegistered(ctx, &user, func(existingUsers int64) (models.Role, error) {
		switch {
		case existingUsers == 0:
			return models.RoleAdmin, nil
		case requestedRole != models.RoleUser:
			return "", fmt.Errorf("%w: role %s is granted by an administrator", ErrForbidden, requestedRole)
		}
		return models.RoleUser, nil
	})
	if errors.Is(err, ErrForbidden) {
		return AuthResult{}, err
	}
	if err != nil {
		return AuthResult{}, storeError("create user", err)
	}
	return service.issue(user, now)
}

func (service *AuthService) Login(ctx context.Context, usernameRaw string, passwordRaw string, now time.Time) (AuthResult, error) {
	username, password, err := NormalizeCredentialsInput(usernameRaw, passwordRaw)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	user, err := service.users.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}
	if err != nil {
		return AuthResult{}, storeError("find user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}
	return service.issue(user, now)
}

// Authenticate resolves a bearer token to the current state of its user, so
// role changes and deletions apply from the next request on.
func (service *AuthService) Authenticate(ctx context.Context, rawToken string, now time.Time) (*Caller, error) {
	claims, err := service.tokens.Parse(rawToken, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	user, err := service.users.FindByID(ctx, claims.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
	}
	if err != nil {
		return nil, storeError("load user", err)
	}
	if !IsPasswordStateFingerprintMatch(claims.PasswordState, user.PasswordHash) {
		return nil, fmt.Errorf("%w: token revoked by password change", ErrUnauthenticated)
	}

	return CallerFromUser(user), nil
}

func (service *AuthService) Me(ctx context.Context, caller *Caller) (models.User, error) {
	if err := requireCaller(caller); err != nil {
		return models.User{}, err
	}
	user, err := service.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return models.User{}, storeError("load user", err)
	}
	return user, nil
}

func (service *AuthService) issue(user models.User, now time.Time) (AuthResult, error) {
	token, expiresAt, err := service.tokens.Issue(user, now)
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}
	return AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func CallerFromUser(user models.User) *Caller {
	return &Caller{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
		MemberID: user.MemberID,
	}
}
