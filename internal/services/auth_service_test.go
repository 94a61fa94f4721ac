package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/terraincognita07/ekklesia/internal/models"
	"gorm.io/gorm"
)

var authTestNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestAuthService(users *stubUserStore) *AuthService {
	return NewAuthService(users, NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour))
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	users := newStubUserStore()
	service := newTestAuthService(users)

	result, err := service.Register(context.Background(), RegisterInput{
		Username: " Pastor ",
		Password: "StrongPass1",
		FullName: "Пастор",
	}, authTestNow)
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if result.User.Role != models.RoleAdmin {
		t.Fatalf("expected first user to be admin, got %s", result.User.Role)
	}
	if result.User.Username != "pastor" {
		t.Fatalf("expected normalized username, got %q", result.User.Username)
	}
	if result.Token == "" || !result.ExpiresAt.Equal(authTestNow.Add(time.Hour)) {
		t.Fatalf("unexpected token result %#v", result)
	}

	second, err := service.Register(context.Background(), RegisterInput{Username: "member", Password: "StrongPass1"}, authTestNow)
	if err != nil {
		t.Fatalf("second Register() unexpected error: %v", err)
	}
	if second.User.Role != models.RoleUser {
		t.Fatalf("expected later registration to be user, got %s", second.User.Role)
	}
}

func TestRegisterRejectsElevatedRoleAndDuplicates(t *testing.T) {
	users := newStubUserStore(models.User{ID: "1", Username: "pastor", Role: models.RoleAdmin})
	service := newTestAuthService(users)
	ctx := context.Background()

	if _, err := service.Register(ctx, RegisterInput{Username: "eve", Password: "StrongPass1", Role: "admin"}, authTestNow); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Register(admin) expected ErrForbidden, got %v", err)
	}
	if _, err := service.Register(ctx, RegisterInput{Username: "eve", Password: "StrongPass1", Role: "bishop"}, authTestNow); !errors.Is(err, ErrValidation) {
		t.Fatalf("Register(bishop) expected ErrValidation, got %v", err)
	}
	if _, err := service.Register(ctx, RegisterInput{Username: "PASTOR", Password: "StrongPass1"}, authTestNow); !errors.Is(err, ErrConflict) {
		t.Fatalf("Register(duplicate) expected ErrConflict, got %v", err)
	}
	if _, err := service.Register(ctx, RegisterInput{Username: "eve", Password: "weak"}, authTestNow); !errors.Is(err, ErrValidation) {
		t.Fatalf("Register(weak password) expected ErrValidation, got %v", err)
	}
	if users.calls != 0 {
		t.Fatalf("expected no user created, got %d writes", users.calls)
	}
}

func TestRegisterMapsUniqueViolationToConflict(t *testing.T) {
	users := newStubUserStore(models.User{ID: "1", Username: "pastor", Role: models.RoleAdmin})
	users.createErr = fmt.Errorf("%w: UNIQUE constraint failed", gorm.ErrDuplicatedKey)
	service := newTestAuthService(users)

	_, err := service.Register(context.Background(), RegisterInput{Username: "racer", Password: "StrongPass1"}, authTestNow)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict when the insert hits the unique index, got %v", err)
	}
	if ErrorKind(err) != KindConflict {
		t.Fatalf("expected conflict kind, got %s", ErrorKind(err))
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	users := newStubUserStore()
	service := newTestAuthService(users)
	ctx := context.Background()

	registered, err := service.Register(ctx, RegisterInput{Username: "pastor", Password: "StrongPass1"}, authTestNow)
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if _, err := service.Login(ctx, "pastor", "WrongPass1", authTestNow); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Login(wrong password) expected ErrUnauthenticated, got %v", err)
	}
	if _, err := service.Login(ctx, "nobody", "StrongPass1", authTestNow); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Login(unknown) expected ErrUnauthenticated, got %v", err)
	}

	login, err := service.Login(ctx, "Pastor", "StrongPass1", authTestNow)
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	caller, err := service.Authenticate(ctx, login.Token, authTestNow.Add(time.Minute))
	if err != nil {
		t.Fatalf("Authenticate() unexpected error: %v", err)
	}
	if caller.UserID != registered.User.ID || caller.Role != models.RoleAdmin {
		t.Fatalf("unexpected caller %#v", caller)
	}

	user := users.users[registered.User.ID]
	user.Role = models.RoleDeacon
	users.users[user.ID] = user
	caller, err = service.Authenticate(ctx, login.Token, authTestNow.Add(time.Minute))
	if err != nil {
		t.Fatalf("Authenticate() after role change unexpected error: %v", err)
	}
	if caller.Role != models.RoleDeacon {
		t.Fatalf("expected role change to apply immediately, got %s", caller.Role)
	}

	if _, err := service.Authenticate(ctx, login.Token, authTestNow.Add(2*time.Hour)); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Authenticate(expired) expected ErrUnauthenticated, got %v", err)
	}
	if _, err := service.Authenticate(ctx, "not-a-token", authTestNow); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Authenticate(garbage) expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthenticateRejectsTokensAfterPasswordResetOrDeletion(t *testing.T) {
	users := newStubUserStore()
	service := newTestAuthService(users)
	ctx := context.Background()

	registered, err := service.Register(ctx, RegisterInput{Username: "pastor", Password: "StrongPass1"}, authTestNow)
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if err := NewUserService(users).ResetPassword(ctx, "pastor", "NewStrongPass2"); err != nil {
		t.Fatalf("ResetPassword() unexpected error: %v", err)
	}
	if _, err := service.Authenticate(ctx, registered.Token, authTestNow); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected token revoked after reset, got %v", err)
	}
	if _, err := service.Login(ctx, "pastor", "NewStrongPass2", authTestNow); err != nil {
		t.Fatalf("Login() with new password unexpected error: %v", err)
	}

	delete(users.users, registered.User.ID)
	if _, err := service.Authenticate(ctx, registered.Token, authTestNow); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected deleted user rejected, got %v", err)
	}
}

func TestAuthenticateStoreFailure(t *testing.T) {
	users := newStubUserStore(models.User{ID: "1", Username: "pastor", PasswordHash: "hash", Role: models.RoleAdmin})
	service := newTestAuthService(users)

	token, _, err := service.tokens.Issue(users.users["1"], authTestNow)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	users.err = errors.New("connection reset")
	if _, err := service.Authenticate(context.Background(), token, authTestNow); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestMeRequiresCaller(t *testing.T) {
	users := newStubUserStore(models.User{ID: "1", Username: "pastor", Role: models.RoleAdmin})
	service := newTestAuthService(users)

	if _, err := service.Me(context.Background(), nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Me(nil) expected ErrUnauthenticated, got %v", err)
	}
	user, err := service.Me(context.Background(), CallerFromUser(users.users["1"]))
	if err != nil {
		t.Fatalf("Me() unexpected error: %v", err)
	}
	if user.Username != "pastor" {
		t.Fatalf("unexpected user %#v", user)
	}
}
