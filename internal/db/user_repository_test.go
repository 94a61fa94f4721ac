package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/ekklesia/internal/models"
	"gorm.io/gorm"
)

func firstAccountIsAdmin(existingUsers int64) (models.Role, error) {
	if existingUsers == 0 {
		return models.RoleAdmin, nil
	}
	return models.RoleUser, nil
}

func newRegisteredUser(username string) models.User {
	return models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestUserRepositoryCreateRegisteredAssignsRoleFromCount(t *testing.T) {
	repo := NewUserRepository(openRepositoryTestDatabase(t))
	ctx := context.Background()

	first := newRegisteredUser("pastor")
	if err := repo.CreateRegistered(ctx, &first, firstAccountIsAdmin); err != nil {
		t.Fatalf("create first user: %v", err)
	}
	second := newRegisteredUser("reader")
	if err := repo.CreateRegistered(ctx, &second, firstAccountIsAdmin); err != nil {
		t.Fatalf("create second user: %v", err)
	}
	if first.Role != models.RoleAdmin || second.Role != models.RoleUser {
		t.Fatalf("expected admin then user, got %s and %s", first.Role, second.Role)
	}

	refused := errors.New("refused")
	third := newRegisteredUser("eve")
	if err := repo.CreateRegistered(ctx, &third, func(int64) (models.Role, error) { return "", refused }); !errors.Is(err, refused) {
		t.Fatalf("expected role callback error to pass through, got %v", err)
	}
	if _, err := repo.FindByUsername(ctx, "eve"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected refused user not to be stored, got %v", err)
	}

	duplicate := newRegisteredUser(" PASTOR ")
	if err := repo.CreateRegistered(ctx, &duplicate, firstAccountIsAdmin); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey for clashing username, got %v", err)
	}
}

func TestUserRepositoryConcurrentFirstRegistrationsYieldOneAdmin(t *testing.T) {
	database := openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "ekklesia-register-race.db"))
	repo := NewUserRepository(database)

	const registrations = 6
	var wg sync.WaitGroup
	for index := 0; index < registrations; index++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			user := newRegisteredUser(fmt.Sprintf("founder%d", index))
			_ = repo.CreateRegistered(context.Background(), &user, firstAccountIsAdmin)
		}(index)
	}
	wg.Wait()

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) == 0 {
		t.Fatal("expected at least one registration to succeed")
	}
	admins := 0
	for _, user := range users {
		if user.Role == models.RoleAdmin {
			admins++
		}
	}
	if admins != 1 {
		t.Fatalf("expected exactly one admin among %d users, got %d", len(users), admins)
	}
}
