package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/terraincognita07/ekklesia/internal/models"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	if err := repo.database.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindByUsername matches on the same lower(trim()) form the unique index uses.
func (repo *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	if err := repo.database.WithContext(ctx).
		Where("lower(trim(username)) = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var matched int64
	if err := repo.database.WithContext(ctx).Model(&models.User{}).
		Where("lower(trim(username)) = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.WithContext(ctx).Order("created_at ASC, username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreateRegistered counts the existing accounts, lets assignRole pick the
// new account's role from that count and inserts it in one transaction. The
// users table is write-locked first so two registrations on an empty table
// cannot both see zero accounts. A username clash comes back as
// gorm.ErrDuplicatedKey; errors from assignRole are returned as is.
func (repo *UserRepository) CreateRegistered(ctx context.Context, user *models.User, assignRole func(existingUsers int64) (models.Role, error)) error {
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUsersForWrite(tx); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		role, err := assignRole(count)
		if err != nil {
			return err
		}
		user.Role = role
		return tx.Create(user).Error
	})
	return translateUniqueViolation(err)
}

func (repo *UserRepository) UpdateRole(ctx context.Context, userID string, role models.Role) error {
	return repo.updateByID(ctx, userID, map[string]any{"role": role})
}

func (repo *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	return repo.updateByID(ctx, userID, map[string]any{"password_hash": passwordHash})
}

func (repo *UserRepository) Delete(ctx context.Context, userID string) error {
	result := repo.database.WithContext(ctx).Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (repo *UserRepository) updateByID(ctx context.Context, userID string, updates map[string]any) error {
	result := repo.database.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func lockUsersForWrite(tx *gorm.DB) error {
	if tx.Dialector.Name() == dialectPostgres {
		return tx.Exec(`LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`).Error
	}
	// SQLite takes its single writer lock on the first write statement.
	return tx.Exec(`UPDATE users SET id = id WHERE 1 = 0`).Error
}

func translateUniqueViolation(err error) error {
	if err == nil || errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", gorm.ErrDuplicatedKey, pgErr.Message)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", gorm.ErrDuplicatedKey, err)
	}
	return err
}
