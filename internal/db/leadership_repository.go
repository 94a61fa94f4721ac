package db

import (
	"context"

	"github.com/terraincognita07/ekklesia/internal/models"
	"gorm.io/gorm"
)

type LeadershipRepository struct {
	database *gorm.DB
}

func NewLeadershipRepository(database *gorm.DB) *LeadershipRepository {
	return &LeadershipRepository{database: database}
}

func (repo *LeadershipRepository) ListPresbyters(ctx context.Context) ([]models.Presbyter, error) {
	presbyters := make([]models.Presbyter, 0)
	if err := repo.database.WithContext(ctx).
		Preload("Member").
		Order("id ASC").
		Find(&presbyters).Error; err != nil {
		return nil, err
	}
	return presbyters, nil
}

func (repo *LeadershipRepository) ListDeacons(ctx context.Context) ([]models.Deacon, error) {
	deacons := make([]models.Deacon, 0)
	if err := repo.database.WithContext(ctx).
		Preload("Member").
		Order("id ASC").
		Find(&deacons).Error; err != nil {
		return nil, err
	}
	return deacons, nil
}
