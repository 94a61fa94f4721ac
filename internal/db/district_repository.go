package db

import (
	"context"

	"github.com/terraincognita07/ekklesia/internal/models"
	"gorm.io/gorm"
)

type DistrictRepository struct {
	database *gorm.DB
}

func NewDistrictRepository(database *gorm.DB) *DistrictRepository {
	return &DistrictRepository{database: database}
}

func (repo *DistrictRepository) List(ctx context.Context) ([]models.District, error) {
	districts := make([]models.District, 0)
	if err := repo.database.WithContext(ctx).Order("number ASC").Find(&districts).Error; err != nil {
		return nil, err
	}
	return districts, nil
}

func (repo *DistrictRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.District{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *DistrictRepository) Exists(ctx context.Context, districtID uint) (bool, error) {
	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.District{}).
		Where("id = ?", districtID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
