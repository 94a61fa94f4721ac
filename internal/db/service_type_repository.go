package db

import (
	"context"

	"github.com/terraincognita07/ekklesia/internal/models"
	"gorm.io/gorm"
)

type ServiceTypeRepository struct {
	database *gorm.DB
}

func NewServiceTypeRepository(database *gorm.DB) *ServiceTypeRepository {
	return &ServiceTypeRepository{database: database}
}

func (repo *ServiceTypeRepository) List(ctx context.Context) ([]models.ServiceType, error) {
	serviceTypes := make([]models.ServiceType, 0)
	if err := repo.database.WithContext(ctx).Order("name ASC, id ASC").Find(&serviceTypes).Error; err != nil {
		return nil, err
	}
	return serviceTypes, nil
}

func (repo *ServiceTypeRepository) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.ServiceType{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
