package db

import (
	"context"
	"strings"
	"time"

	"github.com/terraincognita07/ekklesia/internal/models"
	"gorm.io/gorm"
)

type MemberRepository struct {
	database *gorm.DB
}

func NewMemberRepository(database *gorm.DB) *MemberRepository {
	return &MemberRepository{database: database}
}

func (repo *MemberRepository) FindByID(ctx context.Context, memberID uint) (models.Member, error) {
	var member models.Member
	if err := repo.database.WithContext(ctx).
		Preload("Services", orderAssignments).
		Preload("Services.ServiceType").
		First(&member, memberID).Error; err != nil {
		return models.Member{}, err
	}
	return member, nil
}

func (repo *MemberRepository) List(ctx context.Context) ([]models.Member, error) {
	members := make([]models.Member, 0)
	if err := repo.database.WithContext(ctx).
		Order("full_name ASC, id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Upsert inserts a member without an ID and fully overwrites an existing one.
// Service assignments are managed separately by ReplaceServices.
func (repo *MemberRepository) Upsert(ctx context.Context, member *models.Member) error {
	return repo.database.WithContext(ctx).Omit("Services").Save(member).Error
}

// Create inserts the member and its service assignments in one transaction.
func (repo *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Services").Create(member).Error; err != nil {
			return err
		}
		return replaceServices(tx, member.ID, member.Services)
	})
}

// Update applies column updates, swaps the member's assignments when
// services is non-nil and applies activation when it is non-nil, all in one
// transaction.
func (repo *MemberRepository) Update(ctx context.Context, memberID uint, updates map[string]any, services *[]models.ServiceAssignment, activation *models.MemberActivation) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if err := tx.Select("id").First(&member, memberID).Error; err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := updateMemberColumns(tx, memberID, updates); err != nil {
				return err
			}
		}
		if services != nil {
			if err := replaceServices(tx, memberID, *services); err != nil {
				return err
			}
		}
		if activation != nil {
			return applyActivation(tx, memberID, *activation)
		}
		return nil
	})
}

func (repo *MemberRepository) UpdateFields(ctx context.Context, memberID uint, updates map[string]any) error {
	return repo.Update(ctx, memberID, updates, nil, nil)
}

// SetActive only stamps a departure date when it is not already set, so
// repeating a deactivation leaves the row unchanged.
func (repo *MemberRepository) SetActive(ctx context.Context, memberID uint, active bool, at time.Time) error {
	return repo.Update(ctx, memberID, nil, nil, &models.MemberActivation{Active: active, At: at})
}

func (repo *MemberRepository) ReplaceServices(ctx context.Context, memberID uint, assignments []models.ServiceAssignment) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceServices(tx, memberID, assignments)
	})
}

func (repo *MemberRepository) UpdatePhotoURL(ctx context.Context, memberID uint, photoURL string) error {
	return repo.UpdateFields(ctx, memberID, map[string]any{"photo_url": photoURL})
}

// Search returns one page of matching members ordered by full name with the
// id as tie-breaker, plus the total match count.
func (repo *MemberRepository) Search(ctx context.Context, filter models.MemberFilter, offset int, limit int) ([]models.Member, int64, error) {
	var total int64
	if err := repo.filteredQuery(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	members := make([]models.Member, 0, limit)
	if total == 0 || int64(offset) >= total {
		return members, total, nil
	}

	if err := repo.filteredQuery(ctx, filter).
		Preload("Services", orderAssignments).
		Preload("Services.ServiceType").
		Order("full_name ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// ListForStatistics loads every member with service assignments and their
// service types.
func (repo *MemberRepository) ListForStatistics(ctx context.Context) ([]models.Member, error) {
	members := make([]models.Member, 0)
	if err := repo.database.WithContext(ctx).
		Select("id", "full_name", "gender", "birth_date", "baptism_date", "marital_status", "social_status", "holy_spirit", "is_active").
		Preload("Services.ServiceType").
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (repo *MemberRepository) ListActiveWithBirthDate(ctx context.Context) ([]models.Member, error) {
	members := make([]models.Member, 0)
	if err := repo.database.WithContext(ctx).
		Select("id", "full_name", "gender", "birth_date", "phone_mobile", "photo_url").
		Where("is_active = ? AND birth_date IS NOT NULL", true).
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (repo *MemberRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).
		Model(&models.Member{}).
		Where("is_active = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *MemberRepository) filteredQuery(ctx context.Context, filter models.MemberFilter) *gorm.DB {
	query := repo.database.WithContext(ctx).Model(&models.Member{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if needle := strings.TrimSpace(filter.SearchName); needle != "" {
		query = query.Where("search_name LIKE ? ESCAPE '\\'", "%"+escapeLikePattern(needle)+"%")
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.DistrictID != 0 {
		query = query.Where("district_id = ?", filter.DistrictID)
	}
	if filter.ServiceTypeID != 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM service_assignments sa WHERE sa.member_id = members.id AND sa.service_type_id = ?)",
			filter.ServiceTypeID,
		)
	}
	return query
}

func updateMemberColumns(tx *gorm.DB, memberID uint, updates map[string]any) error {
	if fullName, ok := updates["full_name"].(string); ok {
		updates["search_name"] = models.NormalizeSearchName(fullName)
	}
	return tx.Model(&models.Member{}).Where("id = ?", memberID).Updates(updates).Error
}

func applyActivation(tx *gorm.DB, memberID uint, activation models.MemberActivation) error {
	var member models.Member
	if err := tx.Select("id", "departure_date").First(&member, memberID).Error; err != nil {
		return err
	}

	updates := map[string]any{"is_active": activation.Active}
	if activation.Active {
		updates["departure_date"] = nil
	} else if member.DepartureDate == nil {
		updates["departure_date"] = activation.At
	}
	return tx.Model(&models.Member{}).Where("id = ?", memberID).Updates(updates).Error
}

func replaceServices(tx *gorm.DB, memberID uint, assignments []models.ServiceAssignment) error {
	if err := tx.Where("member_id = ?", memberID).Delete(&models.ServiceAssignment{}).Error; err != nil {
		return err
	}
	if len(assignments) == 0 {
		return nil
	}
	rows := make([]models.ServiceAssignment, len(assignments))
	for index, assignment := range assignments {
		assignment.ID = 0
		assignment.MemberID = memberID
		assignment.ServiceType = models.ServiceType{}
		rows[index] = assignment
	}
	return tx.Omit("ServiceType").Create(&rows).Error
}

func orderAssignments(query *gorm.DB) *gorm.DB {
	return query.Order("start_date ASC, id ASC")
}

func escapeLikePattern(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
