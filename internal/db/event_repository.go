package db

import (
	"context"
	"time"

	"github.com/terraincognita07/ekklesia/internal/models"
	"gorm.io/gorm"
)

type EventRepository struct {
	database *gorm.DB
}

func NewEventRepository(database *gorm.DB) *EventRepository {
	return &EventRepository{database: database}
}

func (repo *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0)
	if err := repo.database.WithContext(ctx).Order("event_date ASC, event_time ASC, id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListBetween returns events with from <= event_date < to.
func (repo *EventRepository) ListBetween(ctx context.Context, from time.Time, to time.Time) ([]models.Event, error) {
	events := make([]models.Event, 0)
	if err := repo.database.WithContext(ctx).
		Where("event_date >= ? AND event_date < ?", from, to).
		Order("event_date ASC, event_time ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListRecurringBefore returns recurring events whose first date is before end.
func (repo *EventRepository) ListRecurringBefore(ctx context.Context, end time.Time) ([]models.Event, error) {
	events := make([]models.Event, 0)
	if err := repo.database.WithContext(ctx).
		Where("is_recurring = ? AND recurrence_pattern <> '' AND event_date < ?", true, end).
		Order("event_date ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (repo *EventRepository) FindByID(ctx context.Context, eventID string) (models.Event, error) {
	event := models.Event{}
	if err := repo.database.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		return models.Event{}, err
	}
	return event, nil
}

func (repo *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return repo.database.WithContext(ctx).Create(event).Error
}

func (repo *EventRepository) Save(ctx context.Context, event *models.Event) error {
	return repo.database.WithContext(ctx).Save(event).Error
}

func (repo *EventRepository) Delete(ctx context.Context, eventID string) error {
	result := repo.database.WithContext(ctx).Where("id = ?", eventID).Delete(&models.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
