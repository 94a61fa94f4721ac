package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/terraincognita07/ekklesia/internal/models"
)

const maxEventTitleLength = 200

var eventTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type EventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	ListBetween(ctx context.Context, from time.Time, to time.Time) ([]models.Event, error)
	ListRecurringBefore(ctx context.Context, end time.Time) ([]models.Event, error)
	FindByID(ctx context.Context, eventID string) (models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Save(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, eventID string) error
}

type EventInput struct {
	Title             string
	Description       string
	EventDate         string
	EventTime         string
	EventType         string
	Location          string
	IsRecurring       bool
	RecurrencePattern string
}

type EventPatch struct {
	Title             *string
	Description       *string
	EventDate         *string
	EventTime         *string
	EventType         *string
	Location          *string
	IsRecurring       *bool
	RecurrencePattern *string
}

func (patch EventPatch) IsEmpty() bool {
	return patch.Title == nil &&
		patch.Description == nil &&
		patch.EventDate == nil &&
		patch.EventTime == nil &&
		patch.EventType == nil &&
		patch.Location == nil &&
		patch.IsRecurring == nil &&
		patch.RecurrencePattern == nil
}

type EventService struct {
	events EventRepository
}

func NewEventService(events EventRepository) *EventService {
	return &EventService{events: events}
}

// List returns every event, or those stored in one month when year and
// month are both set.
func (service *EventService) List(ctx context.Context, year int, month int) ([]models.Event, error) {
	if year == 0 && month == 0 {
		events, err := service.events.List(ctx)
		if err != nil {
			return nil, storeError("list events", err)
		}
		return events, nil
	}
	start, end, err := monthBounds(year, month)
	if err != nil {
		return nil, err
	}
	events, err := service.events.ListBetween(ctx, start, end)
	if err != nil {
		return nil, storeError("list events", err)
	}
	return events, nil
}

func (service *EventService) Create(ctx context.Context, caller *Caller, input EventInput, now time.Time) (models.Event, error) {
	event := models.Event{
		ID:          uuid.NewString(),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		IsRecurring: input.IsRecurring,
		CreatedAt:   now.UTC(),
	}
	if caller != nil {
		event.CreatedBy = caller.UserID
	}

	var err error
	if event.Title, err = normalizeEventTitle(input.Title); err != nil {
		return models.Event{}, err
	}
	if event.EventDate, err = parseEventDate(input.EventDate); err != nil {
		return models.Event{}, err
	}
	if event.EventTime, err = normalizeEventTime(input.EventTime); err != nil {
		return models.Event{}, err
	}
	event.EventType = normalizeEventType(input.EventType)
	if event.RecurrencePattern, err = normalizeRecurrence(input.IsRecurring, input.RecurrencePattern); err != nil {
		return models.Event{}, err
	}

	if err := service.events.Create(ctx, &event); err != nil {
		return models.Event{}, storeError("create event", err)
	}
	return event, nil
}

func (service *EventService) Update(ctx context.Context, eventID string, patch EventPatch) (models.Event, error) {
	if patch.IsEmpty() {
		return models.Event{}, validationError("no fields to update")
	}

	event, err := service.events.FindByID(ctx, eventID)
	if err != nil {
		return models.Event{}, storeError(fmt.Sprintf("event %s", eventID), err)
	}

	if patch.Title != nil {
		if event.Title, err = normalizeEventTitle(*patch.Title); err != nil {
			return models.Event{}, err
		}
	}
	if patch.Description != nil {
		event.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.EventDate != nil {
		if event.EventDate, err = parseEventDate(*patch.EventDate); err != nil {
			return models.Event{}, err
		}
	}
	if patch.EventTime != nil {
		if event.EventTime, err = normalizeEventTime(*patch.EventTime); err != nil {
			return models.Event{}, err
		}
	}
	if patch.EventType != nil {
		event.EventType = normalizeEventType(*patch.EventType)
	}
	if patch.Location != nil {
		event.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.IsRecurring != nil {
		event.IsRecurring = *patch.IsRecurring
	}
	pattern := event.RecurrencePattern
	if patch.RecurrencePattern != nil {
		pattern = *patch.RecurrencePattern
	}
	if event.RecurrencePattern, err = normalizeRecurrence(event.IsRecurring, pattern); err != nil {
		return models.Event{}, err
	}

	if err := service.events.Save(ctx, &event); err != nil {
		return models.Event{}, storeError(fmt.Sprintf("event %s", eventID), err)
	}
	return event, nil
}

func (service *EventService) Delete(ctx context.Context, eventID string) error {
	if err := service.events.Delete(ctx, eventID); err != nil {
		return storeError(fmt.Sprintf("event %s", eventID), err)
	}
	return nil
}

// Occurrences returns the events falling in [start, end), with recurring
// events repeated on each matching date. Each result carries its
// occurrence date in EventDate.
func (service *EventService) Occurrences(ctx context.Context, start time.Time, end time.Time) ([]models.Event, error) {
	stored, err := service.events.ListBetween(ctx, start, end)
	if err != nil {
		return nil, storeError("list events", err)
	}
	recurring, err := service.events.ListRecurringBefore(ctx, end)
	if err != nil {
		return nil, storeError("list recurring events", err)
	}

	occurrences := make([]models.Event, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for _, event := range stored {
		event.EventDate = CalendarDay(event.EventDate)
		occurrences = append(occurrences, event)
		seen[occurrenceKey(event.ID, event.EventDate)] = struct{}{}
	}
	for _, event := range recurring {
		for _, day := range RecurrenceDates(CalendarDay(event.EventDate), event.RecurrencePattern, start, end) {
			key := occurrenceKey(event.ID, day)
			if _, duplicate := seen[key]; duplicate {
				continue
			}
			seen[key] = struct{}{}
			occurrence := event
			occurrence.EventDate = day
			occurrences = append(occurrences, occurrence)
		}
	}
	return occurrences, nil
}

// RecurrenceDates lists the dates in [start, end) on which an event first
// held on first repeats with pattern. Monthly and yearly repeats that land on
// a missing day (the 31st, February 29) are skipped for that period.
func RecurrenceDates(first time.Time, pattern string, start time.Time, end time.Time) []time.Time {
	dates := make([]time.Time, 0)
	if !first.Before(end) {
		return dates
	}

	switch pattern {
	case models.RecurrenceWeekly:
		cursor := first
		if cursor.Before(start) {
			weeks := int(start.Sub(cursor).Hours()/24) / 7
			cursor = cursor.AddDate(0, 0, weeks*7)
			for cursor.Before(start) {
				cursor = cursor.AddDate(0, 0, 7)
			}
		}
		for ; cursor.Before(end); cursor = cursor.AddDate(0, 0, 7) {
			dates = append(dates, cursor)
		}
	case models.RecurrenceMonthly:
		for cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); cursor.Before(end); cursor = cursor.AddDate(0, 1, 0) {
			candidate := time.Date(cursor.Year(), cursor.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
			if candidate.Month() != cursor.Month() {
				continue
			}
			if !candidate.Before(first) && !candidate.Before(start) && candidate.Before(end) {
				dates = append(dates, candidate)
			}
		}
	case models.RecurrenceYearly:
		for year := start.Year(); year <= end.Year(); year++ {
			candidate := time.Date(year, first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
			if candidate.Month() != first.Month() {
				continue
			}
			if !candidate.Before(first) && !candidate.Before(start) && candidate.Before(end) {
				dates = append(dates, candidate)
			}
		}
	}
	return dates
}

func occurrenceKey(eventID string, day time.Time) string {
	return eventID + "@" + day.Format(DayLayout)
}

func monthBounds(year int, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, validationError("month must be 1-12")
	}
	if year < 1900 || year > 2200 {
		return time.Time{}, time.Time{}, validationError("year must be between 1900 and 2200")
	}
	start, end := MonthRange(year, time.Month(month))
	return start, end, nil
}

func normalizeEventTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", validationError("title is required")
	}
	if utf8.RuneCountInString(title) > maxEventTitleLength {
		return "", validationError("title must be at most %d characters", maxEventTitleLength)
	}
	return title, nil
}

func parseEventDate(raw string) (time.Time, error) {
	parsed, err := ParseDay(raw)
	if err != nil || parsed == nil {
		return time.Time{}, validationError("event_date must be YYYY-MM-DD")
	}
	return *parsed, nil
}

func normalizeEventTime(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", nil
	}
	if !eventTimePattern.MatchString(value) {
		return "", validationError("event_time must be HH:MM")
	}
	return value, nil
}

func normalizeEventType(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return models.EventTypeGeneral
	}
	return value
}

func normalizeRecurrence(isRecurring bool, raw string) (string, error) {
	pattern := strings.ToLower(strings.TrimSpace(raw))
	if !isRecurring {
		return models.RecurrenceNone, nil
	}
	switch pattern {
	case models.RecurrenceWeekly, models.RecurrenceMonthly, models.RecurrenceYearly:
		return pattern, nil
	default:
		return "", validationError("recurrence_pattern must be weekly, monthly or yearly")
	}
}
