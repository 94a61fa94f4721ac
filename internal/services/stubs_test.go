package services

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/ekklesia/internal/models"
	"gorm.io/gorm"
)

// stubMemberStore keeps members in memory and implements every member
// repository interface used by the services.
type stubMemberStore struct {
	members   map[uint]models.Member
	nextID    uint
	err       error
	writes    int
	setActive int
}

func newStubMemberStore(members ...models.Member) *stubMemberStore {
	store := &stubMemberStore{members: make(map[uint]models.Member), nextID: 1}
	for _, member := range members {
		if member.ID == 0 {
			member.ID = store.nextID
		}
		if member.ID >= store.nextID {
			store.nextID = member.ID + 1
		}
		member.SearchName = models.NormalizeSearchName(member.FullName)
		store.members[member.ID] = member
	}
	return store
}

func (store *stubMemberStore) sorted() []models.Member {
	result := make([]models.Member, 0, len(store.members))
	for _, member := range store.members {
		result = append(result, member)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FullName == result[j].FullName {
			return result[i].ID < result[j].ID
		}
		return result[i].FullName < result[j].FullName
	})
	return result
}

func (store *stubMemberStore) FindByID(_ context.Context, memberID uint) (models.Member, error) {
	if store.err != nil {
		return models.Member{}, store.err
	}
	member, ok := store.members[memberID]
	if !ok {
		return models.Member{}, gorm.ErrRecordNotFound
	}
	return member, nil
}

func (store *stubMemberStore) Create(_ context.Context, member *models.Member) error {
	store.writes++
	if store.err != nil {
		return store.err
	}
	member.ID = store.nextID
	store.nextID++
	member.SearchName = models.NormalizeSearchName(member.FullName)
	store.members[member.ID] = *member
	return nil
}

func (store *stubMemberStore) Update(_ context.Context, memberID uint, updates map[string]any, services *[]models.ServiceAssignment, activation *models.MemberActivation) error {
	store.writes++
	if store.err != nil {
		return store.err
	}
	member, ok := store.members[memberID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if fullName, ok := updates["full_name"].(string); ok {
		member.FullName = fullName
		member.SearchName = models.NormalizeSearchName(fullName)
	}
	if services != nil {
		member.Services = *services
	}
	if activation != nil {
		member.IsActive = activation.Active
		if activation.Active {
			member.DepartureDate = nil
		} else if member.DepartureDate == nil {
			departure := activation.At
			member.DepartureDate = &departure
		}
	}
	store.members[memberID] = member
	return nil
}

func (store *stubMemberStore) SetActive(_ context.Context, memberID uint, active bool, at time.Time) error {
	store.setActive++
	if store.err != nil {
		return store.err
	}
	member, ok := store.members[memberID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	member.IsActive = active
	if active {
		member.DepartureDate = nil
	} else if member.DepartureDate == nil {
		departure := at
		member.DepartureDate = &departure
	}
	store.members[memberID] = member
	return nil
}

func (store *stubMemberStore) UpdatePhotoURL(_ context.Context, memberID uint, photoURL string) error {
	store.writes++
	if store.err != nil {
		return store.err
	}
	member, ok := store.members[memberID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	member.PhotoURL = photoURL
	store.members[memberID] = member
	return nil
}

func (store *stubMemberStore) Search(_ context.Context, filter models.MemberFilter, offset int, limit int) ([]models.Member, int64, error) {
	if store.err != nil {
		return nil, 0, store.err
	}
	matched := make([]models.Member, 0)
	for _, member := range store.sorted() {
		if filter.ActiveOnly && !member.IsActive {
			continue
		}
		if filter.SearchName != "" && !strings.Contains(member.SearchName, filter.SearchName) {
			continue
		}
		if filter.Gender != "" && member.Gender != filter.Gender {
			continue
		}
		matched = append(matched, member)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.Member{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (store *stubMemberStore) ListForStatistics(context.Context) ([]models.Member, error) {
	if store.err != nil {
		return nil, store.err
	}
	return store.sorted(), nil
}

func (store *stubMemberStore) ListActiveWithBirthDate(context.Context) ([]models.Member, error) {
	if store.err != nil {
		return nil, store.err
	}
	result := make([]models.Member, 0)
	for _, member := range store.sorted() {
		if member.IsActive && member.BirthDate != nil {
			result = append(result, member)
		}
	}
	return result, nil
}

func (store *stubMemberStore) CountActive(context.Context) (int64, error) {
	if store.err != nil {
		return 0, store.err
	}
	var count int64
	for _, member := range store.members {
		if member.IsActive {
			count++
		}
	}
	return count, nil
}

type stubServiceTypes struct {
	types []models.ServiceType
	err   error
}

func (stub *stubServiceTypes) List(context.Context) ([]models.ServiceType, error) {
	return stub.types, stub.err
}

func (stub *stubServiceTypes) CountByIDs(_ context.Context, ids []uint) (int64, error) {
	if stub.err != nil {
		return 0, stub.err
	}
	var count int64
	for _, id := range ids {
		for _, serviceType := range stub.types {
			if serviceType.ID == id {
				count++
				break
			}
		}
	}
	return count, nil
}

type stubDistricts struct {
	districts []models.District
	err       error
}

func (stub *stubDistricts) List(context.Context) ([]models.District, error) {
	return stub.districts, stub.err
}

func (stub *stubDistricts) Count(context.Context) (int64, error) {
	return int64(len(stub.districts)), stub.err
}

func (stub *stubDistricts) Exists(_ context.Context, districtID uint) (bool, error) {
	if stub.err != nil {
		return false, stub.err
	}
	for _, district := range stub.districts {
		if district.ID == districtID {
			return true, nil
		}
	}
	return false, nil
}

type stubLeadership struct {
	presbyters []models.Presbyter
	deacons    []models.Deacon
	err        error
}

func (stub *stubLeadership) ListPresbyters(context.Context) ([]models.Presbyter, error) {
	return stub.presbyters, stub.err
}

func (stub *stubLeadership) ListDeacons(context.Context) ([]models.Deacon, error) {
	return stub.deacons, stub.err
}

type stubUserStore struct {
	users     map[string]models.User
	err       error
	createErr error
	calls     int
}

func newStubUserStore(users ...models.User) *stubUserStore {
	store := &stubUserStore{users: make(map[string]models.User)}
	for _, user := range users {
		store.users[user.ID] = user
	}
	return store
}

func (store *stubUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	if store.err != nil {
		return false, store.err
	}
	for _, user := range store.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (store *stubUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	if store.err != nil {
		return models.User{}, store.err
	}
	for _, user := range store.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (store *stubUserStore) FindByID(_ context.Context, userID string) (models.User, error) {
	if store.err != nil {
		return models.User{}, store.err
	}
	user, ok := store.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (store *stubUserStore) List(context.Context) ([]models.User, error) {
	if store.err != nil {
		return nil, store.err
	}
	result := make([]models.User, 0, len(store.users))
	for _, user := range store.users {
		result = append(result, user)
	}
	return result, nil
}

func (store *stubUserStore) CreateRegistered(_ context.Context, user *models.User, assignRole func(existingUsers int64) (models.Role, error)) error {
	if store.err != nil {
		return store.err
	}
	role, err := assignRole(int64(len(store.users)))
	if err != nil {
		return err
	}
	store.calls++
	if store.createErr != nil {
		return store.createErr
	}
	user.Role = role
	store.users[user.ID] = *user
	return nil
}

func (store *stubUserStore) UpdateRole(_ context.Context, userID string, role models.Role) error {
	store.calls++
	if store.err != nil {
		return store.err
	}
	user, ok := store.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Role = role
	store.users[userID] = user
	return nil
}

func (store *stubUserStore) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	store.calls++
	if store.err != nil {
		return store.err
	}
	user, ok := store.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = passwordHash
	store.users[userID] = user
	return nil
}

func (store *stubUserStore) Delete(_ context.Context, userID string) error {
	store.calls++
	if store.err != nil {
		return store.err
	}
	if _, ok := store.users[userID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(store.users, userID)
	return nil
}

type stubEventStore struct {
	events map[string]models.Event
	err    error
	writes int
}

func newStubEventStore(events ...models.Event) *stubEventStore {
	store := &stubEventStore{events: make(map[string]models.Event)}
	for _, event := range events {
		store.events[event.ID] = event
	}
	return store
}

func (store *stubEventStore) sorted() []models.Event {
	result := make([]models.Event, 0, len(store.events))
	for _, event := range store.events {
		result = append(result, event)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EventDate.Equal(result[j].EventDate) {
			return result[i].ID < result[j].ID
		}
		return result[i].EventDate.Before(result[j].EventDate)
	})
	return result
}

func (store *stubEventStore) List(context.Context) ([]models.Event, error) {
	if store.err != nil {
		return nil, store.err
	}
	return store.sorted(), nil
}

func (store *stubEventStore) ListBetween(_ context.Context, from time.Time, to time.Time) ([]models.Event, error) {
	if store.err != nil {
		return nil, store.err
	}
	result := make([]models.Event, 0)
	for _, event := range store.sorted() {
		if !event.EventDate.Before(from) && event.EventDate.Before(to) {
			result = append(result, event)
		}
	}
	return result, nil
}

func (store *stubEventStore) ListRecurringBefore(_ context.Context, end time.Time) ([]models.Event, error) {
	if store.err != nil {
		return nil, store.err
	}
	result := make([]models.Event, 0)
	for _, event := range store.sorted() {
		if event.IsRecurring && event.RecurrencePattern != "" && event.EventDate.Before(end) {
			result = append(result, event)
		}
	}
	return result, nil
}

func (store *stubEventStore) FindByID(_ context.Context, eventID string) (models.Event, error) {
	if store.err != nil {
		return models.Event{}, store.err
	}
	event, ok := store.events[eventID]
	if !ok {
		return models.Event{}, gorm.ErrRecordNotFound
	}
	return event, nil
}

func (store *stubEventStore) Create(_ context.Context, event *models.Event) error {
	store.writes++
	if store.err != nil {
		return store.err
	}
	store.events[event.ID] = *event
	return nil
}

func (store *stubEventStore) Save(_ context.Context, event *models.Event) error {
	store.writes++
	if store.err != nil {
		return store.err
	}
	store.events[event.ID] = *event
	return nil
}

func (store *stubEventStore) Delete(_ context.Context, eventID string) error {
	store.writes++
	if store.err != nil {
		return store.err
	}
	if _, ok := store.events[eventID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(store.events, eventID)
	return nil
}

func dayPointer(t testing.TB, raw string) *time.Time {
	t.Helper()
	parsed, err := ParseDay(raw)
	if err != nil || parsed == nil {
		t.Fatalf("invalid test day %q: %v", raw, err)
	}
	return parsed
}

func mustDay(t testing.TB, raw string) time.Time {
	t.Helper()
	return *dayPointer(t, raw)
}
