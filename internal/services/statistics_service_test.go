package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/ekklesia/internal/models"
)

type stubStatisticsCache struct {
	snapshot    StatisticsSnapshot
	found       bool
	loadErr     error
	storeErr    error
	stored      int
	invalidated int
}

func (cache *stubStatisticsCache) Load(context.Context) (StatisticsSnapshot, bool, error) {
	return cache.snapshot, cache.found, cache.loadErr
}

func (cache *stubStatisticsCache) Store(_ context.Context, snapshot StatisticsSnapshot) error {
	cache.stored++
	if cache.storeErr != nil {
		return cache.storeErr
	}
	cache.snapshot = snapshot
	cache.found = true
	return nil
}

func (cache *stubStatisticsCache) Invalidate(context.Context) error {
	cache.invalidated++
	cache.found = false
	return nil
}

func fixedStatisticsService(t *testing.T, store *stubMemberStore, cache StatisticsCache) *StatisticsService {
	t.Helper()
	service := NewStatisticsService(store, cache, time.UTC)
	service.now = func() time.Time { return time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC) }
	return service
}

func TestCountsFiveActiveTwoInactive(t *testing.T) {
	baptized := time.Date(2010, time.May, 1, 0, 0, 0, 0, time.UTC)
	members := []models.Member{
		{FullName: "A", Gender: models.GenderMale, IsActive: true, BaptismDate: &baptized, HolySpirit: true},
		{FullName: "B", Gender: models.GenderMale, IsActive: true, BaptismDate: &baptized},
		{FullName: "C", Gender: models.GenderFemale, IsActive: true, BaptismDate: &baptized},
		{FullName: "D", Gender: models.GenderFemale, IsActive: true},
		{FullName: "E", Gender: models.GenderFemale, IsActive: true},
		{FullName: "F", Gender: models.GenderMale, IsActive: false, BaptismDate: &baptized},
		{FullName: "G", Gender: models.GenderFemale, IsActive: false},
	}
	service := fixedStatisticsService(t, newStubMemberStore(members...), nil)

	counts, err := service.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts() unexpected error: %v", err)
	}
	want := MemberCounts{
		TotalMembers:    7,
		ActiveMembers:   5,
		InactiveMembers: 2,
		MaleCount:       2,
		FemaleCount:     3,
		BaptizedCount:   3,
		WithHolySpirit:  1,
	}
	if counts != want {
		t.Fatalf("Counts() = %#v, want %#v", counts, want)
	}
}

func TestCountsExcludesMemberWithoutBaptism(t *testing.T) {
	empty := time.Time{}
	counts := CountMembers([]models.Member{
		{FullName: "No date", IsActive: true},
		{FullName: "Zero date", IsActive: true, BaptismDate: &empty},
	})
	if counts.BaptizedCount != 0 {
		t.Fatalf("expected no baptized members, got %d", counts.BaptizedCount)
	}
}

func TestAgeGroupsSumToActiveMembersWithBirthDate(t *testing.T) {
	store := newStubMemberStore(
		models.Member{FullName: "child", IsActive: true, BirthDate: dayPointer(t, "2015-01-01")},
		models.Member{FullName: "eighteen", IsActive: true, BirthDate: dayPointer(t, "2008-06-15")},
		models.Member{FullName: "nearly nineteen", IsActive: true, BirthDate: dayPointer(t, "2007-06-16")},
		models.Member{FullName: "thirty", IsActive: true, BirthDate: dayPointer(t, "1996-01-01")},
		models.Member{FullName: "fifty", IsActive: true, BirthDate: dayPointer(t, "1976-03-03")},
		models.Member{FullName: "elder", IsActive: true, BirthDate: dayPointer(t, "1940-12-31")},
		models.Member{FullName: "unknown", IsActive: true},
		models.Member{FullName: "departed", IsActive: false, BirthDate: dayPointer(t, "1990-01-01")},
	)
	service := fixedStatisticsService(t, store, nil)

	groups, err := service.AgeGroups(context.Background())
	if err != nil {
		t.Fatalf("AgeGroups() unexpected error: %v", err)
	}

	want := map[string]int{"0-18": 3, "19-30": 1, "31-45": 0, "46-60": 1, "61+": 1}
	sum := 0
	for label, count := range groups {
		sum += count
		if want[label] != count {
			t.Fatalf("group %s = %d, want %d (all: %#v)", label, count, want[label], groups)
		}
	}
	if len(groups) != len(want) {
		t.Fatalf("expected every bucket present, got %#v", groups)
	}
	if sum != 6 {
		t.Fatalf("expected buckets to sum to 6, got %d", sum)
	}
}

func TestServiceStatsOrderByCountThenName(t *testing.T) {
	assign := func(name string, active bool) models.ServiceAssignment {
		return models.ServiceAssignment{IsActive: active, ServiceType: models.ServiceType{Name: name}}
	}
	members := []models.Member{
		{FullName: "1", IsActive: true, Services: []models.ServiceAssignment{assign("C", true), assign("B", true), assign("A", true)}},
		{FullName: "2", IsActive: true, Services: []models.ServiceAssignment{assign("C", true), assign("B", true), assign("A", true)}},
		{FullName: "3", IsActive: true, Services: []models.ServiceAssignment{assign("C", true), assign("B", true), assign("A", true)}},
		{FullName: "4", IsActive: true, Services: []models.ServiceAssignment{assign("B", true), assign("A", false)}},
		{FullName: "5", IsActive: false, Services: []models.ServiceAssignment{assign("B", true), assign("C", false)}},
	}

	stats := BuildServiceStats(members)
	want := []ServiceCount{{Name: "B", Count: 5}, {Name: "A", Count: 3}, {Name: "C", Count: 3}}
	if len(stats) != len(want) {
		t.Fatalf("BuildServiceStats() = %#v, want %#v", stats, want)
	}
	for index := range want {
		if stats[index] != want[index] {
			t.Fatalf("BuildServiceStats()[%d] = %#v, want %#v", index, stats[index], want[index])
		}
	}
}

func TestMaritalAndSocialStatsGroupUnspecified(t *testing.T) {
	members := []models.Member{
		{IsActive: true, MaritalStatus: models.MaritalMarried, SocialStatus: models.SocialRetired},
		{IsActive: true, MaritalStatus: "", SocialStatus: ""},
		{IsActive: true, MaritalStatus: models.MaritalUnspecified, SocialStatus: models.SocialStudent},
		{IsActive: false, MaritalStatus: models.MaritalMarried, SocialStatus: models.SocialRetired},
	}

	marital := BuildMaritalStats(members)
	if marital["married"] != 1 || marital["unspecified"] != 2 {
		t.Fatalf("unexpected marital stats: %#v", marital)
	}
	social := BuildSocialStats(members)
	if social["retired"] != 1 || social["student"] != 1 || social["unspecified"] != 1 {
		t.Fatalf("unexpected social stats: %#v", social)
	}
}

func TestStatisticsStoreFailureIsNotZeroed(t *testing.T) {
	store := newStubMemberStore()
	store.err = errors.New("connection refused")
	service := fixedStatisticsService(t, store, nil)

	if _, err := service.Counts(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Counts() expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := service.Build(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Build() expected ErrStoreUnavailable, got %v", err)
	}
}

func TestStatisticsBuildUsesCache(t *testing.T) {
	store := newStubMemberStore(models.Member{FullName: "A", IsActive: true})
	cache := &stubStatisticsCache{}
	service := fixedStatisticsService(t, store, cache)

	first, err := service.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if cache.stored != 1 {
		t.Fatalf("expected snapshot stored once, got %d", cache.stored)
	}

	store.err = errors.New("store must not be read on cache hit")
	second, err := service.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() from cache unexpected error: %v", err)
	}
	if second.Counts != first.Counts {
		t.Fatalf("cached counts = %#v, want %#v", second.Counts, first.Counts)
	}

	service.Invalidate(context.Background())
	if cache.invalidated != 1 || cache.found {
		t.Fatalf("expected cache invalidated, got %#v", cache)
	}
	if _, err := service.Build(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected store read after invalidation, got %v", err)
	}
}

func TestStatisticsBuildBypassesFailingCache(t *testing.T) {
	store := newStubMemberStore(
		models.Member{FullName: "A", IsActive: true},
		models.Member{FullName: "B", IsActive: true},
	)
	cache := &stubStatisticsCache{loadErr: errors.New("redis down"), storeErr: errors.New("redis down")}
	service := fixedStatisticsService(t, store, cache)

	snapshot, err := service.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if snapshot.Counts.ActiveMembers != 2 {
		t.Fatalf("expected 2 active members, got %d", snapshot.Counts.ActiveMembers)
	}
	if !snapshot.GeneratedAt.Equal(time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected GeneratedAt %s", snapshot.GeneratedAt)
	}
}
