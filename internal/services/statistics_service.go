package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/terraincognita07/ekklesia/internal/models"
)

type StatisticsMemberReader interface {
	ListForStatistics(ctx context.Context) ([]models.Member, error)
}

// StatisticsCache stores computed snapshots. Implementations must treat a
// missing entry as (zero, false, nil).
type StatisticsCache interface {
	Load(ctx context.Context) (StatisticsSnapshot, bool, error)
	Store(ctx context.Context, snapshot StatisticsSnapshot) error
	Invalidate(ctx context.Context) error
}

type MemberCounts struct {
	TotalMembers    int `json:"total_members"`
	ActiveMembers   int `json:"active_members"`
	InactiveMembers int `json:"inactive_members"`
	MaleCount       int `json:"male_count"`
	FemaleCount     int `json:"female_count"`
	BaptizedCount   int `json:"baptized_count"`
	WithHolySpirit  int `json:"with_holy_spirit"`
}

type ServiceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type StatisticsSnapshot struct {
	Counts       MemberCounts   `json:"counts"`
	AgeGroups    map[string]int `json:"age_groups"`
	MaritalStats map[string]int `json:"marital_stats"`
	SocialStats  map[string]int `json:"social_stats"`
	ServiceStats []ServiceCount `json:"service_stats"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

type StatisticsService struct {
	members  StatisticsMemberReader
	cache    StatisticsCache
	location *time.Location
	now      func() time.Time
}

func NewStatisticsService(members StatisticsMemberReader, cache StatisticsCache, location *time.Location) *StatisticsService {
	if location == nil {
		location = time.UTC
	}
	return &StatisticsService{
		members:  members,
		cache:    cache,
		location: location,
		now:      time.Now,
	}
}

func (service *StatisticsService) Counts(ctx context.Context) (MemberCounts, error) {
	members, err := service.load(ctx)
	if err != nil {
		return MemberCounts{}, err
	}
	return CountMembers(members), nil
}

func (service *StatisticsService) AgeGroups(ctx context.Context) (map[string]int, error) {
	members, err := service.load(ctx)
	if err != nil {
		return nil, err
	}
	return BuildAgeGroups(members, service.today()), nil
}

func (service *StatisticsService) MaritalStats(ctx context.Context) (map[string]int, error) {
	members, err := service.load(ctx)
	if err != nil {
		return nil, err
	}
	return BuildMaritalStats(members), nil
}

func (service *StatisticsService) SocialStats(ctx context.Context) (map[string]int, error) {
	members, err := service.load(ctx)
	if err != nil {
		return nil, err
	}
	return BuildSocialStats(members), nil
}

func (service *StatisticsService) ServiceStats(ctx context.Context) ([]ServiceCount, error) {
	members, err := service.load(ctx)
	if err != nil {
		return nil, err
	}
	return BuildServiceStats(members), nil
}

// Build returns the full snapshot, served from the cache when one is
// configured and holds an entry. Cache failures fall through to the store.
func (service *StatisticsService) Build(ctx context.Context) (StatisticsSnapshot, error) {
	if service.cache != nil {
		snapshot, found, err := service.cache.Load(ctx)
		if err != nil {
			slog.WarnContext(ctx, "statistics cache load failed", "error", err)
		} else if found {
			return snapshot, nil
		}
	}

	members, err := service.load(ctx)
	if err != nil {
		return StatisticsSnapshot{}, err
	}

	snapshot := StatisticsSnapshot{
		Counts:       CountMembers(members),
		AgeGroups:    BuildAgeGroups(members, service.today()),
		MaritalStats: BuildMaritalStats(members),
		SocialStats:  BuildSocialStats(members),
		ServiceStats: BuildServiceStats(members),
		GeneratedAt:  service.now().UTC(),
	}

	if service.cache != nil {
		if err := service.cache.Store(ctx, snapshot); err != nil {
			slog.WarnContext(ctx, "statistics cache store failed", "error", err)
		}
	}
	return snapshot, nil
}

// Invalidate drops the cached snapshot after a member write.
func (service *StatisticsService) Invalidate(ctx context.Context) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "statistics cache invalidate failed", "error", err)
	}
}

func (service *StatisticsService) load(ctx context.Context) ([]models.Member, error) {
	members, err := service.members.ListForStatistics(ctx)
	if err != nil {
		return nil, storeError("load members for statistics", err)
	}
	return members, nil
}

func (service *StatisticsService) today() time.Time {
	return CalendarDay(DateAtLocation(service.now(), service.location))
}

func CountMembers(members []models.Member) MemberCounts {
	counts := MemberCounts{TotalMembers: len(members)}
	for _, member := range members {
		if !member.IsActive {
			counts.InactiveMembers++
			continue
		}
		counts.ActiveMembers++
		switch member.Gender {
		case models.GenderMale:
			counts.MaleCount++
		case models.GenderFemale:
			counts.FemaleCount++
		}
		if member.IsBaptized() {
			counts.BaptizedCount++
		}
		if member.HolySpirit {
			counts.WithHolySpirit++
		}
	}
	return counts
}

func BuildMaritalStats(members []models.Member) map[string]int {
	stats := make(map[string]int)
	for _, member := range members {
		if member.IsActive {
			stats[statusKey(string(member.MaritalStatus))]++
		}
	}
	return stats
}

func BuildSocialStats(members []models.Member) map[string]int {
	stats := make(map[string]int)
	for _, member := range members {
		if member.IsActive {
			stats[statusKey(string(member.SocialStatus))]++
		}
	}
	return stats
}

// BuildServiceStats counts active assignments per service type, whether or
// not the member is still active. Sorted by count desc, then name asc.
func BuildServiceStats(members []models.Member) []ServiceCount {
	counts := make(map[string]int)
	for _, member := range members {
		for _, assignment := range member.Services {
			if !assignment.IsActive {
				continue
			}
			name := strings.TrimSpace(assignment.ServiceType.Name)
			if name == "" {
				continue
			}
			counts[name]++
		}
	}

	result := make([]ServiceCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, ServiceCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count == result[j].Count {
			return result[i].Name < result[j].Name
		}
		return result[i].Count > result[j].Count
	})
	return result
}

func statusKey(value string) string {
	key := strings.TrimSpace(value)
	if key == "" {
		return models.Unspecified
	}
	return key
}
