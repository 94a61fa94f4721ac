package services

import (
	"time"

	"github.com/terraincognita07/ekklesia/internal/models"
)

type ageBucket struct {
	Label  string
	MaxAge int
}

// ageBuckets are checked in order; the last one has no upper bound.
var ageBuckets = []ageBucket{
	{Label: "0-18", MaxAge: 18},
	{Label: "19-30", MaxAge: 30},
	{Label: "31-45", MaxAge: 45},
	{Label: "46-60", MaxAge: 60},
	{Label: "61+", MaxAge: -1},
}

func AgeGroupLabels() []string {
	labels := make([]string, 0, len(ageBuckets))
	for _, bucket := range ageBuckets {
		labels = append(labels, bucket.Label)
	}
	return labels
}

func AgeGroupLabel(age int) string {
	for _, bucket := range ageBuckets {
		if bucket.MaxAge < 0 || age <= bucket.MaxAge {
			return bucket.Label
		}
	}
	return ageBuckets[len(ageBuckets)-1].Label
}

// BuildAgeGroups buckets active members with a birth date by their age on
// today. Every label is present, with zero counts included.
func BuildAgeGroups(members []models.Member, today time.Time) map[string]int {
	groups := make(map[string]int, len(ageBuckets))
	for _, label := range AgeGroupLabels() {
		groups[label] = 0
	}

	day := CalendarDay(today)
	for _, member := range members {
		if !member.IsActive || member.BirthDate == nil || member.BirthDate.IsZero() {
			continue
		}
		age := AgeOn(CalendarDay(*member.BirthDate), day)
		if age < 0 {
			age = 0
		}
		groups[AgeGroupLabel(age)]++
	}
	return groups
}
