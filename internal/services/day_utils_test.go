package services

import (
	"testing"
	"time"
)

func TestDateAtLocationUsesLocalCalendarDay(t *testing.T) {
	location, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	raw := time.Date(2026, 2, 1, 23, 35, 10, 0, time.UTC)
	start := DateAtLocation(raw, location)

	if start.Day() != 2 {
		t.Fatalf("expected local day 2, got %s", start.Format(time.RFC3339))
	}
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Fatalf("expected midnight start, got %s", start.Format(time.RFC3339))
	}
	if got := CalendarDay(start); got.Format(DayLayout) != "2026-02-02" || got.Location() != time.UTC {
		t.Fatalf("expected 2026-02-02 UTC calendar day, got %s", got.Format(time.RFC3339))
	}
	if got := DateAtLocation(raw, nil); got.Day() != 1 {
		t.Fatalf("expected nil location to fall back to UTC, got %s", got.Format(time.RFC3339))
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantNil bool
		wantErr bool
	}{
		{name: "empty", raw: "  ", wantNil: true},
		{name: "plain date", raw: "1985-04-12", want: "1985-04-12"},
		{name: "iso timestamp", raw: "1985-04-12T00:00:00", want: "1985-04-12"},
		{name: "space timestamp", raw: "1985-04-12 13:45:00", want: "1985-04-12"},
		{name: "day first", raw: "12.04.1985", wantErr: true},
		{name: "impossible date", raw: "1985-02-30", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			parsed, err := ParseDay(testCase.raw)
			if testCase.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", testCase.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", testCase.raw, err)
			}
			if testCase.wantNil {
				if parsed != nil {
					t.Fatalf("expected nil for %q, got %v", testCase.raw, parsed)
				}
				return
			}
			if got := FormatDay(parsed); got != testCase.want {
				t.Fatalf("expected %s, got %s", testCase.want, got)
			}
			if parsed.Location() != time.UTC || parsed.Hour() != 0 {
				t.Fatalf("expected UTC midnight, got %s", parsed.Format(time.RFC3339))
			}
		})
	}
}

func TestAgeOnCountsCompletedYears(t *testing.T) {
	birth := time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		day  time.Time
		want int
	}{
		{day: time.Date(2018, time.June, 14, 0, 0, 0, 0, time.UTC), want: 17},
		{day: time.Date(2018, time.June, 15, 0, 0, 0, 0, time.UTC), want: 18},
		{day: time.Date(2018, time.December, 1, 0, 0, 0, 0, time.UTC), want: 18},
	}
	for _, testCase := range tests {
		if got := AgeOn(birth, testCase.day); got != testCase.want {
			t.Fatalf("AgeOn(%s) = %d, want %d", testCase.day.Format(DayLayout), got, testCase.want)
		}
	}
}

func TestBirthdayInYearHandlesLeapDay(t *testing.T) {
	leapBirth := time.Date(2004, time.February, 29, 0, 0, 0, 0, time.UTC)

	if got := BirthdayInYear(leapBirth, 2025).Format(DayLayout); got != "2025-02-28" {
		t.Fatalf("expected 2025-02-28, got %s", got)
	}
	if got := BirthdayInYear(leapBirth, 2028).Format(DayLayout); got != "2028-02-29" {
		t.Fatalf("expected 2028-02-29, got %s", got)
	}
}
