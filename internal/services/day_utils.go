package services

import (
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// CalendarDay drops the clock and zone of value, keeping the calendar date it
// shows, as UTC midnight.
func CalendarDay(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses YYYY-MM-DD into UTC midnight. Timestamps carrying a time
// part are accepted and truncated to their date. Empty input yields nil.
func ParseDay(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	if len(value) > len(DayLayout) && (value[len(DayLayout)] == 'T' || value[len(DayLayout)] == ' ') {
		value = value[:len(DayLayout)]
	}
	parsed, err := time.ParseInLocation(DayLayout, value, time.UTC)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func FormatDay(value *time.Time) string {
	if value == nil || value.IsZero() {
		return ""
	}
	return value.Format(DayLayout)
}

// MonthRange returns [first day of month, first day of next month) in UTC.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// AgeOn returns completed years between birth and day.
func AgeOn(birth time.Time, day time.Time) int {
	age := day.Year() - birth.Year()
	if day.Month() < birth.Month() || (day.Month() == birth.Month() && day.Day() < birth.Day()) {
		age--
	}
	return age
}

// BirthdayInYear places a birth date in year. February 29 falls back to
// February 28 outside leap years.
func BirthdayInYear(birth time.Time, year int) time.Time {
	month, day := birth.Month(), birth.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
