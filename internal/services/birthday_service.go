package services

import (
	"context"
	"sort"
	"time"

	"github.com/terraincognita07/ekklesia/internal/models"
)

const (
	DefaultUpcomingDays = 7
	MaxUpcomingDays     = 30
)

type BirthdayMemberReader interface {
	ListActiveWithBirthDate(ctx context.Context) ([]models.Member, error)
}

type Birthday struct {
	MemberID    uint
	FullName    string
	BirthDate   time.Time
	Day         int
	Month       int
	Age         int
	DaysUntil   int
	Date        time.Time
	PhoneMobile string
	Gender      models.Gender
	PhotoURL    string
}

type CalendarEntry struct {
	Events    []models.Event
	Birthdays []Birthday
}

type CalendarMonth struct {
	Year  int
	Month int
	Days  map[int]*CalendarEntry
}

type BirthdayService struct {
	members BirthdayMemberReader
	events  *EventService
}

func NewBirthdayService(members BirthdayMemberReader, events *EventService) *BirthdayService {
	return &BirthdayService{members: members, events: events}
}

// ForMonth lists active members' birthdays in month (1-12), or across the
// whole year when month is 0, ordered by month, day and name. Age is the
// member's age on today.
func (service *BirthdayService) ForMonth(ctx context.Context, month int, today time.Time) ([]Birthday, error) {
	if month < 0 || month > 12 {
		return nil, validationError("month must be 1-12")
	}
	members, err := service.members.ListActiveWithBirthDate(ctx)
	if err != nil {
		return nil, storeError("list birthdays", err)
	}

	today = CalendarDay(today)
	birthdays := make([]Birthday, 0)
	for _, member := range members {
		if member.BirthDate == nil {
			continue
		}
		birth := CalendarDay(*member.BirthDate)
		if month != 0 && int(birth.Month()) != month {
			continue
		}
		entry := newBirthday(member, birth, BirthdayInYear(birth, today.Year()))
		entry.Age = AgeOn(birth, today)
		birthdays = append(birthdays, entry)
	}

	sort.SliceStable(birthdays, func(left, right int) bool {
		if birthdays[left].Month != birthdays[right].Month {
			return birthdays[left].Month < birthdays[right].Month
		}
		if birthdays[left].Day != birthdays[right].Day {
			return birthdays[left].Day < birthdays[right].Day
		}
		return birthdays[left].FullName < birthdays[right].FullName
	})
	return birthdays, nil
}

// Upcoming lists birthdays from today through today+days inclusive. Age is
// the age the member turns on that birthday.
func (service *BirthdayService) Upcoming(ctx context.Context, days int, today time.Time) ([]Birthday, error) {
	if days == 0 {
		days = DefaultUpcomingDays
	}
	if days < 1 || days > MaxUpcomingDays {
		return nil, validationError("days must be between 1 and %d", MaxUpcomingDays)
	}
	members, err := service.members.ListActiveWithBirthDate(ctx)
	if err != nil {
		return nil, storeError("list birthdays", err)
	}

	today = CalendarDay(today)
	upcoming := make([]Birthday, 0)
	for _, member := range members {
		if member.BirthDate == nil {
			continue
		}
		birth := CalendarDay(*member.BirthDate)
		next := BirthdayInYear(birth, today.Year())
		if next.Before(today) {
			next = BirthdayInYear(birth, today.Year()+1)
		}
		daysUntil := int(next.Sub(today).Hours() / 24)
		if daysUntil > days {
			continue
		}
		entry := newBirthday(member, birth, next)
		entry.DaysUntil = daysUntil
		entry.Age = next.Year() - birth.Year()
		upcoming = append(upcoming, entry)
	}

	sort.SliceStable(upcoming, func(left, right int) bool {
		if upcoming[left].DaysUntil != upcoming[right].DaysUntil {
			return upcoming[left].DaysUntil < upcoming[right].DaysUntil
		}
		return upcoming[left].FullName < upcoming[right].FullName
	})
	return upcoming, nil
}

// Calendar groups a month's event occurrences and birthdays by day of month.
// Days with neither are omitted.
func (service *BirthdayService) Calendar(ctx context.Context, year int, month int) (CalendarMonth, error) {
	start, end, err := monthBounds(year, month)
	if err != nil {
		return CalendarMonth{}, err
	}

	calendar := CalendarMonth{Year: year, Month: month, Days: make(map[int]*CalendarEntry)}
	entryFor := func(day int) *CalendarEntry {
		entry, ok := calendar.Days[day]
		if !ok {
			entry = &CalendarEntry{Events: make([]models.Event, 0), Birthdays: make([]Birthday, 0)}
			calendar.Days[day] = entry
		}
		return entry
	}

	events, err := service.events.Occurrences(ctx, start, end)
	if err != nil {
		return CalendarMonth{}, err
	}
	sort.SliceStable(events, func(left, right int) bool {
		if !events[left].EventDate.Equal(events[right].EventDate) {
			return events[left].EventDate.Before(events[right].EventDate)
		}
		return events[left].EventTime < events[right].EventTime
	})
	for _, event := range events {
		entry := entryFor(event.EventDate.Day())
		entry.Events = append(entry.Events, event)
	}

	members, err := service.members.ListActiveWithBirthDate(ctx)
	if err != nil {
		return CalendarMonth{}, storeError("list birthdays", err)
	}
	for _, member := range members {
		if member.BirthDate == nil {
			continue
		}
		birth := CalendarDay(*member.BirthDate)
		date := BirthdayInYear(birth, year)
		if int(date.Month()) != month {
			continue
		}
		birthday := newBirthday(member, birth, date)
		birthday.Age = year - birth.Year()
		entry := entryFor(date.Day())
		entry.Birthdays = append(entry.Birthdays, birthday)
	}
	for _, entry := range calendar.Days {
		sort.SliceStable(entry.Birthdays, func(left, right int) bool {
			return entry.Birthdays[left].FullName < entry.Birthdays[right].FullName
		})
	}
	return calendar, nil
}

func newBirthday(member models.Member, birth time.Time, date time.Time) Birthday {
	return Birthday{
		MemberID:    member.ID,
		FullName:    member.FullName,
		BirthDate:   birth,
		Day:         date.Day(),
		Month:       int(date.Month()),
		Date:        date,
		PhoneMobile: member.PhoneMobile,
		Gender:      member.Gender,
		PhotoURL:    member.PhotoURL,
	}
}
