package api

import (
	"strconv"
	"time"

	"github.com/terraincognita07/ekklesia/internal/models"
	"github.com/terraincognita07/ekklesia/internal/services"
)

type serviceAssignmentView struct {
	ID            uint   `json:"id"`
	ServiceTypeID uint   `json:"service_type_id"`
	ServiceName   string `json:"service_name"`
	IsActive      bool   `json:"is_active"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
}

type memberView struct {
	ID             uint                    `json:"id"`
	FullName       string                  `json:"full_name"`
	Gender         string                  `json:"gender"`
	PhoneMobile    string                  `json:"phone_mobile"`
	PhoneHome      string                  `json:"phone_home"`
	Email          string                  `json:"email"`
	BirthDate      string                  `json:"birth_date,omitempty"`
	Age            *int                    `json:"age"`
	RepentanceDate string                  `json:"repentance_date,omitempty"`
	BaptismDate    string                  `json:"baptism_date,omitempty"`
	JoinDate       string                  `json:"join_date,omitempty"`
	DepartureDate  string                  `json:"departure_date,omitempty"`
	MaritalStatus  string                  `json:"marital_status"`
	SocialStatus   string                  `json:"social_status"`
	Education      string                  `json:"education"`
	Profession     string                  `json:"profession"`
	Notes          string                  `json:"notes"`
	HolySpirit     bool                    `json:"holy_spirit"`
	IsActive       bool                    `json:"is_active"`
	DistrictID     *uint                   `json:"district_id"`
	PhotoURL       string                  `json:"photo_url"`
	Services       []serviceAssignmentView `json:"services"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type memberPageView struct {
	Items      []memberView `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	MemberID  *uint     `json:"member_id"`
	CreatedAt time.Time `json:"created_at"`
}

type authView struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        userView  `json:"user"`
}

type districtView struct {
	ID         uint   `json:"id"`
	Number     int    `json:"number"`
	Area       string `json:"area"`
	LeaderName string `json:"leader_name"`
}

type leaderView struct {
	ID          uint   `json:"id"`
	MemberID    uint   `json:"member_id"`
	FullName    string `json:"full_name"`
	PhoneMobile string `json:"phone_mobile"`
	PhotoURL    string `json:"photo_url"`
	PresbyterID *uint  `json:"presbyter_id,omitempty"`
}

type leadershipView struct {
	Presbyters []leaderView `json:"presbyters"`
	Deacons    []leaderView `json:"deacons"`
}

type serviceTypeView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type churchView struct {
	Name string `json:"name"`
	City string `json:"city"`
}

type publicInfoView struct {
	ChurchName    string `json:"church_name"`
	City          string `json:"city"`
	ActiveMembers int64  `json:"active_members"`
	Districts     int64  `json:"districts"`
}

type eventView struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	EventDate         string    `json:"event_date"`
	EventTime         string    `json:"event_time"`
	EventType         string    `json:"event_type"`
	Location          string    `json:"location"`
	IsRecurring       bool      `json:"is_recurring"`
	RecurrencePattern string    `json:"recurrence_pattern"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
}

type birthdayView struct {
	MemberID    uint   `json:"member_id"`
	FullName    string `json:"full_name"`
	BirthDate   string `json:"birth_date"`
	Date        string `json:"date"`
	Day         int    `json:"day"`
	Month       int    `json:"month"`
	Age         int    `json:"age"`
	DaysUntil   int    `json:"days_until"`
	PhoneMobile string `json:"phone_mobile"`
	Gender      string `json:"gender"`
	PhotoURL    string `json:"photo_url"`
}

type calendarDayView struct {
	Events    []eventView    `json:"events"`
	Birthdays []birthdayView `json:"birthdays"`
}

type calendarView struct {
	Year  int                        `json:"year"`
	Month int                        `json:"month"`
	Days  map[string]calendarDayView `json:"days"`
}

func newMemberView(member models.Member, today time.Time) memberView {
	view := memberView{
		ID:             member.ID,
		FullName:       member.FullName,
		Gender:         string(member.Gender),
		PhoneMobile:    member.PhoneMobile,
		PhoneHome:      member.PhoneHome,
		Email:          member.Email,
		BirthDate:      services.FormatDay(member.BirthDate),
		RepentanceDate: services.FormatDay(member.RepentanceDate),
		BaptismDate:    services.FormatDay(member.BaptismDate),
		JoinDate:       services.FormatDay(member.JoinDate),
		DepartureDate:  services.FormatDay(member.DepartureDate),
		MaritalStatus:  string(member.MaritalStatus),
		SocialStatus:   string(member.SocialStatus),
		Education:      member.Education,
		Profession:     member.Profession,
		Notes:          member.Notes,
		HolySpirit:     member.HolySpirit,
		IsActive:       member.IsActive,
		DistrictID:     member.DistrictID,
		PhotoURL:       member.PhotoURL,
		Services:       make([]serviceAssignmentView, 0, len(member.Services)),
		CreatedAt:      member.CreatedAt,
		UpdatedAt:      member.UpdatedAt,
	}
	if member.BirthDate != nil && !member.BirthDate.IsZero() {
		age := services.AgeOn(services.CalendarDay(*member.BirthDate), today)
		view.Age = &age
	}
	for _, assignment := range member.Services {
		view.Services = append(view.Services, serviceAssignmentView{
			ID:            assignment.ID,
			ServiceTypeID: assignment.ServiceTypeID,
			ServiceName:   assignment.ServiceType.Name,
			IsActive:      assignment.IsActive,
			StartDate:     services.FormatDay(assignment.StartDate),
			EndDate:       services.FormatDay(assignment.EndDate),
		})
	}
	return view
}

func newMemberPageView(page services.MemberPage, today time.Time) memberPageView {
	view := memberPageView{
		Items:      make([]memberView, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
	for _, member := range page.Items {
		view.Items = append(view.Items, newMemberView(member, today))
	}
	return view
}

func newUserView(user models.User) userView {
	return userView{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Role:      string(user.Role),
		MemberID:  user.MemberID,
		CreatedAt: user.CreatedAt,
	}
}

func newAuthView(result services.AuthResult) authView {
	return authView{
		AccessToken: result.Token,
		TokenType:   "bearer",
		ExpiresAt:   result.ExpiresAt,
		User:        newUserView(result.User),
	}
}

func newDistrictViews(districts []models.District) []districtView {
	views := make([]districtView, 0, len(districts))
	for _, district := range districts {
		views = append(views, districtView{
			ID:         district.ID,
			Number:     district.Number,
			Area:       district.Area,
			LeaderName: district.LeaderName,
		})
	}
	return views
}

func newLeadershipView(leadership services.Leadership) leadershipView {
	view := leadershipView{
		Presbyters: make([]leaderView, 0, len(leadership.Presbyters)),
		Deacons:    make([]leaderView, 0, len(leadership.Deacons)),
	}
	for _, presbyter := range leadership.Presbyters {
		view.Presbyters = append(view.Presbyters, leaderView{
			ID:          presbyter.ID,
			MemberID:    presbyter.MemberID,
			FullName:    presbyter.Member.FullName,
			PhoneMobile: presbyter.Member.PhoneMobile,
			PhotoURL:    presbyter.Member.PhotoURL,
		})
	}
	for _, deacon := range leadership.Deacons {
		view.Deacons = append(view.Deacons, leaderView{
			ID:          deacon.ID,
			MemberID:    deacon.MemberID,
			FullName:    deacon.Member.FullName,
			PhoneMobile: deacon.Member.PhoneMobile,
			PhotoURL:    deacon.Member.PhotoURL,
			PresbyterID: deacon.PresbyterID,
		})
	}
	return view
}

func newServiceTypeViews(serviceTypes []models.ServiceType) []serviceTypeView {
	views := make([]serviceTypeView, 0, len(serviceTypes))
	for _, serviceType := range serviceTypes {
		views = append(views, serviceTypeView{ID: serviceType.ID, Name: serviceType.Name})
	}
	return views
}

func newEventView(event models.Event) eventView {
	return eventView{
		ID:                event.ID,
		Title:             event.Title,
		Description:       event.Description,
		EventDate:         event.EventDate.Format(services.DayLayout),
		EventTime:         event.EventTime,
		EventType:         event.EventType,
		Location:          event.Location,
		IsRecurring:       event.IsRecurring,
		RecurrencePattern: event.RecurrencePattern,
		CreatedBy:         event.CreatedBy,
		CreatedAt:         event.CreatedAt,
	}
}

func newEventViews(events []models.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, event := range events {
		views = append(views, newEventView(event))
	}
	return views
}

func newBirthdayViews(birthdays []services.Birthday) []birthdayView {
	views := make([]birthdayView, 0, len(birthdays))
	for _, birthday := range birthdays {
		views = append(views, birthdayView{
			MemberID:    birthday.MemberID,
			FullName:    birthday.FullName,
			BirthDate:   birthday.BirthDate.Format(services.DayLayout),
			Date:        birthday.Date.Format(services.DayLayout),
			Day:         birthday.Day,
			Month:       birthday.Month,
			Age:         birthday.Age,
			DaysUntil:   birthday.DaysUntil,
			PhoneMobile: birthday.PhoneMobile,
			Gender:      string(birthday.Gender),
			PhotoURL:    birthday.PhotoURL,
		})
	}
	return views
}

func newCalendarView(calendar services.CalendarMonth) calendarView {
	view := calendarView{
		Year:  calendar.Year,
		Month: calendar.Month,
		Days:  make(map[string]calendarDayView, len(calendar.Days)),
	}
	for day, entry := range calendar.Days {
		view.Days[strconv.Itoa(day)] = calendarDayView{
			Events:    newEventViews(entry.Events),
			Birthdays: newBirthdayViews(entry.Birthdays),
		}
	}
	return view
}
