package services

import (
	"context"
	"time"

	"github.com/terraincognita07/ekklesia/internal/models"
)

// AccessService is the single entry point for caller-facing operations. It
// checks the caller's role before delegating, so no write reaches a store
// on behalf of an unauthorized caller.
type AccessService struct {
	queries    *MemberQueryService
	members    *MemberService
	statistics *StatisticsService
	directory  *DirectoryService
	users      *UserService
	events     *EventService
	birthdays  *BirthdayService
	location   *time.Location
	now        func() time.Time
}

type AccessDependencies struct {
	Queries    *MemberQueryService
	Members    *MemberService
	Statistics *StatisticsService
	Directory  *DirectoryService
	Users      *UserService
	Events     *EventService
	Birthdays  *BirthdayService
	Location   *time.Location
	// Clock defaults to time.Now.
	Clock      func() time.Time
}

func NewAccessService(deps AccessDependencies) *AccessService {
	location := deps.Location
	if location == nil {
		location = time.UTC
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &AccessService{
		queries:    deps.Queries,
		members:    deps.Members,
		statistics: deps.Statistics,
		directory:  deps.Directory,
		users:      deps.Users,
		events:     deps.Events,
		birthdays:  deps.Birthdays,
		location:   location,
		now:        clock,
	}
}

// today is the current calendar date in the configured location.
func (service *AccessService) today() time.Time {
	return CalendarDay(DateAtLocation(service.now(), service.location))
}

func (service *AccessService) SearchMembers(ctx context.Context, caller *Caller, query MemberQuery) (MemberPage, error) {
	if err := requireCaller(caller); err != nil {
		return MemberPage{}, err
	}
	return service.queries.Search(ctx, query)
}

func (service *AccessService) GetMember(ctx context.Context, caller *Caller, memberID uint) (models.Member, error) {
	if err := requireCaller(caller); err != nil {
		return models.Member{}, err
	}
	return service.members.Get(ctx, memberID)
}

func (service *AccessService) CreateMember(ctx context.Context, caller *Caller, input MemberInput) (models.Member, error) {
	if err := requireEditor(caller); err != nil {
		return models.Member{}, err
	}
	return service.members.Create(ctx, input)
}

func (service *AccessService) UpdateMember(ctx context.Context, caller *Caller, memberID uint, patch MemberPatch) (models.Member, error) {
	if err := requireEditor(caller); err != nil {
		return models.Member{}, err
	}
	return service.members.Update(ctx, memberID, patch, service.today())
}

func (service *AccessService) DeactivateMember(ctx context.Context, caller *Caller, memberID uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	return service.members.Deactivate(ctx, memberID, service.today())
}

func (service *AccessService) SetMemberPhoto(ctx context.Context, caller *Caller, memberID uint, photoURL string) (string, error) {
	if err := requireEditor(caller); err != nil {
		return "", err
	}
	return service.members.SetPhoto(ctx, memberID, photoURL)
}

func (service *AccessService) ClearMemberPhoto(ctx context.Context, caller *Caller, memberID uint) (string, error) {
	if err := requireEditor(caller); err != nil {
		return "", err
	}
	return service.members.ClearPhoto(ctx, memberID)
}

// CanEditMembers lets handlers reject uploads before touching the disk.
func (service *AccessService) CanEditMembers(caller *Caller) error {
	return requireEditor(caller)
}

func (service *AccessService) Statistics(ctx context.Context, caller *Caller) (StatisticsSnapshot, error) {
	if err := requireCaller(caller); err != nil {
		return StatisticsSnapshot{}, err
	}
	return service.statistics.Build(ctx)
}

func (service *AccessService) Districts(ctx context.Context, caller *Caller) ([]models.District, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return service.directory.Districts(ctx)
}

func (service *AccessService) Leadership(ctx context.Context, caller *Caller) (Leadership, error) {
	if err := requireCaller(caller); err != nil {
		return Leadership{}, err
	}
	return service.directory.Leadership(ctx)
}

func (service *AccessService) ServiceTypes(ctx context.Context, caller *Caller) ([]models.ServiceType, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return service.directory.ServiceTypes(ctx)
}

func (service *AccessService) Reference(caller *Caller, refType string) (map[string]string, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return service.directory.Reference(refType)
}

// Church needs no caller.
func (service *AccessService) Church() ChurchInfo {
	return service.directory.Church()
}

// PublicInfo needs no caller.
func (service *AccessService) PublicInfo(ctx context.Context) (PublicInfo, error) {
	return service.directory.PublicInfo(ctx)
}

func (service *AccessService) ListUsers(ctx context.Context, caller *Caller) ([]models.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return service.users.List(ctx)
}

func (service *AccessService) UpdateUserRole(ctx context.Context, caller *Caller, userID string, role string) (models.User, error) {
	if err := requireAdminOnOther(caller, userID); err != nil {
		return models.User{}, err
	}
	return service.users.UpdateRole(ctx, userID, role)
}

func (service *AccessService) DeleteUser(ctx context.Context, caller *Caller, userID string) error {
	if err := requireAdminOnOther(caller, userID); err != nil {
		return err
	}
	return service.users.Delete(ctx, userID)
}

func (service *AccessService) Events(ctx context.Context, caller *Caller, year int, month int) ([]models.Event, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return service.events.List(ctx, year, month)
}

func (service *AccessService) CreateEvent(ctx context.Context, caller *Caller, input EventInput) (models.Event, error) {
	if err := requireEditor(caller); err != nil {
		return models.Event{}, err
	}
	return service.events.Create(ctx, caller, input, service.now())
}

func (service *AccessService) UpdateEvent(ctx context.Context, caller *Caller, eventID string, patch EventPatch) (models.Event, error) {
	if err := requireEditor(caller); err != nil {
		return models.Event{}, err
	}
	return service.events.Update(ctx, eventID, patch)
}

func (service *AccessService) DeleteEvent(ctx context.Context, caller *Caller, eventID string) error {
	if err := requireEditor(caller); err != nil {
		return err
	}
	return service.events.Delete(ctx, eventID)
}

func (service *AccessService) Birthdays(ctx context.Context, caller *Caller, month int) ([]Birthday, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return service.birthdays.ForMonth(ctx, month, service.today())
}

func (service *AccessService) UpcomingBirthdays(ctx context.Context, caller *Caller, days int) ([]Birthday, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return service.birthdays.Upcoming(ctx, days, service.today())
}

func (service *AccessService) Calendar(ctx context.Context, caller *Caller, year int, month int) (CalendarMonth, error) {
	if err := requireCaller(caller); err != nil {
		return CalendarMonth{}, err
	}
	return service.birthdays.Calendar(ctx, year, month)
}
