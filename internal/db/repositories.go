package db

import "gorm.io/gorm"

type Repositories struct {
	Members      *MemberRepository
	Districts    *DistrictRepository
	Leadership   *LeadershipRepository
	ServiceTypes *ServiceTypeRepository
	Users        *UserRepository
	Events       *EventRepository
	Imports      *ImportRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Members:      NewMemberRepository(database),
		Districts:    NewDistrictRepository(database),
		Leadership:   NewLeadershipRepository(database),
		ServiceTypes: NewServiceTypeRepository(database),
		Users:        NewUserRepository(database),
		Events:       NewEventRepository(database),
		Imports:      NewImportRepository(database),
	}
}
