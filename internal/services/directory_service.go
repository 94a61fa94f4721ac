package services

import (
	"context"
	"fmt"

	"github.com/terraincognita07/ekklesia/internal/models"
)

type DistrictRepository interface {
	List(ctx context.Context) ([]models.District, error)
	Count(ctx context.Context) (int64, error)
}

type LeadershipRepository interface {
	ListPresbyters(ctx context.Context) ([]models.Presbyter, error)
	ListDeacons(ctx context.Context) ([]models.Deacon, error)
}

type ServiceTypeRepository interface {
	List(ctx context.Context) ([]models.ServiceType, error)
}

type ActiveMemberCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

type Leadership struct {
	Presbyters []models.Presbyter
	Deacons    []models.Deacon
}

type ChurchInfo struct {
	Name string
	City string
}

type PublicInfo struct {
	Church        ChurchInfo
	ActiveMembers int64
	Districts     int64
}

type DirectoryService struct {
	districts    DistrictRepository
	leadership   LeadershipRepository
	serviceTypes ServiceTypeRepository
	members      ActiveMemberCounter
	reference    *ReferenceCatalog
	church       ChurchInfo
}

func NewDirectoryService(
	districts DistrictRepository,
	leadership LeadershipRepository,
	serviceTypes ServiceTypeRepository,
	members ActiveMemberCounter,
	reference *ReferenceCatalog,
	church ChurchInfo,
) *DirectoryService {
	if reference == nil {
		reference = DefaultReferenceCatalog()
	}
	return &DirectoryService{
		districts:    districts,
		leadership:   leadership,
		serviceTypes: serviceTypes,
		members:      members,
		reference:    reference,
		church:       church,
	}
}

// Districts are ordered by number. LeaderName is free text kept for display
// and is not tied to a member record.
func (service *DirectoryService) Districts(ctx context.Context) ([]models.District, error) {
	districts, err := service.districts.List(ctx)
	if err != nil {
		return nil, storeError("list districts", err)
	}
	return districts, nil
}

// Leadership skips presbyter and deacon rows whose member record is gone.
func (service *DirectoryService) Leadership(ctx context.Context) (Leadership, error) {
	presbyters, err := service.leadership.ListPresbyters(ctx)
	if err != nil {
		return Leadership{}, storeError("list presbyters", err)
	}
	deacons, err := service.leadership.ListDeacons(ctx)
	if err != nil {
		return Leadership{}, storeError("list deacons", err)
	}

	result := Leadership{
		Presbyters: make([]models.Presbyter, 0, len(presbyters)),
		Deacons:    make([]models.Deacon, 0, len(deacons)),
	}
	for _, presbyter := range presbyters {
		if presbyter.Member.ID != 0 {
			result.Presbyters = append(result.Presbyters, presbyter)
		}
	}
	for _, deacon := range deacons {
		if deacon.Member.ID != 0 {
			result.Deacons = append(result.Deacons, deacon)
		}
	}
	return result, nil
}

func (service *DirectoryService) ServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	serviceTypes, err := service.serviceTypes.List(ctx)
	if err != nil {
		return nil, storeError("list service types", err)
	}
	return serviceTypes, nil
}

func (service *DirectoryService) Reference(refType string) (map[string]string, error) {
	labels, ok := service.reference.Labels(refType)
	if !ok {
		return nil, fmt.Errorf("%w: reference type %q", ErrNotFound, refType)
	}
	return labels, nil
}

func (service *DirectoryService) Church() ChurchInfo {
	return service.church
}

func (service *DirectoryService) PublicInfo(ctx context.Context) (PublicInfo, error) {
	activeMembers, err := service.members.CountActive(ctx)
	if err != nil {
		return PublicInfo{}, storeError("count active members", err)
	}
	districtCount, err := service.districts.Count(ctx)
	if err != nil {
		return PublicInfo{}, storeError("count districts", err)
	}
	return PublicInfo{
		Church:        service.church,
		ActiveMembers: activeMembers,
		Districts:     districtCount,
	}, nil
}
