package services

import (
	"context"
	"fmt"
	"time"

	"github.com/terraincognita07/ekklesia/internal/models"
)

type MemberRepository interface {
	FindByID(ctx context.Context, memberID uint) (models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, memberID uint, updates map[string]any, services *[]models.ServiceAssignment, activation *models.MemberActivation) error
	SetActive(ctx context.Context, memberID uint, active bool, at time.Time) error
	UpdatePhotoURL(ctx context.Context, memberID uint, photoURL string) error
}

type MemberReferenceChecker interface {
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
}

type DistrictChecker interface {
	Exists(ctx context.Context, districtID uint) (bool, error)
}

// StatisticsInvalidator is notified after every member write.
type StatisticsInvalidator interface {
	Invalidate(ctx context.Context)
}

type MemberService struct {
	members      MemberRepository
	serviceTypes MemberReferenceChecker
	districts    DistrictChecker
	statistics   StatisticsInvalidator
}

func NewMemberService(members MemberRepository, serviceTypes MemberReferenceChecker, districts DistrictChecker, statistics StatisticsInvalidator) *MemberService {
	return &MemberService{
		members:      members,
		serviceTypes: serviceTypes,
		districts:    districts,
		statistics:   statistics,
	}
}

func (service *MemberService) Get(ctx context.Context, memberID uint) (models.Member, error) {
	member, err := service.members.FindByID(ctx, memberID)
	if err != nil {
		return models.Member{}, storeError(fmt.Sprintf("member %d", memberID), err)
	}
	return member, nil
}

func (service *MemberService) Create(ctx context.Context, input MemberInput) (models.Member, error) {
	member, err := BuildMemberFromInput(input)
	if err != nil {
		return models.Member{}, err
	}
	if err := service.checkReferences(ctx, member.DistrictID, member.Services); err != nil {
		return models.Member{}, err
	}

	if err := service.members.Create(ctx, &member); err != nil {
		return models.Member{}, storeError("create member", err)
	}
	service.invalidate(ctx)
	return service.Get(ctx, member.ID)
}

func (service *MemberService) Update(ctx context.Context, memberID uint, patch MemberPatch, now time.Time) (models.Member, error) {
	updates, services, err := BuildMemberUpdates(patch)
	if err != nil {
		return models.Member{}, err
	}
	var assignments []models.ServiceAssignment
	if services != nil {
		assignments = *services
	}
	if err := service.checkReferences(ctx, patch.DistrictID, assignments); err != nil {
		return models.Member{}, err
	}

	var activation *models.MemberActivation
	if patch.IsActive != nil {
		activation = &models.MemberActivation{Active: *patch.IsActive, At: CalendarDay(now)}
	}

	if err := service.members.Update(ctx, memberID, updates, services, activation); err != nil {
		return models.Member{}, storeError(fmt.Sprintf("update member %d", memberID), err)
	}
	service.invalidate(ctx)
	return service.Get(ctx, memberID)
}

// Deactivate marks the member as departed. Repeating it keeps the first
// departure date.
func (service *MemberService) Deactivate(ctx context.Context, memberID uint, now time.Time) error {
	if err := service.members.SetActive(ctx, memberID, false, CalendarDay(now)); err != nil {
		return storeError(fmt.Sprintf("deactivate member %d", memberID), err)
	}
	service.invalidate(ctx)
	return nil
}

// SetPhoto stores photoURL and returns the URL it replaced.
func (service *MemberService) SetPhoto(ctx context.Context, memberID uint, photoURL string) (string, error) {
	member, err := service.Get(ctx, memberID)
	if err != nil {
		return "", err
	}
	if err := service.members.UpdatePhotoURL(ctx, memberID, photoURL); err != nil {
		return "", storeError(fmt.Sprintf("update member %d photo", memberID), err)
	}
	return member.PhotoURL, nil
}

// ClearPhoto removes the photo reference and returns the previous URL.
func (service *MemberService) ClearPhoto(ctx context.Context, memberID uint) (string, error) {
	return service.SetPhoto(ctx, memberID, "")
}

func (service *MemberService) checkReferences(ctx context.Context, districtID *uint, assignments []models.ServiceAssignment) error {
	if districtID != nil && service.districts != nil {
		exists, err := service.districts.Exists(ctx, *districtID)
		if err != nil {
			return storeError("check district", err)
		}
		if !exists {
			return validationError("district %d does not exist", *districtID)
		}
	}

	if len(assignments) == 0 || service.serviceTypes == nil {
		return nil
	}
	unique := make(map[uint]struct{}, len(assignments))
	ids := make([]uint, 0, len(assignments))
	for _, assignment := range assignments {
		if _, seen := unique[assignment.ServiceTypeID]; seen {
			continue
		}
		unique[assignment.ServiceTypeID] = struct{}{}
		ids = append(ids, assignment.ServiceTypeID)
	}
	count, err := service.serviceTypes.CountByIDs(ctx, ids)
	if err != nil {
		return storeError("check service types", err)
	}
	if count != int64(len(ids)) {
		return validationError("unknown service type in services")
	}
	return nil
}

func (service *MemberService) invalidate(ctx context.Context) {
	if service.statistics != nil {
		service.statistics.Invalidate(ctx)
	}
}
