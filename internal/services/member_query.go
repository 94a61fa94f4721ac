package services

import (
	"context"
	"strings"

	"github.com/terraincognita07/ekklesia/internal/models"
)

const (
	DefaultPageSize    = 50
	DefaultMaxPageSize = 100
)

type MemberSearchRepository interface {
	Search(ctx context.Context, filter models.MemberFilter, offset int, limit int) ([]models.Member, int64, error)
}

// MemberQuery describes one search request. Page and PageSize of zero mean
// the caller did not give them and fall back to the first page and
// DefaultPageSize.
type MemberQuery struct {
	Text          string
	ActiveOnly    *bool
	Gender        string
	ServiceTypeID uint
	DistrictID    uint
	Page          int
	PageSize      int
}

type MemberPage struct {
	Items      []models.Member
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

type MemberQueryService struct {
	members     MemberSearchRepository
	maxPageSize int
}

func NewMemberQueryService(members MemberSearchRepository, maxPageSize int) *MemberQueryService {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	return &MemberQueryService{members: members, maxPageSize: maxPageSize}
}

func (service *MemberQueryService) Search(ctx context.Context, query MemberQuery) (MemberPage, error) {
	filter, page, pageSize, err := service.normalizeQuery(query)
	if err != nil {
		return MemberPage{}, err
	}

	offset := (page - 1) * pageSize
	items, total, err := service.members.Search(ctx, filter, offset, pageSize)
	if err != nil {
		return MemberPage{}, storeError("search members", err)
	}
	if items == nil {
		items = []models.Member{}
	}

	return MemberPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}, nil
}

func (service *MemberQueryService) normalizeQuery(query MemberQuery) (models.MemberFilter, int, int, error) {
	page := query.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return models.MemberFilter{}, 0, 0, validationError("page must be >= 1")
	}

	pageSize := query.PageSize
	if pageSize < 0 {
		return models.MemberFilter{}, 0, 0, validationError("page_size must be > 0")
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > service.maxPageSize {
		pageSize = service.maxPageSize
	}

	filter := models.MemberFilter{
		SearchName:    models.NormalizeSearchName(query.Text),
		ActiveOnly:    query.ActiveOnly == nil || *query.ActiveOnly,
		ServiceTypeID: query.ServiceTypeID,
		DistrictID:    query.DistrictID,
	}
	if rawGender := strings.TrimSpace(query.Gender); rawGender != "" {
		gender, err := models.ParseGender(rawGender)
		if err != nil {
			return models.MemberFilter{}, 0, 0, validationError("gender must be male or female")
		}
		filter.Gender = gender
	}

	return filter, page, pageSize, nil
}

// TotalPages is ceil(total/pageSize) but never less than one.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	pages := (total + int64(pageSize) - 1) / int64(pageSize)
	if pages < 1 {
		return 1
	}
	return int(pages)
}
