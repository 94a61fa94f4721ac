package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/ekklesia/internal/db"
	"github.com/terraincognita07/ekklesia/internal/services"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if strings.TrimSpace(options.SecretKey) == "" {
		return nil, errors.New("secret key is required")
	}
	if options.Location == nil {
		options.Location = time.UTC
	}

	handler := &Handler{
		location:     options.Location,
		uploadsDir:   options.UploadsDir,
		loginLimiter: newAttemptLimiter(),
		now:          time.Now,
	}
	return handler.withDependencies(db.NewRepositories(database), options), nil
}

func (handler *Handler) withDependencies(repositories *db.Repositories, options Options) *Handler {
	statistics := services.NewStatisticsService(repositories.Members, options.StatisticsCache, options.Location)
	events := services.NewEventService(repositories.Events)

	handler.auth = services.NewAuthService(
		repositories.Users,
		services.NewTokenIssuer([]byte(options.SecretKey), options.TokenTTL),
	)
	handler.access = services.NewAccessService(services.AccessDependencies{
		Queries:    services.NewMemberQueryService(repositories.Members, options.MaxPageSize),
		Members:    services.NewMemberService(repositories.Members, repositories.ServiceTypes, repositories.Districts, statistics),
		Statistics: statistics,
		Directory: services.NewDirectoryService(
			repositories.Districts,
			repositories.Leadership,
			repositories.ServiceTypes,
			repositories.Members,
			options.Reference,
			options.Church,
		),
		Users:     services.NewUserService(repositories.Users),
		Events:    events,
		Birthdays: services.NewBirthdayService(repositories.Members, events),
		Location:  options.Location,
		Clock: func() time.Time {
			return handler.now()
		},
	})
	return handler
}
