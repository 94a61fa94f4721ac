package api

import (
	"time"

	"github.com/terraincognita07/ekklesia/internal/services"
)

type Handler struct {
	access       *services.AccessService
	auth         *services.AuthService
	location     *time.Location
	uploadsDir   string
	loginLimiter *attemptLimiter
	now          func() time.Time
}

// Options configures the services a Handler builds over its database.
type Options struct {
	SecretKey       string
	TokenTTL        time.Duration
	Location        *time.Location
	MaxPageSize     int
	UploadsDir      string
	Reference       *services.ReferenceCatalog
	Church          services.ChurchInfo
	StatisticsCache services.StatisticsCache
}

const (
	loginAttemptLimit  = 8
	loginAttemptWindow = 15 * time.Minute
	maxPhotoBytes      = 5 << 20
	uploadsURLPrefix   = "/uploads/"
)
