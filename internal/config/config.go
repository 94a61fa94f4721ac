package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	insecureSecretPlaceholder = "change_me_in_production"
	minSecretKeyLength        = 32
)

var (
	ErrSecretKeyMissing  = errors.New("SECRET_KEY is required")
	ErrSecretKeyInsecure = errors.New("SECRET_KEY must not use the placeholder value")
	ErrSecretKeyShort    = fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
)

type Config struct {
	Port          string
	SecretKey     string
	TokenTTL      time.Duration
	DBDriver      string
	DBPath        string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration
	MaxPageSize   int
	CORSOrigins   string
	UploadsDir    string
	ReferenceFile string
	ChurchName    string
	ChurchCity    string
	Location      *time.Location
	LogLevel      string
}

// Load reads the process environment. A .env file, when present, is merged
// by the command layer before Load runs.
func Load() (*Config, error) {
	secretKey, err := ResolveSecretKey()
	if err != nil {
		return nil, err
	}
	port, err := ResolvePort()
	if err != nil {
		return nil, err
	}

	maxPageSize, err := getEnvInt("MAX_PAGE_SIZE", 100)
	if err != nil {
		return nil, err
	}
	if maxPageSize <= 0 {
		return nil, fmt.Errorf("MAX_PAGE_SIZE must be positive, got %d", maxPageSize)
	}
	tokenTTL, err := getEnvDuration("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadStorage()
	if err != nil {
		return nil, err
	}
	cfg.Port = port
	cfg.SecretKey = secretKey
	cfg.TokenTTL = tokenTTL
	cfg.MaxPageSize = maxPageSize
	cfg.CORSOrigins = GetEnvOrDefault("CORS_ORIGINS", "*")
	cfg.UploadsDir = GetEnvOrDefault("UPLOADS_DIR", filepath.Join("data", "uploads"))
	cfg.ReferenceFile = strings.TrimSpace(os.Getenv("REFERENCE_FILE"))
	cfg.ChurchName = strings.TrimSpace(os.Getenv("CHURCH_NAME"))
	cfg.ChurchCity = strings.TrimSpace(os.Getenv("CHURCH_CITY"))
	return cfg, nil
}

// LoadStorage reads only the database, cache and time zone settings, which
// is all the maintenance commands need. SECRET_KEY is not required.
func LoadStorage() (*Config, error) {
	driver := strings.ToLower(GetEnvOrDefault("DB_DRIVER", DriverSQLite))
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if driver == DriverPostgres && databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres driver")
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	statsCacheTTL, err := getEnvDuration("STATS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	return &Config{
		DBDriver:      driver,
		DBPath:        GetEnvOrDefault("DB_PATH", filepath.Join("data", "ekklesia.db")),
		DatabaseURL:   databaseURL,
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		StatsCacheTTL: statsCacheTTL,
		Location:      LoadLocation(GetEnvOrDefault("TZ", "UTC")),
		LogLevel:      strings.ToLower(GetEnvOrDefault("LOG_LEVEL", "info")),
	}, nil
}

func ResolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	switch {
	case secret == "":
		return "", ErrSecretKeyMissing
	case secret == insecureSecretPlaceholder:
		return "", ErrSecretKeyInsecure
	case len(secret) < minSecretKeyLength:
		return "", ErrSecretKeyShort
	}
	return secret, nil
}

func ResolvePort() (string, error) {
	raw := GetEnvOrDefault("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("invalid PORT %q: %w", raw, err)
	}
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("PORT out of range: %d", port)
	}
	return strconv.Itoa(port), nil
}

// LoadLocation falls back to UTC for unknown zone names.
func LoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return location
}

func GetEnvOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return value, nil
}
