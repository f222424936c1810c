package config

import (
	"os"
	"strconv"
	"time"
)

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Port            string
	BodyLimitMB     int
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MinIOConfig holds the photo bucket settings.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// IntakeConfig tunes submission intake and photo delivery.
type IntakeConfig struct {
	UploadConcurrency int
	PhotoURLExpiry    time.Duration
}

// AppConfig is everything the binaries read from the environment.
// Secrets have no defaults.
type AppConfig struct {
	HTTP         HTTPConfig
	Timezone     string
	SettingsPath string
	Database     DatabaseConfig
	MinIO        MinIOConfig
	Log          LogConfig
	Intake       IntakeConfig
}

// Load reads configuration from the environment. Importing
// github.com/joho/godotenv/autoload fills it from a .env file first; variables
// already set win.
func Load() *AppConfig {
	return &AppConfig{
		HTTP: HTTPConfig{
			Port:            envString("PORT", "8080"),
			BodyLimitMB:     envInt("HTTP_BODY_LIMIT_MB", 64),
			ShutdownTimeout: envDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Timezone:     envString("APP_TIMEZONE", "UTC"),
		SettingsPath: envString("NEWSLETTER_SETTINGS", ""),
		Database: DatabaseConfig{
			Host:            envString("DB_HOST", ""),
			Port:            envString("DB_PORT", "5432"),
			User:            envString("DB_USER", ""),
			Password:        envString("DB_PASSWORD", ""),
			Name:            envString("DB_NAME", ""),
			SSLMode:         envString("DB_SSLMODE", "disable"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		MinIO: MinIOConfig{
			Endpoint:  envString("MINIO_ENDPOINT", ""),
			AccessKey: envString("MINIO_ACCESS_KEY", ""),
			SecretKey: envString("MINIO_SECRET_KEY", ""),
			Bucket:    envString("MINIO_BUCKET", "forum-photos"),
			UseSSL:    envBool("MINIO_USE_SSL", false),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "json"),
		},
		Intake: IntakeConfig{
			UploadConcurrency: envInt("INTAKE_UPLOAD_CONCURRENCY", 4),
			PhotoURLExpiry:    envDuration("PHOTO_URL_EXPIRY", time.Hour),
		},
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BodyLimit is the request size cap in bytes.
func (c HTTPConfig) BodyLimit() int {
	return c.BodyLimitMB << 20
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// envParsed applies parse to the variable; unset or malformed values yield def.
func envParsed[T any](key string, def T, parse func(string) (T, error)) T {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	out, err := parse(v)
	if err != nil {
		return def
	}
	return out
}

func envInt(key string, def int) int {
	return envParsed(key, def, strconv.Atoi)
}

func envBool(key string, def bool) bool {
	return envParsed(key, def, strconv.ParseBool)
}

// envDuration accepts Go durations ("90s", "5m") or a bare number of seconds.
func envDuration(key string, def time.Duration) time.Duration {
	return envParsed(key, def, func(v string) (time.Duration, error) {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second, nil
		}
		return time.ParseDuration(v)
	})
}
