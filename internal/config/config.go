// Package config loads process settings from defaults, an optional YAML file,
// a .env file and the environment, in that order of priority.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DevAdminPassword seeds the first admin outside production.
const DevAdminPassword = "fitpro-admin"

var (
	ErrMissingCSRFKey       = errors.New("FITPRO_CSRF_KEY is required in production")
	ErrInvalidCSRFKey       = errors.New("FITPRO_CSRF_KEY must be 64 hex characters")
	ErrMissingJWTSecret     = errors.New("FITPRO_JWT_SECRET is required in production")
	ErrMissingAdminPassword = errors.New("FITPRO_ADMIN_PASSWORD is required in production")
	ErrUnknownDriver        = errors.New("FITPRO_DB_DRIVER must be sqlite or postgres")
	ErrMissingDBURL         = errors.New("FITPRO_DB_URL is required")
	ErrUnknownTimezone      = errors.New("FITPRO_TIMEZONE is not a known IANA zone")
	ErrUnknownLogLevel      = errors.New("FITPRO_LOG_LEVEL must be debug, info, warn or error")
	ErrInvalidNumber        = errors.New("numeric setting is invalid")
)

// Config holds every process setting.
type Config struct {
	Env           string        `yaml:"env"`
	Addr          string        `yaml:"addr"`
	DBDriver      string        `yaml:"db_driver"`
	DBURL         string        `yaml:"db_url"`
	Timezone      string        `yaml:"timezone"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
	CSRFKey       string        `yaml:"csrf_key"` // 64 hex characters
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	CORSOrigins   []string      `yaml:"cors_origins"`
	ResendKey     string        `yaml:"resend_key"`
	EmailFrom     string        `yaml:"email_from"`
	ReplyTo       string        `yaml:"reply_to"`
	SMTPHost      string        `yaml:"smtp_host"`
	SMTPPort      int           `yaml:"smtp_port"`
	SMTPUser      string        `yaml:"smtp_user"`
	SMTPPassword  string        `yaml:"smtp_password"`
	RateLimit     int           `yaml:"rate_limit"` // requests per second per IP, 0 disables
	LogLevel      string        `yaml:"log_level"`

	// ExpireSchedule is the cron spec for the membership expiry sweep; empty disables it.
	ExpireSchedule string `yaml:"expire_schedule"`
}

// Defaults returns the development configuration.
func Defaults() Config {
	return Config{
		Env:        EnvDevelopment,
		Addr:       ":8080",
		DBDriver:   DriverSQLite,
		DBURL:      "fitpro.db",
		Timezone:   "UTC",
		AdminEmail: "admin@fitpro.local",
		TokenTTL:   24 * time.Hour,
		EmailFrom:  "FitPro <noreply@fitpro.local>",
		SMTPPort:   587,
		RateLimit:  20,
		LogLevel:   "info",

		ExpireSchedule: "5 0 * * *",
	}
}

// Load builds the configuration and validates it.
// PRE: FITPRO_CONFIG, when set, names a readable YAML file
// POST: Returns a validated Config or the first problem found
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("FITPRO_CONFIG"); path != "" {
		if err := cfg.mergeYAML(path); err != nil {
			return Config{}, err
		}
	}

	// Existing environment variables win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if cfg.AdminPassword == "" && !cfg.IsProduction() {
		cfg.AdminPassword = DevAdminPassword
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return fmt.Errorf("%s=%q: %w", key, v, ErrInvalidNumber)
		}
		*dst = n
		return nil
	}

	str("FITPRO_ENV", &c.Env)
	str("FITPRO_ADDR", &c.Addr)
	str("FITPRO_DB_DRIVER", &c.DBDriver)
	str("FITPRO_DB_URL", &c.DBURL)
	str("FITPRO_TIMEZONE", &c.Timezone)
	str("FITPRO_ADMIN_EMAIL", &c.AdminEmail)
	str("FITPRO_ADMIN_PASSWORD", &c.AdminPassword)
	str("FITPRO_CSRF_KEY", &c.CSRFKey)
	str("FITPRO_JWT_SECRET", &c.JWTSecret)
	str("FITPRO_RESEND_KEY", &c.ResendKey)
	str("FITPRO_EMAIL_FROM", &c.EmailFrom)
	str("FITPRO_REPLY_TO", &c.ReplyTo)
	str("FITPRO_SMTP_HOST", &c.SMTPHost)
	str("FITPRO_SMTP_USER", &c.SMTPUser)
	str("FITPRO_SMTP_PASSWORD", &c.SMTPPassword)
	str("FITPRO_LOG_LEVEL", &c.LogLevel)
	str("FITPRO_EXPIRE_SCHEDULE", &c.ExpireSchedule)

	if v, ok := lookup("FITPRO_CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("FITPRO_TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("FITPRO_TOKEN_TTL=%q: %w", v, ErrInvalidNumber)
		}
		c.TokenTTL = d
	}
	if err := num("FITPRO_SMTP_PORT", &c.SMTPPort); err != nil {
		return err
	}
	return num("FITPRO_RATE_LIMIT", &c.RateLimit)
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the settings that would otherwise fail at first use.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.DBDriver)
	}
	if c.DBURL == "" {
		return ErrMissingDBURL
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownTimezone, c.Timezone)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.CSRFKey != "" {
		if b, err := hex.DecodeString(c.CSRFKey); err != nil || len(b) != 32 {
			return ErrInvalidCSRFKey
		}
	}
	if c.IsProduction() {
		if c.CSRFKey == "" {
			return ErrMissingCSRFKey
		}
		if c.JWTSecret == "" {
			return ErrMissingJWTSecret
		}
		if c.AdminPassword == "" {
			return ErrMissingAdminPassword
		}
	}
	return nil
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Location returns the gym's time zone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, c.LogLevel)
	}
	return level, nil
}

// CSRFKeyBytes decodes CSRFKey. Without one it returns a random key, so form
// tokens do not survive a restart.
func (c Config) CSRFKeyBytes() ([]byte, error) {
	if c.CSRFKey != "" {
		return hex.DecodeString(c.CSRFKey)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
