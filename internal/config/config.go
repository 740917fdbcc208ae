package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/store"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

var supportedProviders = []string{"mock", "gemini"}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN is the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config is the whole service configuration, read from the environment.
type Config struct {
	Port        string
	Environment string

	StorageDriver string
	SQLitePath    string
	Database      DatabaseConfig
	Redis         RedisConfig
	StorageKey    string

	Provider string

	AdvanceDelay           time.Duration
	TickInterval           time.Duration
	ScoringTimeout         time.Duration
	CorrectAnswerThreshold int

	JWTSecret          string
	CORSAllowedOrigins []string

	ExportEnabled  bool
	ExportSchedule string
	ExportDir      string

	PublishCompletions bool
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		Environment:   getEnvOrDefault("ENVIRONMENT", "development"),
		StorageDriver: strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", StorageSQLite)),
		SQLitePath:    getEnvOrDefault("SQLITE_PATH", "interview.db"),
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			Name:     getEnvOrDefault("DB_NAME", "interview"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		StorageKey: getEnvOrDefault("STORAGE_KEY", store.DefaultKey),

		Provider: strings.ToLower(getEnvOrDefault("AI_PROVIDER", "mock")),

		AdvanceDelay:           getEnvDuration("ADVANCE_DELAY", models.DefaultAdvanceDelay),
		TickInterval:           getEnvDuration("TICK_INTERVAL", models.DefaultTickInterval),
		ScoringTimeout:         getEnvDuration("SCORING_TIMEOUT", 15*time.Second),
		CorrectAnswerThreshold: getEnvInt("CORRECT_ANSWER_THRESHOLD", models.DefaultCorrectAnswerThreshold),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		ExportEnabled:  getEnvBool("EXPORT_ENABLED", false),
		ExportSchedule: getEnvOrDefault("EXPORT_SCHEDULE", "@daily"),
		ExportDir:      getEnvOrDefault("EXPORT_DIR", "./exports"),

		PublishCompletions: getEnvBool("PUBLISH_COMPLETIONS", false),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// NeedsRedis reports whether any component talks to Redis.
func (c *Config) NeedsRedis() bool {
	return c.StorageDriver == StorageRedis || c.PublishCompletions
}

func validateConfig(config *Config) error {
	var errs []error

	switch config.StorageDriver {
	case StorageSQLite, StoragePostgres, StorageRedis, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_DRIVER %q", config.StorageDriver))
	}

	supported := false
	for _, p := range supportedProviders {
		if config.Provider == p {
			supported = true
		}
	}
	if !supported {
		errs = append(errs, errors.New("unsupported AI provider: "+config.Provider+". Currently supported: "+strings.Join(supportedProviders, ", ")))
	}

	if config.AdvanceDelay <= 0 || config.TickInterval <= 0 || config.ScoringTimeout <= 0 {
		errs = append(errs, errors.New("ADVANCE_DELAY, TICK_INTERVAL and SCORING_TIMEOUT must be positive"))
	}
	if config.CorrectAnswerThreshold < 1 || config.CorrectAnswerThreshold > models.MaxAnswerScore {
		errs = append(errs, fmt.Errorf("CORRECT_ANSWER_THRESHOLD must be between 1 and %d", models.MaxAnswerScore))
	}
	if config.StorageKey == "" {
		errs = append(errs, errors.New("STORAGE_KEY must not be empty"))
	}
	if config.ExportEnabled && config.ExportSchedule == "" {
		errs = append(errs, errors.New("EXPORT_SCHEDULE is required when EXPORT_ENABLED is set"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("2s") or bare seconds ("2").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
