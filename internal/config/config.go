package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Data     DataConfig
	Auth     AuthConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

// DatabaseConfig is optional: with an empty DBHost the app persists user
// records to the JSON file store instead of Postgres.
type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != ""
}

// DataConfig points at the reference data files. Dir defaults to ./data and
// each file can be overridden individually.
type DataConfig struct {
	Dir               string
	JobRulesPath      string
	CourseCatalogPath string
	GapCatalogPath    string
	QuestionBankPath  string
	UsersPath         string
}

type AuthConfig struct {
	JWTSecret        string
	JWTRefreshSecret string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
	// Bcrypt hash guarding the admin dashboard. Empty disables it.
	AdminPasswordHash string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),
	}

	dataDir := opt("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	cfg.Data = DataConfig{
		Dir:               dataDir,
		JobRulesPath:      orDefault(opt("JOB_RULES_PATH"), filepath.Join(dataDir, "job_course_rules_fa.json")),
		CourseCatalogPath: orDefault(opt("COURSE_CATALOG_PATH"), filepath.Join(dataDir, "course_catalog_fa.json")),
		GapCatalogPath:    orDefault(opt("GAP_CATALOG_PATH"), filepath.Join(dataDir, "skill_gaps_fa.json")),
		QuestionBankPath:  orDefault(opt("QUESTION_BANK_PATH"), filepath.Join(dataDir, "interview_question_bank_fa.json")),
		UsersPath:         orDefault(opt("USERS_PATH"), filepath.Join(dataDir, "users.json")),
	}

	cfg.Auth = AuthConfig{
		JWTSecret:         req("JWT_SECRET"),
		JWTRefreshSecret:  opt("JWT_REFRESH_SECRET"),
		AccessExpiresIn:   durationOrDefault(opt("JWT_ACCESS_EXPIRES_IN"), 24*time.Hour),
		RefreshExpiresIn:  durationOrDefault(opt("JWT_REFRESH_EXPIRES_IN"), 7*24*time.Hour),
		AdminPasswordHash: opt("ADMIN_PASSWORD_HASH"),
	}
	if cfg.Auth.JWTRefreshSecret == "" {
		cfg.Auth.JWTRefreshSecret = cfg.Auth.JWTSecret
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func durationOrDefault(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
