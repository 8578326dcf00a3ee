// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/gurkanbulca/taskapi/pkg/auth"
)

const defaultSessionSecret = "dev-session-secret-change-in-production"

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	API      APIConfig
	Password PasswordConfig
	Seed     SeedConfig
}

type ServerConfig struct {
	GRPCPort         string
	HTTPPort         string
	Environment      string
	AutoMigrate      bool
	EnableReflection bool
	ErrorLogPath     string
}

type DatabaseConfig struct {
	Driver   string
	URI      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// SessionConfig controls the signed session cookie consulted by the
// authorization guard.
type SessionConfig struct {
	Secret       string
	Duration     time.Duration
	CookieName   string
	CookieSecure bool
}

type APIConfig struct {
	PageSize    int
	MaxPageSize int
}

// PasswordConfig is the policy applied to passwords chosen at registration
// and seeding.
type PasswordConfig struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// Policy converts the settings for the password manager.
func (p PasswordConfig) Policy() auth.PasswordPolicy {
	return auth.PasswordPolicy{
		MinLength:      p.MinLength,
		RequireUpper:   p.RequireUpper,
		RequireLower:   p.RequireLower,
		RequireNumber:  p.RequireNumber,
		RequireSpecial: p.RequireSpecial,
	}
}

// SeedConfig describes the administrator account created by cmd/migrate.
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			GRPCPort:         getEnv("GRPC_PORT", "50051"),
			HTTPPort:         getEnv("HTTP_PORT", "8080"),
			Environment:      getEnv("ENVIRONMENT", "development"),
			AutoMigrate:      getEnvAsBool("AUTO_MIGRATE", false),
			EnableReflection: getEnvAsBool("ENABLE_REFLECTION", false),
			ErrorLogPath:     getEnv("ERROR_LOG_PATH", ""),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			URI:      getEnv("DATABASE_URI", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "taskapi"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", getEnv("SECRET_KEY", defaultSessionSecret)),
			Duration:     getEnvAsDuration("SESSION_DURATION", 24*time.Hour),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "session"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		API: APIConfig{
			PageSize:    getEnvAsInt("API_PAGE_SIZE", 20),
			MaxPageSize: getEnvAsInt("API_MAX_PAGE_SIZE", 100),
		},
		Password: PasswordConfig{
			MinLength:      getEnvAsInt("PASSWORD_MIN_LENGTH", 6),
			RequireUpper:   getEnvAsBool("PASSWORD_REQUIRE_UPPER", false),
			RequireLower:   getEnvAsBool("PASSWORD_REQUIRE_LOWER", false),
			RequireNumber:  getEnvAsBool("PASSWORD_REQUIRE_NUMBER", false),
			RequireSpecial: getEnvAsBool("PASSWORD_REQUIRE_SPECIAL", false),
		},
		Seed: SeedConfig{
			AdminName:     getEnv("ADMIN_NAME", "administrateur"),
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
	}, nil
}

// ValidateConfig checks that the loaded values are usable.
func (c *Config) ValidateConfig() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite3":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.Driver == "sqlite3" && c.Database.URI == "" {
		return errors.New("DATABASE_URI is required for the sqlite3 driver")
	}
	if c.Session.Secret == "" {
		return errors.New("session secret must not be empty")
	}
	if c.IsProduction() && c.Session.Secret == defaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in production")
	}
	if c.Session.Duration <= 0 {
		return errors.New("SESSION_DURATION must be positive")
	}
	if c.Password.MinLength <= 0 || c.Password.MinLength > 72 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH must be between 1 and 72, got %d", c.Password.MinLength)
	}
	if c.API.PageSize <= 0 || c.API.MaxPageSize < c.API.PageSize {
		return fmt.Errorf("invalid page sizes: default %d, max %d", c.API.PageSize, c.API.MaxPageSize)
	}
	return nil
}

// DSN returns the connection string for the configured driver. A MySQL
// DATABASE_URI must carry parseTime=true for dates to scan.
func (d DatabaseConfig) DSN() string {
	if d.URI != "" {
		return d.URI
	}
	if d.Driver == "mysql" {
		cfg := mysql.NewConfig()
		cfg.User = d.User
		cfg.Passwd = d.Password
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
		cfg.DBName = d.DBName
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		return cfg.FormatDSN()
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Try parsing as duration string (e.g., "15m", "24h")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}
