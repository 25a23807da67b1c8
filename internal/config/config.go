package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Local blob kinds
const (
	BlobMemory = "memory"
	BlobSQLite = "sqlite"
	BlobS3     = "s3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration, used by the remote store
	Database DatabaseConfig

	// Record store selection
	Store StoreConfig

	// Object storage for the s3 local blob
	S3 S3Config

	// Draft assistant configuration
	GenAI GenAIConfig

	// Session gate configuration
	Auth AuthConfig

	// Backup import configuration
	Import ImportConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver         string // "postgres" (lib/pq) or "pgx"
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// StoreConfig selects where records live
type StoreConfig struct {
	Backend           string
	LocalBlob         string
	SQLitePath        string
	ServicesPersisted bool
	SeedOnStart       bool
}

// S3Config holds bucket settings for the s3 local blob
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	Prefix          string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
}

// GenAIConfig holds draft assistant settings
type GenAIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// AuthConfig holds the admin credential pair and session lifetime
type AuthConfig struct {
	Username   string
	Password   string
	SessionTTL time.Duration
}

// ImportConfig holds backup import settings
type ImportConfig struct {
	MaxUploadSize int64 // in bytes
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Driver:         getEnv("DB_DRIVER", "postgres"),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "agency_admin"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Store: StoreConfig{
			Backend:           getEnv("STORE_BACKEND", BackendLocal),
			LocalBlob:         getEnv("LOCAL_BLOB", BlobSQLite),
			SQLitePath:        getEnv("SQLITE_PATH", "./data/admin.db"),
			ServicesPersisted: getBoolEnv("SERVICES_PERSISTED", false),
			SeedOnStart:       getBoolEnv("SEED_ON_START", true),
		},
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Prefix:          getEnv("S3_PREFIX", ""),
			PathStyle:       getBoolEnv("S3_PATH_STYLE", false),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
		GenAI: GenAIConfig{
			APIKey:  getEnv("GENAI_API_KEY", ""),
			Model:   getEnv("GENAI_MODEL", "gemini-2.5-flash"),
			Timeout: getDurationEnv("GENAI_TIMEOUT", 60*time.Second),
		},
		Auth: AuthConfig{
			Username:   getEnv("ADMIN_USERNAME", "admin"),
			Password:   getEnv("ADMIN_PASSWORD", "password123"),
			SessionTTL: getDurationEnv("SESSION_TTL", 0),
		},
		Import: ImportConfig{
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendRemote:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
		if c.Database.Driver != "postgres" && c.Database.Driver != "pgx" {
			return fmt.Errorf("DB_DRIVER must be postgres or pgx, got %q", c.Database.Driver)
		}
	case BackendLocal:
		switch c.Store.LocalBlob {
		case BlobMemory:
		case BlobSQLite:
			if c.Store.SQLitePath == "" {
				return fmt.Errorf("SQLITE_PATH is required")
			}
		case BlobS3:
			if c.S3.Bucket == "" {
				return fmt.Errorf("S3_BUCKET is required")
			}
		default:
			return fmt.Errorf("LOCAL_BLOB must be memory, sqlite or s3, got %q", c.Store.LocalBlob)
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be local or remote, got %q", c.Store.Backend)
	}

	if c.Auth.Username == "" || c.Auth.Password == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}
	if c.Auth.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string. Both drivers accept the keyword/value form.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
