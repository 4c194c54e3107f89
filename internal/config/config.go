package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DatabaseType selects the record store backend.
type DatabaseType string

const (
	DatabaseTypeSQLite   DatabaseType = "sqlite"
	DatabaseTypeMySQL    DatabaseType = "mysql"
	DatabaseTypePostgres DatabaseType = "postgres"
	DatabaseTypeMongo    DatabaseType = "mongo"
)

type DatabaseConfig struct {
	Type          DatabaseType
	Path          string // SQLite file, ":memory:" for throwaway runs
	PostgresURL   string
	MySQLDSN      string
	MongoURI      string
	MongoDatabase string
}

type StorageConfig struct {
	Path          string // root directory for uploaded blobs
	PublicBaseURL string // blobs resolve to PublicBaseURL + "/media/" + path
}

type AuthConfig struct {
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string // bcrypt; wins over AdminPassword when set
	JWTSecret         string
	TokenTTL          time.Duration
	APIKeys           []string
}

// Config holds all runtime settings of the service.
type Config struct {
	Env         string
	GRPCPort    string
	HTTPPort    string
	MetricsPort string

	Database DatabaseConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Cache    CacheConfig

	MaxUploadBytes    int64
	MaxImageWidth     int
	UploadConcurrency int64
	Placeholders      models.Placeholders
	SentryDSN         string
	TracingEnabled    bool
}

// CacheConfig controls the optional Redis cache in front of public reads.
type CacheConfig struct {
	RedisURL string // empty disables caching
	TTL      time.Duration
}

// IsDev reports whether the service runs outside production.
func (c *Config) IsDev() bool {
	return c.Env != "production"
}

// siteFile is the optional YAML file named by SITE_CONFIG.
type siteFile struct {
	Placeholders models.Placeholders `yaml:"placeholders"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Env:         GetEnvOrDefault("ENV", "development"),
		GRPCPort:    GetEnvOrDefault("GRPC_PORT", "50051"),
		HTTPPort:    GetEnvOrDefault("HTTP_PORT", "8080"),
		MetricsPort: GetEnvOrDefault("METRICS_PORT", "9090"),
		Database: DatabaseConfig{
			Type:          DatabaseType(strings.ToLower(GetEnvOrDefault("DB_TYPE", string(DatabaseTypeSQLite)))),
			Path:          GetEnvOrDefault("DB_PATH", "./data/trustsite.db"),
			PostgresURL:   os.Getenv("DATABASE_URL"),
			MySQLDSN:      os.Getenv("MYSQL_DSN"),
			MongoURI:      GetEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase: GetEnvOrDefault("MONGO_DATABASE", "trustsite"),
		},
		Storage: StorageConfig{
			Path:          GetEnvOrDefault("STORAGE_PATH", "./data/files"),
			PublicBaseURL: strings.TrimRight(GetEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		},
		Auth: AuthConfig{
			AdminUsername:     GetEnvOrDefault("ADMIN_USERNAME", "admin"),
			AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			JWTSecret:         os.Getenv("JWT_SECRET"),
			TokenTTL:          parseDurationOrDefault("JWT_TTL", 12*time.Hour),
			APIKeys:           splitList(os.Getenv("API_KEYS")),
		},
		Cache: CacheConfig{
			RedisURL: os.Getenv("REDIS_URL"),
			TTL:      parseDurationOrDefault("CACHE_TTL", time.Minute),
		},
		MaxUploadBytes:    int64(parseIntOrDefault("MAX_UPLOAD_BYTES", 10<<20)),
		MaxImageWidth:     parseIntOrDefault("MAX_IMAGE_WIDTH", 1600),
		UploadConcurrency: int64(parseIntOrDefault("UPLOAD_CONCURRENCY", 4)),
		Placeholders:      models.DefaultPlaceholders(),
		SentryDSN:         os.Getenv("SENTRY_DSN"),
		TracingEnabled:    parseBoolOrDefault("TRACING_ENABLED", false),
	}

	if path := os.Getenv("SITE_CONFIG"); path != "" {
		placeholders, err := LoadPlaceholders(path)
		if err != nil {
			return nil, err
		}
		cfg.Placeholders = placeholders
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Type {
	case DatabaseTypeSQLite, DatabaseTypeMongo:
	case DatabaseTypePostgres:
		if c.Database.PostgresURL == "" {
			return errors.New("DATABASE_URL is required when DB_TYPE=postgres")
		}
	case DatabaseTypeMySQL:
		if c.Database.MySQLDSN == "" {
			return errors.New("MYSQL_DSN is required when DB_TYPE=mysql")
		}
	default:
		return fmt.Errorf("unknown DB_TYPE %q", c.Database.Type)
	}

	if c.Auth.JWTSecret == "" {
		if !c.IsDev() {
			return errors.New("JWT_SECRET is required in production")
		}
		// Tokens from a development run do not survive a restart.
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate jwt secret: %w", err)
		}
		c.Auth.JWTSecret = hex.EncodeToString(secret)
	}
	if c.Auth.AdminPassword == "" && c.Auth.AdminPasswordHash == "" && !c.IsDev() {
		return errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required in production")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.UploadConcurrency <= 0 {
		return errors.New("UPLOAD_CONCURRENCY must be positive")
	}
	return nil
}

// LoadPlaceholders reads placeholder overrides from a YAML site file. Missing
// entries keep their defaults.
func LoadPlaceholders(path string) (models.Placeholders, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Placeholders{}, fmt.Errorf("read site config %s: %w", path, err)
	}

	var file siteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return models.Placeholders{}, fmt.Errorf("parse site config %s: %w", path, err)
	}
	return file.Placeholders.WithDefaults(), nil
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
