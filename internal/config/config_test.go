package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"ENV", "GRPC_PORT", "HTTP_PORT", "METRICS_PORT",
		"DB_TYPE", "DB_PATH", "DATABASE_URL", "MYSQL_DSN", "MONGO_URI", "MONGO_DATABASE",
		"STORAGE_PATH", "PUBLIC_BASE_URL",
		"ADMIN_USERNAME", "ADMIN_PASSWORD", "ADMIN_PASSWORD_HASH", "JWT_SECRET", "JWT_TTL", "API_KEYS",
		"REDIS_URL", "CACHE_TTL",
		"MAX_UPLOAD_BYTES", "MAX_IMAGE_WIDTH", "UPLOAD_CONCURRENCY",
		"SITE_CONFIG", "SENTRY_DSN", "TRACING_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.Equal(t, DatabaseTypeSQLite, cfg.Database.Type)
	assert.Equal(t, "http://localhost:8080", cfg.Storage.PublicBaseURL)
	assert.NotEmpty(t, cfg.Auth.JWTSecret, "dev runs get a random secret")
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, int64(4), cfg.UploadConcurrency)
	assert.Equal(t, models.DefaultPlaceholders(), cfg.Placeholders)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_TYPE", "MySQL")
	t.Setenv("MYSQL_DSN", "user:pass@tcp(db:3306)/trust")
	t.Setenv("PUBLIC_BASE_URL", "https://trust.example.org/")
	t.Setenv("API_KEYS", " a , b,,c ")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DatabaseTypeMySQL, cfg.Database.Type)
	assert.Equal(t, "https://trust.example.org", cfg.Storage.PublicBaseURL)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Auth.APIKeys)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, time.Minute, cfg.Cache.TTL, "bad values fall back to the default")
	assert.True(t, cfg.TracingEnabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown db", map[string]string{"DB_TYPE": "oracle"}},
		{"postgres without url", map[string]string{"DB_TYPE": "postgres"}},
		{"mysql without dsn", map[string]string{"DB_TYPE": "mysql"}},
		{"prod without secret", map[string]string{"ENV": "production", "ADMIN_PASSWORD": "x"}},
		{"prod without password", map[string]string{"ENV": "production", "JWT_SECRET": "s"}},
		{"zero upload cap", map[string]string{"MAX_UPLOAD_BYTES": "0"}},
		{"zero concurrency", map[string]string{"UPLOAD_CONCURRENCY": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadPlaceholders(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("placeholders:\n  memberPhoto: https://cdn.example.org/member.png\n"), 0o644))
	t.Setenv("SITE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.org/member.png", cfg.Placeholders.MemberPhoto)
	assert.Equal(t, models.DefaultEventImage, cfg.Placeholders.EventImage, "missing entries keep defaults")

	require.NoError(t, os.WriteFile(path, []byte("placeholders: [oops"), 0o644))
	_, err = LoadPlaceholders(path)
	assert.Error(t, err)

	_, err = LoadPlaceholders(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
