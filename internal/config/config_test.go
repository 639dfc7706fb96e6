package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 6, cfg.API.PageSize)
	assert.Equal(t, "local", cfg.Media.Backend)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "api:\n  page_size: 12\nserver:\n  addr: \":9000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("FOODGRAM_SERVER__ADDR", ":9100")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/foodgram")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.API.PageSize)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "postgres://u:p@localhost:5432/foodgram", cfg.Database.DSN)
}

func TestValidate_ProdRequiresSecret(t *testing.T) {
	cfg := defaultConfig()
	cfg.AppEnv = "production"

	err := Validate(&cfg)
	assert.Error(t, err)

	cfg.Auth.JWTSecret = "a-real-secret"
	assert.NoError(t, Validate(&cfg))
}

func TestValidate_S3NeedsBucket(t *testing.T) {
	cfg := defaultConfig()
	cfg.Media.Backend = "s3"

	assert.Error(t, Validate(&cfg))

	cfg.Media.S3Bucket = "media"
	cfg.Media.S3Region = "eu-central-1"
	assert.NoError(t, Validate(&cfg))
}

func TestCORSOriginList(t *testing.T) {
	s := ServerConfig{CORSOrigins: " https://a.com, ,https://b.com"}
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, s.CORSOriginList())
}

func TestLoad_InternalFromEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("FOODGRAM_INTERNAL__SYNC_TOKEN", "sync-secret")
	t.Setenv("FOODGRAM_INTERNAL__ALLOWED_IPS", "10.0.0.1, 10.0.0.2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sync-secret", cfg.Internal.SyncToken)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Internal.AllowedIPList())
}
