package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MAX_TOKENS", "1500")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 1500, cfg.OpenAI.MaxTokens)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MINIO_BUCKET", "")
	t.Setenv("MINIO_REGION", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("OPENAI_BASE_URL", "")

	cfg := Load()

	assert.Equal(t, "scans", cfg.MinIO.Bucket)
	assert.Equal(t, "us-east-1", cfg.MinIO.Region)
	assert.Equal(t, "gpt-4.1-2025-04-14", cfg.OpenAI.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, 900, cfg.MinIO.PresignExpirySec)
}

func TestValidate(t *testing.T) {
	valid := AppConfig{
		Database: DatabaseConfig{Host: "db", User: "u", Name: "scans"},
		MinIO:    MinIOConfig{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "s"},
	}
	assert.NoError(t, valid.Validate())

	missingDB := valid
	missingDB.Database.Host = ""
	assert.ErrorContains(t, missingDB.Validate(), "database host")

	missingStore := valid
	missingStore.MinIO = MinIOConfig{}
	err := missingStore.Validate()
	assert.ErrorContains(t, err, "minio endpoint is required")
	assert.ErrorContains(t, err, "minio credentials are required")

	// The API key is deliberately not part of startup validation.
	assert.Empty(t, valid.OpenAI.APIKey)
}

func TestLocation(t *testing.T) {
	cfg := AppConfig{Timezone: "Asia/Jakarta"}
	assert.Equal(t, "Asia/Jakarta", cfg.Location().String())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
