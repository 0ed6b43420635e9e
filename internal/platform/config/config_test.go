package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{
		"PORT", "APP_ENV", "JWT_SECRET", "INSECURE_DEV_MODE", "JWT_EXPIRATION_HOURS",
		"STORAGE_DRIVER", "MONGO_URL", "MONGO_DB", "DATABASE_URL", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, env[key])
	}
}

func TestLoadDefaultsWithExplicitSecret(t *testing.T) {
	setEnv(t, map[string]string{"JWT_SECRET": "s3cret"})
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExp)
	assert.False(t, cfg.InsecureDevMode)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StorageMongo, cfg.StorageDriver)
	assert.Equal(t, "mongodb://127.0.0.1:27017/mestodb", cfg.MongoURL)
}

func TestLoadRequiresSecretOrInsecureFlag(t *testing.T) {
	setEnv(t, map[string]string{"APP_ENV": EnvDevelopment, "STORAGE_DRIVER": StorageMongo})
	_, err := Load()
	assert.Error(t, err)

	setEnv(t, map[string]string{"APP_ENV": EnvDevelopment, "STORAGE_DRIVER": StorageMongo, "INSECURE_DEV_MODE": "true"})
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []byte(DevJWTSecret), cfg.JWTSecret)
}

func TestLoadProductionRules(t *testing.T) {
	setEnv(t, map[string]string{"APP_ENV": EnvProduction, "STORAGE_DRIVER": StorageMongo})
	_, err := Load()
	assert.Error(t, err, "production without JWT_SECRET")

	setEnv(t, map[string]string{"APP_ENV": EnvProduction, "STORAGE_DRIVER": StorageMongo, "JWT_SECRET": "x", "INSECURE_DEV_MODE": "true"})
	_, err = Load()
	assert.Error(t, err, "production refuses the insecure flag")

	setEnv(t, map[string]string{"APP_ENV": EnvProduction, "STORAGE_DRIVER": StorageMongo, "JWT_SECRET": "prod"})
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []byte("prod"), cfg.JWTSecret)
}

func TestLoadStorageDriver(t *testing.T) {
	setEnv(t, map[string]string{"JWT_SECRET": "x", "STORAGE_DRIVER": "postgres"})
	_, err := Load()
	assert.Error(t, err, "postgres needs DATABASE_URL")

	setEnv(t, map[string]string{"JWT_SECRET": "x", "STORAGE_DRIVER": "Postgres", "DATABASE_URL": "postgres://localhost/mesto"})
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)

	setEnv(t, map[string]string{"JWT_SECRET": "x", "STORAGE_DRIVER": "redis"})
	_, err = Load()
	assert.Error(t, err)
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvAsList("CORS_ALLOWED_ORIGINS", nil))
}
