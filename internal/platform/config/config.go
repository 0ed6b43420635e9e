package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	StorageMongo    = "mongo"
	StoragePostgres = "postgres"

	// DevJWTSecret signs tokens only when INSECURE_DEV_MODE is switched on
	// outside production.
	DevJWTSecret = "dev-secret"
)

// Config is built once at startup and passed to whatever needs it.
type Config struct {
	Port        string
	Environment string

	JWTSecret       []byte
	JWTExp          time.Duration
	InsecureDevMode bool

	StorageDriver string
	MongoURL      string
	MongoDatabase string
	PostgresURL   string

	CORSAllowedOrigins []string
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		Environment:        getEnv("APP_ENV", EnvDevelopment),
		JWTExp:             time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 7*24)) * time.Hour,
		InsecureDevMode:    getEnvAsBool("INSECURE_DEV_MODE", false),
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageMongo)),
		MongoURL:           getEnv("MONGO_URL", "mongodb://127.0.0.1:27017/mestodb"),
		MongoDatabase:      getEnv("MONGO_DB", ""),
		PostgresURL:        getEnv("DATABASE_URL", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	secret, err := resolveJWTSecret(cfg, getEnv("JWT_SECRET", ""))
	if err != nil {
		return nil, err
	}
	cfg.JWTSecret = secret

	switch cfg.StorageDriver {
	case StorageMongo:
	case StoragePostgres:
		if cfg.PostgresURL == "" {
			return nil, errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return nil, errors.New("STORAGE_DRIVER must be one of: mongo, postgres")
	}

	return cfg, nil
}

// resolveJWTSecret never falls back to the development secret silently: it
// requires the explicit insecure flag, and production refuses the flag.
func resolveJWTSecret(cfg *Config, secret string) ([]byte, error) {
	if cfg.IsProduction() {
		if cfg.InsecureDevMode {
			return nil, errors.New("INSECURE_DEV_MODE cannot be enabled when APP_ENV=production")
		}
		if secret == "" {
			return nil, errors.New("JWT_SECRET is required when APP_ENV=production")
		}
		return []byte(secret), nil
	}
	if secret != "" {
		return []byte(secret), nil
	}
	if !cfg.InsecureDevMode {
		return nil, errors.New("JWT_SECRET is not set; set INSECURE_DEV_MODE=true to use the built-in development secret")
	}
	log.Println("WARN: INSECURE_DEV_MODE is on, tokens are signed with the built-in development secret")
	return []byte(DevJWTSecret), nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
