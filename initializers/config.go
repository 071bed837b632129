package initializers

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port      string
	DBDriver  string
	DBURL     string
	JWTSecret string

	AdminEmail    string
	AdminPassword string

	NivuspayBaseURL   string
	NivuspaySecretKey string
	NivuspayPublicKey string
	NivuspayTimeout   time.Duration

	S3Bucket    string
	CORSOrigins []string
}

var AppConfig Config

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadConfig reads the process configuration. Gateway credentials have no
// defaults and must come from the environment.
func LoadConfig() (Config, error) {
	timeout, err := time.ParseDuration(getEnv("NIVUSPAY_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid NIVUSPAY_TIMEOUT: %w", err)
	}

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		DBDriver:          getEnv("DB_DRIVER", "mysql"),
		DBURL:             os.Getenv("DB_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		NivuspayBaseURL:   getEnv("NIVUSPAY_BASE_URL", "https://api.nivuspay.com/api/v1"),
		NivuspaySecretKey: os.Getenv("NIVUSPAY_SECRET_KEY"),
		NivuspayPublicKey: os.Getenv("NIVUSPAY_PUBLIC_KEY"),
		NivuspayTimeout:   timeout,
		S3Bucket:          getEnv("S3_BUCKET", "kikomiilano"),
	}
	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if cfg.NivuspaySecretKey == "" || cfg.NivuspayPublicKey == "" {
		return Config{}, fmt.Errorf("nivuspay credentials are not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}
