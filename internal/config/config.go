package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	SessionSecret string
	SessionExpiry time.Duration
	AuthRateLimit int // Sign-in/sign-up attempts per IP per 15 minutes

	// Storage ("local" or "s3")
	StorageDriver string
	MediaRoot     string // Local storage root directory

	// Storage - S3-compatible (MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services
	S3UsePathStyle  bool          // Required for MinIO and some S3-compatible services
	S3PresignExpiry time.Duration // Expiry for image download links

	// Azure Computer Vision (optional: uploads are stored without annotation when unset)
	AzureCVKey      string
	AzureCVEndpoint string
	AzureCVTimeout  time.Duration // 0 keeps the HTTP client default (no timeout)

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Image Repo"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/imagerepo.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),

		// Security
		SessionSecret: envRequired("SESSION_SECRET"),
		SessionExpiry: envDuration("SESSION_EXPIRY", 336*time.Hour), // 2 weeks
		AuthRateLimit: envInt("AUTH_RATE_LIMIT", 10),

		// Storage
		StorageDriver: envString("STORAGE_DRIVER", "local"),
		MediaRoot:     envString("MEDIA_ROOT", "./data/media"),

		// Vision
		AzureCVKey:      envString("AZURE_CV_KEY", ""),
		AzureCVEndpoint: envString("AZURE_CV_ENDPOINT", ""),
		AzureCVTimeout:  envDuration("AZURE_CV_TIMEOUT", 0),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// S3 settings are only required when S3 is the selected backend
	if cfg.StorageDriver == "s3" {
		cfg.S3Region = envRequired("S3_REGION")
		cfg.S3Bucket = envRequired("S3_BUCKET")
		cfg.S3AccessKey = envRequired("S3_ACCESS_KEY")
		cfg.S3SecretKey = envRequired("S3_SECRET_KEY")
		cfg.S3Endpoint = envString("S3_ENDPOINT", "")
		cfg.S3UsePathStyle = envBool("S3_USE_PATH_STYLE", cfg.S3Endpoint != "")
		cfg.S3PresignExpiry = envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour)
	}

	if cfg.AzureCVKey == "" || cfg.AzureCVEndpoint == "" {
		slog.Warn("azure computer vision not configured, uploads will not be annotated")
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		Port:    c.Port,
	}
}
