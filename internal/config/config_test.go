package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SESSION_SECRET", "secret")

	cfg := Load()

	if cfg.Port != "8090" || cfg.DBDriver != "sqlite" || cfg.StorageDriver != "local" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionExpiry != 336*time.Hour {
		t.Errorf("SessionExpiry = %v", cfg.SessionExpiry)
	}
	if cfg.AuthRateLimit != 10 {
		t.Errorf("AuthRateLimit = %d", cfg.AuthRateLimit)
	}
	if cfg.AzureCVTimeout != 0 {
		t.Errorf("AzureCVTimeout = %v, want 0", cfg.AzureCVTimeout)
	}
	if cfg.S3Bucket != "" || cfg.S3PresignExpiry != 0 {
		t.Errorf("S3 settings loaded for local storage: %+v", cfg)
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Errorf("IsDevelopment/IsProduction wrong for %q", cfg.AppEnv)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("SESSION_EXPIRY", "1h")
	t.Setenv("AUTH_RATE_LIMIT", "not-a-number")
	t.Setenv("AZURE_CV_TIMEOUT", "5s")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_REGION", "eu-central-1")
	t.Setenv("S3_BUCKET", "images")
	t.Setenv("S3_ACCESS_KEY", "access")
	t.Setenv("S3_SECRET_KEY", "secret")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")

	cfg := Load()

	if cfg.SessionExpiry != time.Hour {
		t.Errorf("SessionExpiry = %v", cfg.SessionExpiry)
	}
	if cfg.AuthRateLimit != 10 {
		t.Errorf("invalid AUTH_RATE_LIMIT should fall back to default, got %d", cfg.AuthRateLimit)
	}
	if cfg.AzureCVTimeout != 5*time.Second {
		t.Errorf("AzureCVTimeout = %v", cfg.AzureCVTimeout)
	}
	if cfg.S3Bucket != "images" || !cfg.S3UsePathStyle || cfg.S3PresignExpiry != time.Hour {
		t.Errorf("S3 settings = %+v", cfg)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false")
	}
}

func TestSanitized(t *testing.T) {
	cfg := &Config{AppName: "Image Repo", AppEnv: "production", Port: "80", SessionSecret: "s", AzureCVKey: "k", DBConnection: "dsn"}

	safe := cfg.Sanitized()

	if safe.AppName != "Image Repo" || safe.AppEnv != "production" || safe.Port != "80" {
		t.Fatalf("public fields lost: %+v", safe)
	}
	if safe.SessionSecret != "" || safe.AzureCVKey != "" || safe.DBConnection != "" {
		t.Fatalf("secrets leaked: %+v", safe)
	}
}
