package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// unset clears key for the duration of the test and restores it afterwards.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoadFrom_ReadsDotEnvAndIgnoresNoise(t *testing.T) {
	unset(t, "APP_ENV", "DB_PATH", "PORT", "REPORT_CACHE_TTL", "SEED_DEMO_DATA")

	path := writeDotEnv(t, `
# comment

APP_ENV=production
export DB_PATH=/var/lib/sillones.db
PORT="9090"
REPORT_CACHE_TTL=5m
SEED_DEMO_DATA='true'
`)

	cfg := LoadFrom(path)

	if cfg.Env != "production" {
		t.Fatalf("Env=%q, want %q", cfg.Env, "production")
	}
	if cfg.DBPath != "/var/lib/sillones.db" {
		t.Fatalf("DBPath=%q, want %q", cfg.DBPath, "/var/lib/sillones.db")
	}
	if cfg.Port != "9090" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "9090")
	}
	if cfg.ReportCacheTTL != 5*time.Minute {
		t.Fatalf("ReportCacheTTL=%v, want %v", cfg.ReportCacheTTL, 5*time.Minute)
	}
	if !cfg.SeedDemoData {
		t.Fatalf("expected SeedDemoData to be true")
	}
	if cfg.IsDev() {
		t.Fatalf("production config should not be dev")
	}
}

func TestLoadFrom_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("PORT", "7000")

	path := writeDotEnv(t, "PORT=fromfile\n")

	cfg := LoadFrom(path)
	if cfg.Port != "7000" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "7000")
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	unset(t, "APP_ENV", "DB_PATH", "PORT", "LOG_LEVEL", "REDIS_URL", "REPORT_CACHE_TTL", "AUTO_MIGRATE", "SEED_DEMO_DATA", "SHUTDOWN_TIMEOUT")

	cfg := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.DBPath != defaultDBPath || cfg.Port != defaultPort || cfg.LogLevel != defaultLogLevel {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ReportCacheTTL != defaultReportCacheTTL || cfg.ShutdownTimeout != defaultShutdownTimeout {
		t.Fatalf("unexpected duration defaults: %+v", cfg)
	}
	if !cfg.AutoMigrate || cfg.SeedDemoData {
		t.Fatalf("unexpected bool defaults: %+v", cfg)
	}
	if !cfg.IsDev() {
		t.Fatalf("default environment should be dev")
	}
}

func TestLoadFrom_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("REPORT_CACHE_TTL", "soon")
	t.Setenv("AUTO_MIGRATE", "maybe")

	cfg := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.ReportCacheTTL != defaultReportCacheTTL {
		t.Fatalf("ReportCacheTTL=%v, want %v", cfg.ReportCacheTTL, defaultReportCacheTTL)
	}
	if !cfg.AutoMigrate {
		t.Fatalf("expected AutoMigrate default true")
	}
}
