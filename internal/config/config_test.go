package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/obsion/internal/storage"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.QuotaBytes != storage.DefaultQuotaBytes || cfg.ReminderBuffer != 64 || cfg.WatchBuffer != 32 {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if cfg.WatchInterval != 500*time.Millisecond {
		t.Fatalf("unexpected watch interval: %v", cfg.WatchInterval)
	}
	if !strings.HasSuffix(cfg.DataPath, "obsion.db") {
		t.Fatalf("unexpected data path default: %q", cfg.DataPath)
	}
	if cfg.LogFile != "" || cfg.DesktopNotifications {
		t.Fatalf("logging to file and desktop notifications should be off by default: %+v", cfg)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("OBSION_DATA_PATH", "data/custom.db")
	t.Setenv("OBSION_QUOTA_BYTES", "1024")
	t.Setenv("OBSION_WATCH_INTERVAL_MS", "250")
	t.Setenv("OBSION_REMINDER_BUFFER", "128")
	t.Setenv("OBSION_DESKTOP_NOTIFICATIONS", "yes")
	t.Setenv("OBSION_LOG_FILE", "obsion.log")
	t.Setenv("OBSION_LOG_LEVEL", "DEBUG")
	t.Setenv("OBSION_MARKDOWN_STYLE", "light")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DataPath != "data/custom.db" || cfg.QuotaBytes != 1024 {
		t.Fatalf("unexpected storage overrides: %+v", cfg)
	}
	if cfg.WatchInterval != 250*time.Millisecond || cfg.ReminderBuffer != 128 {
		t.Fatalf("unexpected runtime overrides: %+v", cfg)
	}
	if !cfg.DesktopNotifications || cfg.LogFile != "obsion.log" || cfg.LogLevel != "debug" || cfg.MarkdownStyle != "light" {
		t.Fatalf("unexpected ambient overrides: %+v", cfg)
	}
}

func TestRuntimeConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("OBSION_WATCH_INTERVAL_MS", "soon")
	t.Setenv("OBSION_REMINDER_BUFFER", "-4")
	t.Setenv("OBSION_DESKTOP_NOTIFICATIONS", "maybe")

	base := DefaultRuntimeConfig()
	cfg := RuntimeConfigFromEnv(base)
	if cfg.WatchInterval != base.WatchInterval || cfg.ReminderBuffer != base.ReminderBuffer || cfg.DesktopNotifications {
		t.Fatalf("malformed values should keep defaults: %+v", cfg)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("OBSION_DATA_PATH=from-file.db\nOBSION_LOG_FORMAT=console\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// Registered so the variables godotenv sets are restored after the test.
	t.Setenv("OBSION_DATA_PATH", "")
	t.Setenv("OBSION_LOG_FORMAT", "")
	os.Unsetenv("OBSION_DATA_PATH")
	os.Unsetenv("OBSION_LOG_FORMAT")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataPath != "from-file.db" || cfg.LogFormat != "console" {
		t.Fatalf("expected values from env file, got %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestValidateRejectsUnknownLogFormat(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}
