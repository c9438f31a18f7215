// Package config resolves runtime settings from defaults, an optional .env
// file and OBSION_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sandeepkv93/obsion/internal/storage"
)

type RuntimeConfig struct {
	DataPath             string
	QuotaBytes           int64
	WatchInterval        time.Duration
	WatchBuffer          int
	ReminderBuffer       int
	DesktopNotifications bool
	LogFile              string
	LogLevel             string
	LogFormat            string
	MarkdownStyle        string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DataPath:       defaultDataPath(),
		QuotaBytes:     storage.DefaultQuotaBytes,
		WatchInterval:  500 * time.Millisecond,
		WatchBuffer:    32,
		ReminderBuffer: 64,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

func defaultDataPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "obsion.db"
	}
	return filepath.Join(dir, "obsion", "obsion.db")
}

// Load reads envFile when it exists and then applies the environment on top
// of the defaults. An empty envFile skips the file.
func Load(envFile string) (RuntimeConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return RuntimeConfig{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("OBSION_DATA_PATH")); v != "" {
		cfg.DataPath = v
	}
	if v, ok := getEnvInt("OBSION_QUOTA_BYTES"); ok {
		cfg.QuotaBytes = int64(v)
	}
	if v, ok := getEnvInt("OBSION_WATCH_INTERVAL_MS"); ok && v > 0 {
		cfg.WatchInterval = time.Duration(v) * time.Millisecond
	}
	if v, ok := getEnvInt("OBSION_WATCH_BUFFER"); ok && v > 0 {
		cfg.WatchBuffer = v
	}
	if v, ok := getEnvInt("OBSION_REMINDER_BUFFER"); ok && v > 0 {
		cfg.ReminderBuffer = v
	}
	if v, ok := getEnvBool("OBSION_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := os.LookupEnv("OBSION_LOG_FILE"); ok {
		cfg.LogFile = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv("OBSION_LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("OBSION_LOG_FORMAT")); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("OBSION_MARKDOWN_STYLE")); v != "" {
		cfg.MarkdownStyle = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.New("config: data path is empty")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return nil
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
