package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// Config keeps runtime settings for the service.
type Config struct {
	HTTPAddr           string
	Storage            string
	DatabaseURL        string
	StorageDir         string
	DefaultUser        string
	MinEstimateMinutes int
	MaxEstimateMinutes int
	RejectOverlap      bool
	ReloadInterval     time.Duration
	ReportTime         string
	TelegramToken      string
	TelegramChatID     int64
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		Storage:            strings.ToLower(getenv("STORAGE", StorageSQLite)),
		DatabaseURL:        getenv("DATABASE_URL", "taskflow.db"),
		StorageDir:         getenv("STORAGE_DIR", "."),
		DefaultUser:        getenv("DEFAULT_USER", "local"),
		MinEstimateMinutes: parseInt(getenv("MIN_ESTIMATE_MINUTES", ""), 5),
		MaxEstimateMinutes: parseInt(getenv("MAX_ESTIMATE_MINUTES", ""), 480),
		RejectOverlap:      parseBool(getenv("REJECT_OVERLAP", "")),
		ReloadInterval:     parseMinutes(getenv("RELOAD_INTERVAL_MINUTES", "")),
		ReportTime:         getenv("REPORT_TIME", "18:00"),
		TelegramToken:      getenv("TELEGRAM_TOKEN", ""),
		TelegramChatID:     parseInt64(getenv("TELEGRAM_CHAT_ID", "")),
	}

	if cfg.Storage != StorageSQLite && cfg.Storage != StorageFile {
		return cfg, fmt.Errorf("STORAGE must be %q or %q, got %q", StorageSQLite, StorageFile, cfg.Storage)
	}
	if cfg.MinEstimateMinutes <= 0 || cfg.MaxEstimateMinutes < cfg.MinEstimateMinutes {
		return cfg, fmt.Errorf("estimate bounds %d..%d are not usable", cfg.MinEstimateMinutes, cfg.MaxEstimateMinutes)
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func parseInt64(raw string) int64 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseBool(raw string) bool {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return b
}

func parseMinutes(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
