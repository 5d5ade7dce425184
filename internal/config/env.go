package config

import (
	"os"
	"strconv"
)

// FromEnv overlays EELOG_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("EELOG_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("EELOG_IMAGE_PATH"); v != "" {
		cfg.ImagePath = v
	}
	if v := os.Getenv("EELOG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("EELOG_SLOTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Slots = n
		}
	}
	if v := os.Getenv("EELOG_SLOT_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SlotSize = n
		}
	}
	if v := os.Getenv("EELOG_BASE_ADDRESS"); v != "" {
		if n, err := strconv.ParseUint(v, 0, 32); err == nil {
			cfg.BaseAddress = uint32(n)
		}
	}
	if v := os.Getenv("EELOG_FILL"); v != "" {
		if n, err := strconv.ParseUint(v, 0, 8); err == nil {
			cfg.Fill = byte(n)
		}
	}
	if v := os.Getenv("EELOG_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("EELOG_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PollIntervalMs = n
		}
	}
	if v := os.Getenv("EELOG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("EELOG_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
