package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Medium backends.
const (
	BackendMem    = "mem"
	BackendFile   = "file"
	BackendPebble = "pebble"
)

// Config is the top-level configuration loaded from file/env/flags.
type Config struct {
	// Backend selects the medium driver: mem, file or pebble.
	Backend string `json:"backend"`
	// ImagePath is the image file for the file backend.
	ImagePath string `json:"imagePath"`
	// DataDir is the database directory for the pebble backend.
	DataDir string `json:"dataDir"`

	// Ring geometry.
	Slots       int    `json:"slots"`
	SlotSize    int    `json:"slotSize"`
	BaseAddress uint32 `json:"baseAddress"`
	// Fill is the erased-cell value for fresh media.
	Fill byte `json:"fill"`

	HTTPAddr string `json:"httpAddr"`
	// PollIntervalMs is the writer polling period in milliseconds.
	PollIntervalMs int `json:"pollIntervalMs"`

	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Backend:        BackendFile,
		ImagePath:      "eelog.img",
		Slots:          16,
		SlotSize:       16,
		HTTPAddr:       ":8080",
		PollIntervalMs: 1,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the parts the core cannot check itself.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMem:
	case BackendFile:
		if c.ImagePath == "" {
			return fmt.Errorf("config: file backend requires imagePath")
		}
	case BackendPebble:
		if c.DataDir == "" {
			return fmt.Errorf("config: pebble backend requires dataDir")
		}
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.PollIntervalMs < 0 {
		return fmt.Errorf("config: pollIntervalMs must not be negative")
	}
	return nil
}
