package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Backend != BackendFile || cfg.Slots != 16 || cfg.SlotSize != 16 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	body := `{"backend":"pebble","dataDir":"/tmp/db","slots":8,"slotSize":4,"baseAddress":64}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendPebble || cfg.DataDir != "/tmp/db" {
		t.Fatalf("backend not applied: %+v", cfg)
	}
	if cfg.Slots != 8 || cfg.SlotSize != 4 || cfg.BaseAddress != 64 {
		t.Fatalf("geometry not applied: %+v", cfg)
	}
	// Fields absent from the file keep their defaults.
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("default lost: %q", cfg.HTTPAddr)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("empty path should yield defaults: %+v", cfg)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("EELOG_BACKEND", "mem")
	t.Setenv("EELOG_SLOTS", "32")
	t.Setenv("EELOG_SLOT_SIZE", "8")
	t.Setenv("EELOG_BASE_ADDRESS", "0x40")
	t.Setenv("EELOG_FILL", "0xFF")
	t.Setenv("EELOG_HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("EELOG_LOG_LEVEL", "debug")

	cfg := Default()
	FromEnv(&cfg)
	if cfg.Backend != BackendMem || cfg.Slots != 32 || cfg.SlotSize != 8 {
		t.Fatalf("env overlay missed: %+v", cfg)
	}
	if cfg.BaseAddress != 0x40 || cfg.Fill != 0xFF {
		t.Fatalf("numeric parse missed: %+v", cfg)
	}
	if cfg.HTTPAddr != "127.0.0.1:9999" || cfg.LogLevel != "debug" {
		t.Fatalf("string overlay missed: %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	cfg := Default()
	cfg.Backend = "flash"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown backend accepted")
	}
	cfg = Default()
	cfg.Backend = BackendPebble
	cfg.DataDir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("pebble without dataDir accepted")
	}
	cfg = Default()
	cfg.ImagePath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("file backend without imagePath accepted")
	}
}
