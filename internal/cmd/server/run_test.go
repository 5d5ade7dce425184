package serverrun

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	cfgpkg "github.com/rzbill/eelog/internal/config"
)

func TestOpenMediumBackends(t *testing.T) {
	dir := t.TempDir()
	cases := []cfgpkg.Config{
		{Backend: cfgpkg.BackendMem, Slots: 4, SlotSize: 4},
		{Backend: cfgpkg.BackendFile, ImagePath: filepath.Join(dir, "img"), Slots: 4, SlotSize: 4},
		{Backend: cfgpkg.BackendPebble, DataDir: filepath.Join(dir, "db"), Slots: 4, SlotSize: 4},
	}
	for _, cfg := range cases {
		m, closer, err := OpenMedium(cfg)
		if err != nil {
			t.Fatalf("%s: %v", cfg.Backend, err)
		}
		if m == nil {
			t.Fatalf("%s: nil medium", cfg.Backend)
		}
		if err := closer.Close(); err != nil {
			t.Fatalf("%s close: %v", cfg.Backend, err)
		}
	}
	if _, _, err := OpenMedium(cfgpkg.Config{Backend: "flash"}); err == nil {
		t.Fatal("unknown backend accepted")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Backend = cfgpkg.BackendMem
	cfg.Slots = 4
	cfg.SlotSize = 4
	cfg.HTTPAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, Options{Config: cfg}) }()
	time.Sleep(200 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop on cancel")
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Backend = "flash"
	if err := Run(context.Background(), Options{Config: cfg}); err == nil {
		t.Fatal("bad config accepted")
	}
}
