package serverrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/run"

	cfgpkg "github.com/rzbill/eelog/internal/config"
	"github.com/rzbill/eelog/internal/medium/filemedium"
	"github.com/rzbill/eelog/internal/medium/memmedium"
	"github.com/rzbill/eelog/internal/medium/pebblemedium"
	"github.com/rzbill/eelog/internal/ringlog"
	httpserver "github.com/rzbill/eelog/internal/server/http"
	"github.com/rzbill/eelog/pkg/log"
)

// Options for one server run.
type Options struct {
	Config cfgpkg.Config
	Logger log.Logger
}

// OpenMedium builds the configured medium driver. The returned closer is
// a no-op for the memory backend.
func OpenMedium(cfg cfgpkg.Config) (ringlog.Medium, io.Closer, error) {
	size := int(cfg.BaseAddress) + cfg.Slots*cfg.SlotSize
	switch cfg.Backend {
	case cfgpkg.BackendMem:
		return memmedium.New(memmedium.Options{Size: size, Fill: cfg.Fill}), nopCloser{}, nil
	case cfgpkg.BackendFile:
		m, err := filemedium.Open(filemedium.Options{Path: cfg.ImagePath, Size: size, Fill: cfg.Fill})
		if err != nil {
			return nil, nil, err
		}
		return m, m, nil
	case cfgpkg.BackendPebble:
		m, err := pebblemedium.Open(pebblemedium.Options{
			DataDir: cfg.DataDir,
			Size:    size,
			Fill:    cfg.Fill,
			Fsync:   pebblemedium.FsyncModeAlways,
		})
		if err != nil {
			return nil, nil, err
		}
		return m, m, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Run opens the medium and log and serves HTTP until ctx is cancelled or
// a signal arrives.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewLogger()
	}

	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, closer, err := OpenMedium(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	l, err := ringlog.Open(m, ringlog.Options{Slots: cfg.Slots, SlotSize: cfg.SlotSize, Base: cfg.BaseAddress})
	if err != nil {
		return err
	}
	logger.Info("ring log recovered",
		log.Str("backend", cfg.Backend),
		log.Int("slots", l.Slots()),
		log.Int("slot_size", l.SlotSize()),
		log.Int("write_cursor", l.WriteCursor()),
		log.Int("generation", l.Generation()),
	)

	srv := httpserver.New(l, logger, time.Duration(cfg.PollIntervalMs)*time.Millisecond)

	var g run.Group
	g.Add(func() error {
		return srv.ListenAndServe(sctx, cfg.HTTPAddr)
	}, func(error) {
		srv.Close()
	})
	g.Add(func() error {
		<-sctx.Done()
		return sctx.Err()
	}, func(error) {
		stop()
	})
	err = g.Run()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
