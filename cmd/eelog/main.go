package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	serverrun "github.com/rzbill/eelog/internal/cmd/server"
	cfgpkg "github.com/rzbill/eelog/internal/config"
	"github.com/rzbill/eelog/internal/recfilter"
	"github.com/rzbill/eelog/internal/ringlog"
	logpkg "github.com/rzbill/eelog/pkg/log"
)

type rootFlags struct {
	configPath string
	backend    string
	imagePath  string
	dataDir    string
	slots      int
	slotSize   int
	base       uint32
	pollMs     int
	httpAddr   string
}

// loadConfig layers defaults, config file, env and flags, in that order.
func (f *rootFlags) loadConfig(cmd *cobra.Command) (cfgpkg.Config, error) {
	cfg, err := cfgpkg.Load(f.configPath)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	cfgpkg.FromEnv(&cfg)
	if cmd.Flags().Changed("backend") {
		cfg.Backend = f.backend
	}
	if cmd.Flags().Changed("image") {
		cfg.ImagePath = f.imagePath
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if cmd.Flags().Changed("slots") {
		cfg.Slots = f.slots
	}
	if cmd.Flags().Changed("slot-size") {
		cfg.SlotSize = f.slotSize
	}
	if cmd.Flags().Changed("base") {
		cfg.BaseAddress = f.base
	}
	if cmd.Flags().Changed("poll-ms") {
		cfg.PollIntervalMs = f.pollMs
	}
	if cmd.Flags().Changed("http-addr") {
		cfg.HTTPAddr = f.httpAddr
	}
	if err := cfg.Validate(); err != nil {
		return cfgpkg.Config{}, err
	}
	return cfg, nil
}

// openLog opens the configured medium and recovers the ring state.
func openLog(cfg cfgpkg.Config) (*ringlog.Log, func() error, error) {
	m, closer, err := serverrun.OpenMedium(cfg)
	if err != nil {
		return nil, nil, err
	}
	l, err := ringlog.Open(m, ringlog.Options{Slots: cfg.Slots, SlotSize: cfg.SlotSize, Base: cfg.BaseAddress})
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return l, closer.Close, nil
}

func main() {
	level := os.Getenv("EELOG_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
	logpkg.RedirectStdLog(logger)

	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "eelog",
		Short: "eelog ring log CLI",
		Long:  "eelog manages an EEPROM-style ring of fixed-size records: recovery, traversal, appends and an HTTP surface.",
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to JSON config file")
	pf.StringVar(&flags.backend, "backend", cfgpkg.BackendFile, "medium backend: mem|file|pebble")
	pf.StringVar(&flags.imagePath, "image", "eelog.img", "image file for the file backend")
	pf.StringVar(&flags.dataDir, "data-dir", "", "database directory for the pebble backend")
	pf.IntVar(&flags.slots, "slots", 16, "ring slots N (2..255)")
	pf.IntVar(&flags.slotSize, "slot-size", 16, "slot size S in bytes (2..255)")
	pf.Uint32Var(&flags.base, "base", 0, "base address of slot 0")
	pf.IntVar(&flags.pollMs, "poll-ms", 1, "writer polling period in milliseconds")
	pf.StringVar(&flags.httpAddr, "http-addr", ":8080", "HTTP listen address for serve")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Recover and print the ring state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			l, closeFn, err := openLog(cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			fmt.Printf("slots:        %d\n", l.Slots())
			fmt.Printf("slot size:    %d\n", l.SlotSize())
			fmt.Printf("base address: %d\n", l.Base())
			fmt.Printf("write cursor: %d\n", l.WriteCursor())
			fmt.Printf("read cursor:  %d\n", l.ReadCursor())
			fmt.Printf("generation:   %d\n", l.Generation())
			return nil
		},
	}
	rootCmd.AddCommand(scanCmd)

	var dumpReverse bool
	var dumpFilter string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the readable window, oldest record first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			filter, err := recfilter.New(dumpFilter)
			if err != nil {
				return fmt.Errorf("bad --filter: %w", err)
			}
			l, closeFn, err := openLog(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			dst := make([]byte, l.SlotSize())
			emit := func() {
				if filter.Eval(l.ReadCursor(), dst) {
					fmt.Printf("%3d  %s\n", l.ReadCursor(), hex.EncodeToString(dst))
				}
			}
			if dumpReverse {
				l.ReadLast(dst)
				emit()
				for l.ReadPrev(dst) {
					emit()
				}
				return nil
			}
			l.ReadFirst(dst)
			emit()
			for l.ReadNext(dst) {
				emit()
			}
			return nil
		},
	}
	dumpCmd.Flags().BoolVar(&dumpReverse, "reverse", false, "newest record first")
	dumpCmd.Flags().StringVar(&dumpFilter, "filter", "", "CEL filter over index/size/text/hex/byte0")
	rootCmd.AddCommand(dumpCmd)

	var appendHex bool
	appendCmd := &cobra.Command{
		Use:   "append <payload>",
		Short: "Append one record, polling the writer to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			raw := []byte(args[0])
			if appendHex {
				raw, err = hex.DecodeString(args[0])
				if err != nil {
					return fmt.Errorf("bad hex payload: %w", err)
				}
			}
			l, closeFn, err := openLog(cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			if len(raw) > l.SlotSize() {
				return fmt.Errorf("payload is %d bytes, slot holds %d", len(raw), l.SlotSize())
			}
			payload := make([]byte, l.SlotSize())
			copy(payload, raw)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			poll := time.Duration(cfg.PollIntervalMs) * time.Millisecond
			if err := l.AppendBlocking(ctx, payload, poll); err != nil {
				return err
			}
			logger.Info("record appended",
				logpkg.Int("write_cursor", l.WriteCursor()),
				logpkg.Int("generation", l.Generation()),
			)
			return nil
		},
	}
	appendCmd.Flags().BoolVar(&appendHex, "hex", false, "payload argument is hex encoded")
	rootCmd.AddCommand(appendCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the log over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			return serverrun.Run(cmd.Context(), serverrun.Options{Config: cfg, Logger: logger})
		},
	}
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", logpkg.Err(err))
		os.Exit(1)
	}
}
