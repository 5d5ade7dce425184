// Package config provides loading and environment overlay for eelog
// configuration. It exposes a Default() baseline, JSON file loading and
// an EELOG_* env overlay.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/eelog.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil { ... }
package config
