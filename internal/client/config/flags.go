package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/flagx"
)

// parseFlags overlays cfg with the flags it knows; anything else in os.Args
// is filtered out first. Invalid values panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-w", "-i", "-t", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the sync server")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local database")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	window := fs.Int("w", int(cfg.SyncWindow.Milliseconds()), "sync quiet window (in milliseconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncWindow = time.Duration(*window) * time.Millisecond
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
