// Package config loads runtime configuration for the gophtasks client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the sync server
//	-d string   path of the local sqlite database
//	-w int      sync quiet window (milliseconds)
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds)
//	-v string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so "2s" and integer nanoseconds both work.
// Missing keys keep their earlier value:
//
//	{
//	  "server_url": "https://tasks.example.com",
//	  "db_path": "/home/ana/.local/share/gophtasks/client.db",
//	  "sync_window": "2s",
//	  "online_check_interval": "5s",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
package config
