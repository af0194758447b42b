package config

import "time"

// Config holds runtime settings for the gophtasks terminal client.
type Config struct {
	ServerURL           string
	DBPath              string
	SyncWindow          time.Duration
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3000"
	c.DBPath = "gophtasks.db"
	c.SyncWindow = 2000 * time.Millisecond
	c.OnlineCheckInterval = 5 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig applies defaults, then the optional JSON file, then flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
