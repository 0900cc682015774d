package config

import "time"

// Config holds runtime settings for the tadpole client.
//
// Units: SessionTTL is a time.Duration (e.g., 12*time.Hour).
type Config struct {
	// StoreBackend is one of "memory", "sqlite" or "postgres".
	StoreBackend string
	SQLitePath   string
	PostgresDSN  string

	// Seed administrator.
	AdminID         int64
	AdminLogin      string
	AdminCredential string

	// SessionSecret signs session tokens. Empty means a random per-process key.
	SessionSecret string
	SessionTTL    time.Duration

	LogLevel  string
	LogFormat string

	// MetricsAddr enables the Prometheus listener when non-empty.
	MetricsAddr string

	QueueSize int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreBackend = "memory"
	c.SQLitePath = "tadpole.db"
	c.PostgresDSN = ""
	c.AdminID = 1
	c.AdminLogin = "admin"
	c.AdminCredential = "admin123"
	c.SessionSecret = ""
	c.SessionTTL = 12 * time.Hour
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.MetricsAddr = ""
	c.QueueSize = 16
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
