package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/tadpole/internal/flagx"
	"github.com/dmitrijs2005/tadpole/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the session TTL either as
// a string like "12h" or as integer nanoseconds.
type JsonConfig struct {
	StoreBackend    string         `json:"store_backend"`
	SQLitePath      string         `json:"sqlite_path"`
	PostgresDSN     string         `json:"postgres_dsn"`
	AdminID         int64          `json:"admin_id"`
	AdminLogin      string         `json:"admin_login"`
	AdminCredential string         `json:"admin_credential"`
	SessionSecret   string         `json:"session_secret"`
	SessionTTL      timex.Duration `json:"session_ttl"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
	MetricsAddr     string         `json:"metrics_addr"`
	QueueSize       int            `json:"queue_size"`
}

// parseJson overlays Config with the non-zero values of the JSON file given
// via -c or -config. Without either flag nothing happens. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.SQLitePath, jc.SQLitePath)
	setString(&cfg.PostgresDSN, jc.PostgresDSN)
	if jc.AdminID != 0 {
		cfg.AdminID = jc.AdminID
	}
	setString(&cfg.AdminLogin, jc.AdminLogin)
	setString(&cfg.AdminCredential, jc.AdminCredential)
	setString(&cfg.SessionSecret, jc.SessionSecret)
	if jc.SessionTTL.Duration != 0 {
		cfg.SessionTTL = time.Duration(jc.SessionTTL.Duration)
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	if jc.QueueSize != 0 {
		cfg.QueueSize = jc.QueueSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
