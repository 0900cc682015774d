package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/tadpole/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the client reads.
const EnvPrefix = "TADPOLE_"

// parseEnv overlays Config with TADPOLE_* variables. A dotenv file given via
// -env supplies values for variables the process environment does not set.
// Panics on unreadable files and malformed numbers or durations.
func parseEnv(cfg *Config) {
	fileValues := map[string]string{}
	if path := flagx.EnvFileFlags(); path != "" {
		values, err := godotenv.Read(path)
		if err != nil {
			panic(err)
		}
		fileValues = values
	}

	lookup := func(name string) (string, bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			return v, true
		}
		v, ok := fileValues[EnvPrefix+name]
		return v, ok
	}

	if err := applyEnv(cfg, lookup); err != nil {
		panic(err)
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	str("STORE", &cfg.StoreBackend)
	str("SQLITE_PATH", &cfg.SQLitePath)
	str("POSTGRES_DSN", &cfg.PostgresDSN)
	str("ADMIN_LOGIN", &cfg.AdminLogin)
	str("ADMIN_CREDENTIAL", &cfg.AdminCredential)
	str("SESSION_SECRET", &cfg.SessionSecret)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("METRICS_ADDR", &cfg.MetricsAddr)

	if v, ok := lookup("ADMIN_ID"); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sADMIN_ID: %w", EnvPrefix, err)
		}
		cfg.AdminID = id
	}
	if v, ok := lookup("SESSION_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSESSION_TTL: %w", EnvPrefix, err)
		}
		cfg.SessionTTL = ttl
	}
	if v, ok := lookup("QUEUE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sQUEUE_SIZE: %w", EnvPrefix, err)
		}
		cfg.QueueSize = n
	}
	return nil
}
