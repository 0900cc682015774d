// Package config loads runtime configuration for the tadpole client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables prefixed with TADPOLE_ (see parseEnv), optionally
//     backed by a dotenv file selected via -env.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string     store backend: memory, sqlite or postgres
//	-f string     SQLite database file
//	-d string     PostgreSQL DSN
//	-l string     log level
//	-m string     metrics listener address
//	-t duration   session token lifetime
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "12h"
// or integer nanoseconds. Zero or missing values keep the earlier setting:
//
//	{
//	  "store_backend": "sqlite",
//	  "sqlite_path": "/var/lib/tadpole/tadpole.db",
//	  "admin_id": 1,
//	  "admin_login": "admin",
//	  "session_ttl": "12h",
//	  "log_level": "debug",
//	  "log_format": "json",
//	  "metrics_addr": "127.0.0.1:9464",
//	  "queue_size": 32
//	}
//
// # Environment
//
//	TADPOLE_STORE, TADPOLE_SQLITE_PATH, TADPOLE_POSTGRES_DSN,
//	TADPOLE_ADMIN_ID, TADPOLE_ADMIN_LOGIN, TADPOLE_ADMIN_CREDENTIAL,
//	TADPOLE_SESSION_SECRET, TADPOLE_SESSION_TTL, TADPOLE_LOG_LEVEL,
//	TADPOLE_LOG_FORMAT, TADPOLE_METRICS_ADDR, TADPOLE_QUEUE_SIZE
package config
