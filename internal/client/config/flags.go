package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/tadpole/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string     store backend: memory, sqlite or postgres
//	-f string     SQLite database file
//	-d string     PostgreSQL DSN
//	-l string     log level
//	-m string     address of the /metrics listener
//	-t duration   session token lifetime
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// components do not interfere. Panics on parse errors.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-f", "-d", "-l", "-m", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "store backend (memory, sqlite, postgres)")
	fs.StringVar(&cfg.SQLitePath, "f", cfg.SQLitePath, "sqlite database file")
	fs.StringVar(&cfg.PostgresDSN, "d", cfg.PostgresDSN, "postgres DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listener address, empty to disable")
	fs.DurationVar(&cfg.SessionTTL, "t", cfg.SessionTTL, "session token lifetime")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
