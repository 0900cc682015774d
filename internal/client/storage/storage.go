// Package storage opens the configured directory store backend and applies
// the embedded schema migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/tadpole/internal/client/migrations"
	"github.com/dmitrijs2005/tadpole/internal/client/repositories/users"
	"github.com/dmitrijs2005/tadpole/internal/filex"
	"github.com/dmitrijs2005/tadpole/internal/logging"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Options selects and locates the backend.
type Options struct {
	Backend     string
	SQLitePath  string
	PostgresDSN string
}

// Store is an opened backend.
type Store struct {
	Users users.Repository

	db *sql.DB
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// RunMigrations applies the migrations of dialect ("sqlite" or "postgres").
func RunMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	defer goose.SetBaseFS(nil)

	gooseDialect := dialect
	if dialect == BackendSQLite {
		gooseDialect = "sqlite3"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, dialect)
}

// Open connects to the backend named by opts, migrates it and builds the
// users repository on top.
func Open(ctx context.Context, opts Options, log logging.Logger) (*Store, error) {
	log = log.With("module", "storage")

	switch strings.ToLower(opts.Backend) {
	case "", BackendMemory:
		log.Info(ctx, "using in-memory store")
		return &Store{Users: users.NewMemoryRepository()}, nil

	case BackendSQLite:
		dsn, err := filex.EnsureParentDir(opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite path: %w", err)
		}
		db, err := openAndMigrate(ctx, "sqlite", dsn, BackendSQLite)
		if err != nil {
			return nil, err
		}
		// a single writer avoids SQLITE_BUSY between pool connections
		db.SetMaxOpenConns(1)
		repo := users.NewSQLiteRepository(db)
		log.Info(ctx, "using sql store", "dialect", repo.Dialect(), "path", dsn)
		return &Store{Users: repo, db: db}, nil

	case BackendPostgres:
		db, err := openAndMigrate(ctx, "pgx", opts.PostgresDSN, BackendPostgres)
		if err != nil {
			return nil, err
		}
		repo := users.NewPostgresRepository(db)
		log.Info(ctx, "using sql store", "dialect", repo.Dialect())
		return &Store{Users: repo, db: db}, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}

func openAndMigrate(ctx context.Context, driver, dsn, dialect string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	return db, nil
}
