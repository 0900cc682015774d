package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/tadpole/internal/client/config"
	"github.com/dmitrijs2005/tadpole/internal/client/metrics"
	"github.com/dmitrijs2005/tadpole/internal/client/services"
	"github.com/dmitrijs2005/tadpole/internal/client/storage"
	"github.com/dmitrijs2005/tadpole/internal/cryptox"
	"github.com/dmitrijs2005/tadpole/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// newHasher is swapped in tests for cheaper argon2 parameters.
var newHasher = func() *cryptox.Hasher {
	return cryptox.NewHasher(cryptox.DefaultParams)
}

// Start opens the configured store, seeds the administrator, starts the
// directory and session services and runs the REPL over in/out until the
// user exits or ctx is done. The optional metrics listener is stopped on
// return.
func Start(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log logging.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, err := storage.Open(ctx, storage.Options{
		Backend:     cfg.StoreBackend,
		SQLitePath:  cfg.SQLitePath,
		PostgresDSN: cfg.PostgresDSN,
	}, log)
	if err != nil {
		return fmt.Errorf("error opening store: %w", err)
	}
	defer store.Close()

	hasher := newHasher()
	seed := services.AdminSeed{
		ID:         cfg.AdminID,
		LoginName:  cfg.AdminLogin,
		Email:      services.DefaultAdminSeed.Email,
		Credential: []byte(cfg.AdminCredential),
	}
	if err := services.EnsureAdmin(ctx, store.Users, hasher, seed, log); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg, log); err != nil {
				log.Error(ctx, "metrics listener stopped", "error", err)
			}
		}()
	}

	dir := services.NewDirectoryService(store.Users, services.DirectoryOptions{
		Hasher:    hasher,
		Logger:    log,
		Metrics:   m,
		QueueSize: cfg.QueueSize,
	})
	defer dir.Close()

	if err := dir.Refresh(ctx); err != nil {
		return err
	}

	sess := services.NewSessionService(dir, services.SessionOptions{
		Secret:  []byte(cfg.SessionSecret),
		TTL:     cfg.SessionTTL,
		Hasher:  hasher,
		Logger:  log,
		Metrics: m,
	})

	app := NewApp(dir, sess, bufio.NewReader(in), out, log)
	app.Run(ctx)
	sess.Logout()
	return nil
}
