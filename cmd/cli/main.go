package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/tadpole/internal/buildinfo"
	"github.com/dmitrijs2005/tadpole/internal/client/cli"
	"github.com/dmitrijs2005/tadpole/internal/client/config"
	"github.com/dmitrijs2005/tadpole/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if err := cli.Start(ctx, cfg, os.Stdin, os.Stdout, logger); err != nil {
		log.Fatalf("%v", err)
	}

}
