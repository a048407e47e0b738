package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cowork/config"
	"cowork/di"
	"cowork/shared/logger"

	"github.com/rs/zerolog/log"
)

// The worker consumes booking lifecycle events until SIGINT or SIGTERM.
func main() {
	logger.Setup(config.Get())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("booking event worker starting")

	di.InitializeWorker().Run(ctx)

	log.Info().Msg("booking event worker stopped")
}
