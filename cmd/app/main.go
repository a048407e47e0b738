package main

import (
	"cowork/config"
	"cowork/di"
	"cowork/helper"
	"cowork/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Cowork API
// @version 1.0
// @description Room catalog, bookings with payments and the admin dashboard of a coworking space.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.Setup(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	if err := di.InitializeService().Serve(); err != nil {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}
}
