package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"go-media-library/database/migrations"
	"go-media-library/internal/api"
	"go-media-library/internal/config"
	"go-media-library/internal/database"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	if err := database.Initialize(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	if err := migrations.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	api.SetupRoutes(router)

	log.Info().Str("port", cfg.Server.Port).Str("storage", cfg.Storage.Provider).Msg("starting media library API")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
