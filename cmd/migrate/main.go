package main

import (
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/gdeapp/gde-backend/pkg/config"
	"github.com/gdeapp/gde-backend/pkg/logger"
)

// Aplica las migraciones pendientes de ./migrations contra la base configurada.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	sqlDB, err := goose.OpenDBWithDriver("postgres", cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir conexión para migraciones")
	}
	defer func() { _ = sqlDB.Close() }()

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	log.Info().Msg("migraciones aplicadas")
}
