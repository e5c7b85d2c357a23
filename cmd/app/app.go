package main

import (
	"os"

	"github.com/platedepot/catalog-sync/internal/app"
	config "github.com/platedepot/catalog-sync/internal/cfg"
	"github.com/platedepot/catalog-sync/pkg/logger"
)

//	@title			Catalog Sync API
//	@version		1.0
//	@description	Синхронизация локального каталога с зеркалом Stripe

//	@host		localhost:8080
//	@BasePath	/api/v1
func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
