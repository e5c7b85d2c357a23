package http

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/platedepot/catalog-sync/docs" // Импорт сгенерированных файлов
	"github.com/platedepot/catalog-sync/internal/usecase"
	"github.com/platedepot/catalog-sync/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(syncUC usecase.SyncUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		syncHandler := NewSyncHandler(syncUC, r.logger)
		registerSyncRoutes(v1, syncHandler)
	})
}

func registerSyncRoutes(router chi.Router, syncHandler *SyncHandler) {
	router.Route("/sync", func(sr chi.Router) {
		sr.Post("/", syncHandler.runSync)
		sr.Get("/health", syncHandler.healthCheck)
		sr.Get("/report", syncHandler.lastReport)
		sr.Post("/products/{id}", syncHandler.reconcileProduct)
	})
}
