package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/platedepot/catalog-sync/internal/usecase"
	"github.com/platedepot/catalog-sync/pkg/e"
	"github.com/platedepot/catalog-sync/pkg/logger"
)

type SyncHandler struct {
	syncUsecase usecase.SyncUC
	logger      logger.Logger
}

func NewSyncHandler(syncUsecase usecase.SyncUC, logger logger.Logger) *SyncHandler {
	return &SyncHandler{syncUsecase: syncUsecase, logger: logger}
}

// healthCheck
//
//	@Summary		Проверка предусловий синхронизации
//	@Description	Проверяет готовность локальной схемы и доступность Stripe без мутаций
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	usecase.HealthReport	"Предусловия выполнены"
//	@Success		503	{object}	usecase.HealthReport	"Предусловия не выполнены"
//	@Router			/sync/health [get]
func (s *SyncHandler) healthCheck(w http.ResponseWriter, r *http.Request) {
	report, err := s.syncUsecase.RunHealthCheck(r.Context())
	if err != nil {
		s.logger.Warnf("health check failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if !report.Ready() {
		status = http.StatusServiceUnavailable
	}

	WriteSuccess(w, status, report)
}

// runSync
//
//	@Summary		Полный проход синхронизации каталога
//	@Description	Реконсилирует весь локальный каталог с зеркалом Stripe
//	@Tags			sync
//	@Produce		json
//	@Param			force	query		bool					false	"Обновить все продукты независимо от расхождений"
//	@Success		200		{object}	usecase.SyncReport		"Отчёт о синхронизации"
//	@Failure		503		{object}	ErrorResponse			"Предусловия не выполнены"
//	@Router			/sync [post]
func (s *SyncHandler) runSync(w http.ResponseWriter, r *http.Request) {
	force := parseForceFlag(r)

	report, err := s.syncUsecase.RunSync(r.Context(), force)
	if err != nil {
		if errors.Is(err, e.ErrSyncNotReady) && report != nil {
			s.logger.Warnf("sync aborted: preconditions not met")
			WriteSuccess(w, http.StatusServiceUnavailable, report)
			return
		}

		s.logger.Warnf("sync failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, report)
}

// reconcileProduct
//
//	@Summary		Точечная реконсиляция продукта
//	@Description	Синхронизирует один продукт каталога с зеркалом Stripe
//	@Tags			sync
//	@Produce		json
//	@Param			id		path		int						true	"ID продукта"
//	@Param			force	query		bool					false	"Обновить независимо от расхождений"
//	@Success		200		{object}	usecase.SyncResult		"Результат реконсиляции"
//	@Failure		400		{object}	ErrorResponse			"Некорректный ID"
//	@Failure		404		{object}	ErrorResponse			"Продукт не найден"
//	@Failure		503		{object}	ErrorResponse			"Предусловия не выполнены"
//	@Router			/sync/products/{id} [post]
func (s *SyncHandler) reconcileProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(chi.URLParam(r, "id"))
	if err != nil {
		s.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrInvalidProductID.Error(), chi.URLParam(r, "id"))
		WriteError(w, err)
		return
	}

	force := parseForceFlag(r)

	result, err := s.syncUsecase.ReconcileProduct(r.Context(), id, force)
	if err != nil {
		s.logger.Warnf("reconcile product %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, result)
}

// lastReport
//
//	@Summary		Последний отчёт синхронизации
//	@Description	Возвращает отчёт последнего прохода из кэша
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	usecase.SyncReport	"Последний отчёт"
//	@Failure		404	{object}	ErrorResponse		"Отчёта ещё нет"
//	@Router			/sync/report [get]
func (s *SyncHandler) lastReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.syncUsecase.LastReport(r.Context())
	if err != nil {
		if !errors.Is(err, e.ErrNoSyncReport) {
			s.logger.Warnf("last report failed: %s", err.Error())
		}
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, report)
}
