package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/platedepot/catalog-sync/internal/domain"
	"github.com/platedepot/catalog-sync/pkg/e"
	"github.com/platedepot/catalog-sync/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SyncUseCase реализует реконсиляцию локального каталога с его зеркалом
// в Stripe. Локальная запись — источник истины; зеркальные прайсы
// неизменяемы, расхождение по сумме всегда закрывается новым прайс-объектом.
type SyncUseCase struct {
	catalogRepo    CatalogRepository
	eventRepo      SyncEventRepository
	cacheRepo      ReportCacheRepository
	remote         RemoteCatalog
	dbPool         transaction.Transactional
	health         *HealthChecker
	logger         logger.Logger
	maxConcurrent  int
	productTimeout time.Duration
	currency       string
}

func NewSyncUC(
	catalogRepo CatalogRepository,
	eventRepo SyncEventRepository,
	cacheRepo ReportCacheRepository,
	remote RemoteCatalog,
	dbPool transaction.Transactional,
	health *HealthChecker,
	logger logger.Logger,
	maxConcurrent int,
	productTimeout time.Duration,
	currency string,
) *SyncUseCase {
	return &SyncUseCase{
		catalogRepo:    catalogRepo,
		eventRepo:      eventRepo,
		cacheRepo:      cacheRepo,
		remote:         remote,
		dbPool:         dbPool,
		health:         health,
		logger:         logger,
		maxConcurrent:  maxConcurrent,
		productTimeout: productTimeout,
		currency:       currency,
	}
}

// RunHealthCheck выполняет проверку предусловий. Только чтение, безопасно в любой момент.
func (s *SyncUseCase) RunHealthCheck(ctx context.Context) (*HealthReport, error) {
	return s.health.Check(ctx), nil
}

// RunSync прогоняет реконсиляцию по всему каталогу.
// При неготовности предусловий мутирующий проход не стартует: возвращается
// отчёт с проблемами и e.ErrSyncNotReady. Ошибки отдельных продуктов
// изолируются в их результатах и никогда не прерывают батч.
func (s *SyncUseCase) RunSync(ctx context.Context, force bool) (*SyncReport, error) {
	const op = "SyncUseCase.RunSync"

	startedAt := time.Now().UTC()

	health := s.health.Check(ctx)
	if !health.Ready() {
		s.logger.Warnf("%s: preconditions not met: %s", op, strings.Join(health.Issues, "; "))
		report := &SyncReport{
			RunID:      uuid.NewString(),
			StartedAt:  startedAt,
			FinishedAt: time.Now().UTC(),
			Forced:     force,
			NotReady:   true,
			Errors:     health.Issues,
			Results:    []SyncResult{},
		}
		return report, e.ErrSyncNotReady
	}

	products, err := s.catalogRepo.ListAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	detector := NewDriftDetector(health.DefaultTaxCode)
	results := s.reconcileBatch(ctx, products, detector, force)

	report := Summarize(results)
	report.RunID = uuid.NewString()
	report.StartedAt = startedAt
	report.FinishedAt = time.Now().UTC()
	report.Forced = force

	s.cacheReport(report)

	s.logger.Infof("sync run %s finished: processed=%d succeeded=%d failed=%d created=%d updated=%d reused=%d skipped=%d",
		report.RunID, report.Processed, report.Succeeded, report.Failed,
		report.Created, report.Updated, report.Reused, report.Skipped)

	return report, nil
}

// ReconcileProduct — точечная реконсиляция одного продукта без полного прохода.
func (s *SyncUseCase) ReconcileProduct(ctx context.Context, productID int64, force bool) (*SyncResult, error) {
	const op = "SyncUseCase.ReconcileProduct"

	health := s.health.Check(ctx)
	if !health.Ready() {
		return nil, e.ErrSyncNotReady
	}

	local, err := s.catalogRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	detector := NewDriftDetector(health.DefaultTaxCode)
	res := s.reconcileRecord(ctx, local, detector, force)

	// Закэшированный батч-отчёт устарел
	if err := s.cacheRepo.InvalidateReport(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warnf("%s: report cache invalidation failed: %v", op, err)
	}

	return &res, nil
}

// LastReport возвращает последний закэшированный отчёт о синхронизации.
func (s *SyncUseCase) LastReport(ctx context.Context) (*SyncReport, error) {
	const op = "SyncUseCase.LastReport"

	report, err := s.cacheRepo.GetReport(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if report == nil {
		return nil, e.ErrNoSyncReport
	}

	return report, nil
}

// reconcileBatch обрабатывает рабочее множество с ограниченной конкурентностью.
// Два воркера никогда не трогают одну запись; результаты пишутся в
// непересекающиеся индексы. Дедлайн вызывающего останавливает раздачу
// не начатых продуктов, начатые дорабатывают на отвязанном контексте,
// чтобы не оставить запись наполовину обновлённой.
func (s *SyncUseCase) reconcileBatch(ctx context.Context, products []domain.Product, detector *DriftDetector, force bool) []SyncResult {
	results := make([]SyncResult, len(products))

	sem := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup
	for i := range products {
		if ctx.Err() != nil {
			results[i] = deadlineResult(products[i].ID, ctx.Err())
			continue
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[i] = deadlineResult(products[i].ID, ctx.Err())
				return
			}

			prodCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.productTimeout)
			defer cancel()

			results[i] = s.reconcileRecord(prodCtx, &products[i], detector, force)
		}(i)
	}
	wg.Wait()

	return results
}

// reconcileRecord — граница изоляции ошибок: любая ошибка по одному продукту
// оседает в его результате, соседи продолжают обрабатываться.
func (s *SyncUseCase) reconcileRecord(ctx context.Context, local *domain.Product, detector *DriftDetector, force bool) SyncResult {
	res := SyncResult{ProductID: local.ID, Actions: []string{}, Success: true}

	remote, remotePrice, err := s.fetchRemoteState(ctx, local)
	if err != nil {
		return failResult(res, err)
	}

	drift := detector.Detect(local, remote, remotePrice)

	switch {
	case remote == nil:
		err = s.createRemote(ctx, local, detector, &res)
	case drift.Empty() && !force:
		res.Actions = append(res.Actions, ActionNoUpdates)
		// Зеркало читали — освежаем lastSyncedAt, свежесть наблюдаема и без правок.
		// Кэш суммы пишем из проверенного remotePrice: локальная копия могла устареть.
		priceCents := local.StripePriceCents
		if remotePrice != nil {
			priceCents = &remotePrice.AmountCents
		}
		err = s.persistSync(ctx, local.ID, local.StripeProductID, local.StripePriceID, priceCents, nil, false)
	default:
		err = s.correctRemote(ctx, local, remote, remotePrice, drift, detector, force, &res)
	}

	if err != nil {
		return failResult(res, err)
	}

	return res
}

// fetchRemoteState загружает текущее состояние зеркала по локальным указателям.
// NotFound не ошибка: удалённое извне зеркало пересоздаётся с нуля.
func (s *SyncUseCase) fetchRemoteState(ctx context.Context, local *domain.Product) (*domain.RemoteProduct, *domain.RemotePrice, error) {
	if local.StripeProductID == nil {
		return nil, nil, nil
	}

	remote, err := s.remote.GetProduct(ctx, *local.StripeProductID)
	if err != nil {
		if e.IsRemoteNotFound(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	if local.StripePriceID == nil {
		return remote, nil, nil
	}

	price, err := s.remote.GetPrice(ctx, *local.StripePriceID)
	if err != nil {
		if e.IsRemoteNotFound(err) {
			return remote, nil, nil
		}
		return nil, nil, err
	}

	return remote, price, nil
}

// createRemote создаёт зеркальный продукт и прайс для несинхронизированной записи.
func (s *SyncUseCase) createRemote(ctx context.Context, local *domain.Product, detector *DriftDetector, res *SyncResult) error {
	const op = "SyncUseCase.createRemote"

	created, err := s.remote.CreateProduct(ctx, &CreateRemoteProductReq{
		Name:        local.Title,
		Description: local.ExpectedDescription(),
		Active:      local.IsAvailable,
		Metadata:    local.ExpectedMetadata(),
		TaxCode:     detector.DefaultTaxCode(),
	})
	if err != nil {
		return e.Wrap(op, err)
	}
	res.Actions = append(res.Actions, ActionCreatedProduct)

	price, err := s.remote.CreatePrice(ctx, s.newPriceReq(local, created.ID))
	if err != nil {
		// Продукт уже создан: фиксируем его указатель, чтобы повторный
		// прогон допечатал прайс, а не создал дубль продукта
		if perr := s.persistSync(ctx, local.ID, &created.ID, nil, nil, nil, false); perr != nil {
			s.logger.Warnf("%s: remote product %s created but pointer persist failed, orphan possible on retry: %v",
				op, created.ID, perr)
		}
		return e.Wrap(op, err)
	}
	res.Actions = append(res.Actions, ActionCreatedPrice)

	if err := s.persistSync(ctx, local.ID, &created.ID, &price.ID, &price.AmountCents, res.Actions, true); err != nil {
		s.logger.Warnf("%s: remote objects %s/%s created but pointer persist failed: %v",
			op, created.ID, price.ID, err)
		return e.Wrap(op, err)
	}

	return nil
}

// correctRemote закрывает обнаруженные расхождения по синхронизированной записи.
func (s *SyncUseCase) correctRemote(
	ctx context.Context,
	local *domain.Product,
	remote *domain.RemoteProduct,
	remotePrice *domain.RemotePrice,
	drift *domain.Drift,
	detector *DriftDetector,
	force bool,
	res *SyncResult,
) error {
	const op = "SyncUseCase.correctRemote"

	upd, fields := s.buildProductUpdate(local, drift, detector, force)
	if upd != nil {
		if _, err := s.remote.UpdateProduct(ctx, remote.ID, upd); err != nil {
			return e.Wrap(op, err)
		}
		res.Actions = append(res.Actions, ActionUpdatedFieldsPrefix+strings.Join(fields, ", "))
	}

	priceID := local.StripePriceID
	priceCents := local.StripePriceCents
	changed := upd != nil

	if drift.Has(domain.DriftPrice) {
		newID, newCents, err := s.resolvePrice(ctx, local, remote.ID, remotePrice, res)
		if err != nil {
			return e.Wrap(op, err)
		}
		priceID, priceCents = newID, newCents
		changed = true
	} else if remotePrice != nil && (force || upd != nil) {
		// Цена проверена и совпала — объект переиспользуется
		res.Actions = append(res.Actions, ActionPriceReused)
	}

	// Дрифт был только advisory (плейсхолдер налогового кода) — действий нет
	if !changed && len(res.Actions) == 0 {
		res.Actions = append(res.Actions, ActionNoUpdates)
	}

	var actions []string
	if changed {
		actions = res.Actions
	}

	if err := s.persistSync(ctx, local.ID, &remote.ID, priceID, priceCents, actions, changed); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// resolvePrice закрывает ценовое расхождение. Потерянный указатель сперва
// пробуем починить переиспользованием уже существующего подходящего прайса
// (защита от дублей при повторе после частичного сбоя); иначе создаётся
// новый прайс-объект, старый остаётся осиротевшим — это ожидаемо.
func (s *SyncUseCase) resolvePrice(ctx context.Context, local *domain.Product, remoteProductID string, remotePrice *domain.RemotePrice, res *SyncResult) (*string, *int64, error) {
	if remotePrice == nil {
		existing, err := s.findMatchingPrice(ctx, remoteProductID, local.SellingPriceCents)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil {
			res.Actions = append(res.Actions, ActionPriceReused)
			return &existing.ID, &existing.AmountCents, nil
		}
	}

	newPrice, err := s.remote.CreatePrice(ctx, s.newPriceReq(local, remoteProductID))
	if err != nil {
		return nil, nil, err
	}

	was := "unresolved"
	if remotePrice != nil {
		was = "$" + domain.FormatCents(remotePrice.AmountCents)
	}
	res.Actions = append(res.Actions,
		ActionCreatedNewPricePrefix+"$"+domain.FormatCents(newPrice.AmountCents)+" (was "+was+")")

	return &newPrice.ID, &newPrice.AmountCents, nil
}

// findMatchingPrice ищет среди прайсов продукта объект с нужной суммой и валютой.
func (s *SyncUseCase) findMatchingPrice(ctx context.Context, remoteProductID string, amountCents int64) (*domain.RemotePrice, error) {
	prices, err := s.remote.ListPrices(ctx, remoteProductID)
	if err != nil {
		return nil, err
	}

	for i := range prices {
		if prices[i].AmountCents == amountCents && prices[i].Currency == s.currency {
			return &prices[i], nil
		}
	}

	return nil, nil
}

// buildProductUpdate собирает частичное обновление: только разъехавшиеся
// top-level поля, чтобы не затирать параллельные внешние правки.
// Метаданные — всегда полной картой. force отправляет весь набор.
func (s *SyncUseCase) buildProductUpdate(local *domain.Product, drift *domain.Drift, detector *DriftDetector, force bool) (*UpdateRemoteProductReq, []string) {
	upd := &UpdateRemoteProductReq{}
	var fields []string

	if force || drift.Has(domain.DriftName) {
		title := local.Title
		upd.Name = &title
		fields = append(fields, "name")
	}

	if force || drift.Has(domain.DriftDescription) {
		desc := local.ExpectedDescription()
		upd.Description = &desc
		fields = append(fields, "description")
	}

	if force || drift.Has(domain.DriftMetadata) {
		upd.Metadata = local.ExpectedMetadata()
		fields = append(fields, "metadata")
	}

	// Налоговый код не пересылается по force: затирать корректный
	// бизнес-код плейсхолдером нельзя
	fixPlaceholder := drift.Has(domain.DriftTaxCodeDefault) && detector.DefaultTaxCode() != domain.DefaultTaxCode
	if drift.Has(domain.DriftTaxCodeMissing) || fixPlaceholder {
		code := detector.DefaultTaxCode()
		upd.TaxCode = &code
		fields = append(fields, "tax_code")
	}

	if len(fields) == 0 {
		return nil, nil
	}

	return upd, fields
}

func (s *SyncUseCase) newPriceReq(local *domain.Product, remoteProductID string) *CreateRemotePriceReq {
	return &CreateRemotePriceReq{
		ProductID:   remoteProductID,
		AmountCents: local.SellingPriceCents,
		Currency:    s.currency,
		TaxBehavior: "exclusive",
		Metadata: map[string]string{
			"local_product_id": strconv.FormatInt(local.ID, 10),
		},
	}
}

// persistSync записывает указатели синхронизации и, при наличии изменений,
// outbox-событие в одной транзакции.
func (s *SyncUseCase) persistSync(ctx context.Context, productID int64, stripeProductID, stripePriceID *string,
	stripePriceCents *int64, actions []string, emitEvent bool) error {
	const op = "SyncUseCase.persistSync"

	var err error
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	now := time.Now().UTC()
	err = s.catalogRepo.UpdateSyncPointers(ctx, NewUpdateSyncPointersReq(productID, stripeProductID, stripePriceID, stripePriceCents, now))
	if err != nil {
		return e.Wrap(op, err)
	}

	if emitEvent {
		var event *SyncEvent
		event, err = buildSyncEvent(productID, stripeProductID, stripePriceID, stripePriceCents, actions, now)
		if err != nil {
			return e.Wrap(op, err)
		}

		if _, err = s.eventRepo.Create(ctx, event); err != nil {
			return e.Wrap(op, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// cacheReport кладёт свежий отчёт в кэш для отчётной витрины.
// Ошибки кэша не влияют на результат прогона.
func (s *SyncUseCase) cacheReport(report *SyncReport) {
	bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := s.cacheRepo.SetReport(bgCtx, report); err != nil {
		s.logger.Warnf("failed to cache sync report %s: %v", report.RunID, err)
	}
}

func buildSyncEvent(productID int64, stripeProductID, stripePriceID *string, stripePriceCents *int64,
	actions []string, occurredAt time.Time) (*SyncEvent, error) {
	payload := SyncEventPayload{
		EventID:    uuid.NewString(),
		EventType:  "catalog.synced",
		ProductID:  productID,
		Actions:    actions,
		OccurredAt: occurredAt,
	}
	if stripeProductID != nil {
		payload.StripeProductID = *stripeProductID
	}
	if stripePriceID != nil {
		payload.StripePriceID = *stripePriceID
	}
	if stripePriceCents != nil {
		payload.PriceCents = *stripePriceCents
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &SyncEvent{
		EventID:   payload.EventID,
		EventType: payload.EventType,
		ProductID: productID,
		Payload:   raw,
		Status:    Pending,
		CreatedAt: occurredAt,
	}, nil
}

func failResult(res SyncResult, err error) SyncResult {
	res.Success = false
	res.Error = err.Error()
	return res
}

func deadlineResult(productID int64, err error) SyncResult {
	return SyncResult{
		ProductID: productID,
		Actions:   []string{ActionSkippedDeadline},
		Success:   false,
		Error:     err.Error(),
	}
}
