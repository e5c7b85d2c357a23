package usecase

import (
	"context"
	"fmt"

	"github.com/platedepot/catalog-sync/internal/domain"
	"github.com/platedepot/catalog-sync/pkg/logger"
)

// HealthChecker проверяет предусловия мутирующего прохода:
// схему локального каталога и доступность Stripe. Только чтение.
type HealthChecker struct {
	catalogRepo       CatalogRepository
	remote            RemoteCatalog
	configuredTaxCode string
	logger            logger.Logger
}

func NewHealthChecker(
	catalogRepo CatalogRepository,
	remote RemoteCatalog,
	configuredTaxCode string,
	logger logger.Logger,
) *HealthChecker {
	return &HealthChecker{
		catalogRepo:       catalogRepo,
		remote:            remote,
		configuredTaxCode: configuredTaxCode,
		logger:            logger,
	}
}

// Check собирает отчёт о готовности. Никогда не возвращает ошибку:
// все проблемы попадают в Issues, решение принимает вызывающий.
func (h *HealthChecker) Check(ctx context.Context) *HealthReport {
	report := &HealthReport{
		LocalSchemaReady: true,
		RemoteConfigured: true,
		Issues:           []string{},
	}

	missing, err := h.catalogRepo.ProbeSyncColumns(ctx)
	if err != nil {
		report.LocalSchemaReady = false
		report.Issues = append(report.Issues, fmt.Sprintf("schema probe failed: %v", err))
	} else if len(missing) > 0 {
		report.LocalSchemaReady = false
		for _, col := range missing {
			report.Issues = append(report.Issues, fmt.Sprintf("products table is missing column %q", col))
		}
	}

	if err := h.remote.CheckAuth(ctx); err != nil {
		report.RemoteConfigured = false
		report.Issues = append(report.Issues, fmt.Sprintf("stripe auth check failed: %v", err))
	}

	report.DefaultTaxCode = h.resolveTaxCode(ctx, report.RemoteConfigured)

	return report
}

// resolveTaxCode возвращает настроенный налоговый код или generic fallback.
// Когда Stripe доступен, настроенный код сверяется со справочником;
// неизвестный код понижается до fallback с предупреждением в логе.
func (h *HealthChecker) resolveTaxCode(ctx context.Context, remoteUp bool) string {
	const op = "HealthChecker.resolveTaxCode"

	if h.configuredTaxCode == "" {
		return domain.DefaultTaxCode
	}

	if !remoteUp || h.configuredTaxCode == domain.DefaultTaxCode {
		return h.configuredTaxCode
	}

	codes, err := h.remote.ListTaxCodes(ctx)
	if err != nil {
		// Справочник недоступен — доверяем конфигурации
		h.logger.Warnf("%s: tax code listing failed: %v", op, err)
		return h.configuredTaxCode
	}

	for _, code := range codes {
		if code.ID == h.configuredTaxCode {
			return h.configuredTaxCode
		}
	}

	h.logger.Warnf("%s: configured tax code %s not found in stripe listing, falling back to %s",
		op, h.configuredTaxCode, domain.DefaultTaxCode)

	return domain.DefaultTaxCode
}
