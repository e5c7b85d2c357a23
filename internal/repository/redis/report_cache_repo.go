package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"

	"github.com/platedepot/catalog-sync/internal/cfg"
	"github.com/platedepot/catalog-sync/internal/usecase"
	"github.com/platedepot/catalog-sync/pkg/clients"
	"github.com/platedepot/catalog-sync/pkg/e"
	"github.com/platedepot/catalog-sync/pkg/logger"
)

const lastReportKey = "sync:report:last"

type ReportCacheRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewReportCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *ReportCacheRepo {
	return &ReportCacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// GetReport возвращает последний закэшированный отчёт синхронизации.
// На промах возвращает (nil, nil): отсутствие отчёта — не ошибка.
func (r *ReportCacheRepo) GetReport(ctx context.Context) (*usecase.SyncReport, error) {
	data, err := r.client.Client.Get(ctx, lastReportKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil // cache miss
		}

		r.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var report usecase.SyncReport
	if err := json.Unmarshal(data, &report); err != nil {
		r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := r.client.Client.Del(context.Background(), lastReportKey).Err(); err != nil {
			r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil // повреждённый кэш трактуем как промах
	}

	return &report, nil
}

// SetReport кэширует отчёт с TTL из конфигурации.
// Ошибки записи логируются и не прерывают синхронизацию.
func (r *ReportCacheRepo) SetReport(ctx context.Context, report *usecase.SyncReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		r.logger.Warnf("Failed to marshal sync report (run %s): %v", report.RunID, e.Wrap(whereami.WhereAmI(), err))
		return fmt.Errorf("%s: failed to marshal sync report: %w", whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, lastReportKey, data, r.cfg.ReportTTL).Err(); err != nil {
		r.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// InvalidateReport сбрасывает закэшированный отчёт после точечной реконсиляции,
// чтобы не отдавать устаревшие счётчики.
func (r *ReportCacheRepo) InvalidateReport(ctx context.Context) error {
	if err := r.client.Client.Del(ctx, lastReportKey).Err(); err != nil {
		r.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
