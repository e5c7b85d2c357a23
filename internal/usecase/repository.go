package usecase

import (
	"context"

	"github.com/platedepot/catalog-sync/internal/domain"
)

type CatalogRepository interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	UpdateSyncPointers(ctx context.Context, req *UpdateSyncPointersReq) error
	// ProbeSyncColumns возвращает список отсутствующих колонок синхронизации.
	ProbeSyncColumns(ctx context.Context) ([]string, error)
}

type SyncEventRepository interface {
	Create(ctx context.Context, event *SyncEvent) (*SyncEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*SyncEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type ReportCacheRepository interface {
	GetReport(ctx context.Context) (*SyncReport, error)
	SetReport(ctx context.Context, report *SyncReport) error
	InvalidateReport(ctx context.Context) error
}
