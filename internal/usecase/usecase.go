package usecase

import "context"

type SyncUC interface {
	RunHealthCheck(ctx context.Context) (*HealthReport, error)
	RunSync(ctx context.Context, force bool) (*SyncReport, error)
	ReconcileProduct(ctx context.Context, productID int64, force bool) (*SyncResult, error)
	LastReport(ctx context.Context) (*SyncReport, error)
}
