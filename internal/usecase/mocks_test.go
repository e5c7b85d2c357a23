package usecase

import (
	"context"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/platedepot/catalog-sync/internal/domain"
	"github.com/platedepot/catalog-sync/pkg/e"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type fakeCatalogRepo struct {
	mu       sync.Mutex
	products []domain.Product
	missing  []string
	probeErr error
	listErr  error

	updates []UpdateSyncPointersReq
}

func (f *fakeCatalogRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeCatalogRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (f *fakeCatalogRepo) UpdateSyncPointers(ctx context.Context, req *UpdateSyncPointersReq) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, *req)
	return nil
}

func (f *fakeCatalogRepo) ProbeSyncColumns(ctx context.Context) ([]string, error) {
	return f.missing, f.probeErr
}

func (f *fakeCatalogRepo) lastUpdate() *UpdateSyncPointersReq {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return nil
	}
	u := f.updates[len(f.updates)-1]
	return &u
}

type fakeEventRepo struct {
	mu      sync.Mutex
	created []*SyncEvent
}

func (f *fakeEventRepo) Create(ctx context.Context, event *SyncEvent) (*SyncEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, event)
	return event, nil
}

func (f *fakeEventRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*SyncEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeEventRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakeCacheRepo struct {
	mu          sync.Mutex
	report      *SyncReport
	getErr      error
	setCalls    int
	invalidated int
}

func (f *fakeCacheRepo) GetReport(ctx context.Context) (*SyncReport, error) {
	return f.report, f.getErr
}

func (f *fakeCacheRepo) SetReport(ctx context.Context, report *SyncReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	f.report = report
	return nil
}

func (f *fakeCacheRepo) InvalidateReport(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
	f.report = nil
	return nil
}

// fakeRemote моделирует каталог Stripe в памяти.
type fakeRemote struct {
	mu       sync.Mutex
	products map[string]*domain.RemoteProduct
	prices   map[string]*domain.RemotePrice
	taxCodes []domain.TaxCode

	authErr       error
	getProductErr map[string]error

	nextID          int
	createdProducts int
	updatedProducts int
	createdPrices   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		products:      map[string]*domain.RemoteProduct{},
		prices:        map[string]*domain.RemotePrice{},
		getProductErr: map[string]error{},
	}
}

func (f *fakeRemote) GetProduct(ctx context.Context, id string) (*domain.RemoteProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getProductErr[id]; err != nil {
		return nil, err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, e.NewRemoteError(e.RemoteNotFound, "resource_missing", "no such product: "+id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRemote) CreateProduct(ctx context.Context, req *CreateRemoteProductReq) (*domain.RemoteProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.createdProducts++
	p := &domain.RemoteProduct{
		ID:          "prod_fake_" + strconv.Itoa(f.nextID),
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
		Metadata:    req.Metadata,
		TaxCode:     req.TaxCode,
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRemote) UpdateProduct(ctx context.Context, id string, req *UpdateRemoteProductReq) (*domain.RemoteProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, e.NewRemoteError(e.RemoteNotFound, "resource_missing", "no such product: "+id)
	}
	f.updatedProducts++
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.TaxCode != nil {
		p.TaxCode = *req.TaxCode
	}
	if req.Metadata != nil {
		p.Metadata = req.Metadata
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRemote) GetPrice(ctx context.Context, id string) (*domain.RemotePrice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.prices[id]
	if !ok {
		return nil, e.NewRemoteError(e.RemoteNotFound, "resource_missing", "no such price: "+id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRemote) ListPrices(ctx context.Context, productID string) ([]domain.RemotePrice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RemotePrice
	for _, p := range f.prices {
		if p.ProductID == productID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRemote) CreatePrice(ctx context.Context, req *CreateRemotePriceReq) (*domain.RemotePrice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.createdPrices++
	p := &domain.RemotePrice{
		ID:          "price_fake_" + strconv.Itoa(f.nextID),
		ProductID:   req.ProductID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		TaxBehavior: req.TaxBehavior,
		Metadata:    req.Metadata,
	}
	f.prices[p.ID] = p
	return p, nil
}

func (f *fakeRemote) ListTaxCodes(ctx context.Context) ([]domain.TaxCode, error) {
	return f.taxCodes, nil
}

func (f *fakeRemote) CheckAuth(ctx context.Context) error {
	return f.authErr
}

// fakeTxPool подменяет pgx-пул: транзакции ничего не делают,
// но путь persistSync остаётся пройденным.
type fakeTxPool struct{}

type fakeTx struct {
	pgx.Tx
}

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

func (fakeTxPool) Begin(ctx context.Context) (pgx.Tx, error) {
	return fakeTx{}, nil
}

func (fakeTxPool) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return fakeTx{}, nil
}
