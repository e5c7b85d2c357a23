package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platedepot/catalog-sync/internal/domain"
	"github.com/platedepot/catalog-sync/pkg/e"
)

func newTestUC(repo *fakeCatalogRepo, remote *fakeRemote, events *fakeEventRepo, cache *fakeCacheRepo) *SyncUseCase {
	health := NewHealthChecker(repo, remote, "", nopLogger{})
	return NewSyncUC(repo, events, cache, remote, fakeTxPool{}, health, nopLogger{}, 2, time.Second, "usd")
}

func plate45() domain.Product {
	return domain.Product{
		ID:                1,
		Title:             "45 LB Weight Plate - Factory Second",
		WeightLbs:         45,
		SellingPriceCents: 11500,
		RegularPriceCents: 13500,
		IsAvailable:       true,
	}
}

// mirrorOf регистрирует в фейковом Stripe зеркало продукта без расхождений
// и возвращает продукт с проставленными указателями.
func mirrorOf(remote *fakeRemote, p domain.Product, priceCents int64) domain.Product {
	productID := "prod_existing"
	priceID := "price_existing"

	remote.products[productID] = &domain.RemoteProduct{
		ID:          productID,
		Name:        p.Title,
		Description: p.ExpectedDescription(),
		Active:      p.IsAvailable,
		Metadata:    p.ExpectedMetadata(),
		TaxCode:     "txcd_55555555",
	}
	remote.prices[priceID] = &domain.RemotePrice{
		ID:          priceID,
		ProductID:   productID,
		AmountCents: priceCents,
		Currency:    "usd",
	}

	p.StripeProductID = &productID
	p.StripePriceID = &priceID
	p.StripePriceCents = &priceCents
	return p
}

func TestRunSync_CreatesNeverSynced(t *testing.T) {
	repo := &fakeCatalogRepo{products: []domain.Product{plate45()}}
	remote := newFakeRemote()
	events := &fakeEventRepo{}
	cache := &fakeCacheRepo{}

	uc := newTestUC(repo, remote, events, cache)
	report, err := uc.RunSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, remote.createdProducts)
	assert.Equal(t, 1, remote.createdPrices)

	// Зеркальный продукт собран из локальной записи
	var created *domain.RemoteProduct
	for _, p := range remote.products {
		created = p
	}
	require.NotNil(t, created)
	assert.Equal(t, "45 LB Weight Plate - Factory Second", created.Name)
	assert.Equal(t, "45 LB weight plate — factory second", created.Description)
	assert.Equal(t, domain.DefaultTaxCode, created.TaxCode)
	assert.Equal(t, "115.00", created.Metadata["selling_price"])

	var price *domain.RemotePrice
	for _, p := range remote.prices {
		price = p
	}
	require.NotNil(t, price)
	assert.Equal(t, int64(11500), price.AmountCents)
	assert.Equal(t, "usd", price.Currency)
	assert.Equal(t, "exclusive", price.TaxBehavior)
	assert.Equal(t, "1", price.Metadata["local_product_id"])

	// Указатели записаны одной операцией
	upd := repo.lastUpdate()
	require.NotNil(t, upd)
	assert.Equal(t, created.ID, *upd.StripeProductID)
	assert.Equal(t, price.ID, *upd.StripePriceID)
	assert.Equal(t, int64(11500), *upd.StripePriceCents)

	assert.Equal(t, 1, events.count())
	assert.Equal(t, 1, cache.setCalls)
}

func TestRunSync_Idempotent(t *testing.T) {
	repo := &fakeCatalogRepo{products: []domain.Product{plate45()}}
	remote := newFakeRemote()
	events := &fakeEventRepo{}
	cache := &fakeCacheRepo{}

	uc := newTestUC(repo, remote, events, cache)
	_, err := uc.RunSync(context.Background(), false)
	require.NoError(t, err)

	// Догоняем локальную запись до состояния после первого прогона
	upd := repo.lastUpdate()
	require.NotNil(t, upd)
	repo.products[0].StripeProductID = upd.StripeProductID
	repo.products[0].StripePriceID = upd.StripePriceID
	repo.products[0].StripePriceCents = upd.StripePriceCents

	report, err := uc.RunSync(context.Background(), false)
	require.NoError(t, err)

	// Повторный прогон ничего не создаёт и не меняет
	assert.Equal(t, 1, remote.createdProducts)
	assert.Equal(t, 1, remote.createdPrices)
	assert.Equal(t, 0, remote.updatedProducts)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Created)
	// Событие было только у первого прогона
	assert.Equal(t, 1, events.count())
}

func TestRunSync_PriceSupersede(t *testing.T) {
	remote := newFakeRemote()
	local := plate45()
	local.SellingPriceCents = 12500
	local = mirrorOf(remote, local, 11000) // зеркальный прайс отстал: $110.00

	repo := &fakeCatalogRepo{products: []domain.Product{local}}
	events := &fakeEventRepo{}
	cache := &fakeCacheRepo{}

	uc := newTestUC(repo, remote, events, cache)
	report, err := uc.RunSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Updated)

	// Прайс не обновляется — создаётся новый, продукт не трогаем
	assert.Equal(t, 1, remote.createdPrices)
	assert.Equal(t, 0, remote.updatedProducts)
	assert.Equal(t, 0, remote.createdProducts)

	// Старый прайс остаётся осиротевшим
	_, oldStillThere := remote.prices["price_existing"]
	assert.True(t, oldStillThere)

	upd := repo.lastUpdate()
	require.NotNil(t, upd)
	assert.NotEqual(t, "price_existing", *upd.StripePriceID)
	assert.Equal(t, int64(12500), *upd.StripePriceCents)

	found := false
	for _, res := range report.Results {
		for _, a := range res.Actions {
			if a == ActionCreatedNewPricePrefix+"$125.00 (was $110.00)" {
				found = true
			}
		}
	}
	assert.True(t, found, "expected supersede action in result")
}

func TestRunSync_DeadlineStopsDispatch(t *testing.T) {
	// Истёкший контекст вызывающего: не начатые продукты не стартуют,
	// а попадают в отчёт как failed с действием пропуска по дедлайну
	repo := &fakeCatalogRepo{products: []domain.Product{plate45(), plate45(), plate45()}}
	repo.products[1].ID = 2
	repo.products[2].ID = 3
	remote := newFakeRemote()
	events := &fakeEventRepo{}
	cache := &fakeCacheRepo{}

	uc := newTestUC(repo, remote, events, cache)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := uc.RunSync(ctx, false)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 3, report.Failed)
	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 0, remote.createdProducts)
	assert.Equal(t, 0, remote.createdPrices)

	require.Len(t, report.Results, 3)
	for _, res := range report.Results {
		assert.False(t, res.Success)
		assert.Contains(t, res.Actions, ActionSkippedDeadline)
		assert.Contains(t, res.Error, context.Canceled.Error())
	}
}

func TestRunSync_NotReady(t *testing.T) {
	repo := &fakeCatalogRepo{
		products: []domain.Product{plate45()},
		missing:  []string{"stripe_product_id"},
	}
	remote := newFakeRemote()

	uc := newTestUC(repo, remote, &fakeEventRepo{}, &fakeCacheRepo{})
	report, err := uc.RunSync(context.Background(), false)

	require.ErrorIs(t, err, e.ErrSyncNotReady)
	require.NotNil(t, report)
	assert.True(t, report.NotReady)
	assert.Equal(t, 0, report.Processed)
	assert.NotEmpty(t, report.Errors)

	// Мутирующий проход не стартовал
	assert.Equal(t, 0, remote.createdProducts)
	assert.Empty(t, repo.updates)
}

func TestRunSync_ErrorIsolation(t *testing.T) {
	remote := newFakeRemote()

	healthy := plate45()
	broken := mirrorOf(remote, domain.Product{
		ID:                2,
		Title:             "25 LB Weight Plate - Factory Second",
		WeightLbs:         25,
		SellingPriceCents: 6500,
		RegularPriceCents: 7500,
		IsAvailable:       true,
	}, 6500)
	remote.getProductErr[*broken.StripeProductID] = e.NewRemoteError(e.RemoteTransient, "api_error", "stripe is down")

	repo := &fakeCatalogRepo{products: []domain.Product{healthy, broken}}

	uc := newTestUC(repo, remote, &fakeEventRepo{}, &fakeCacheRepo{})
	report, err := uc.RunSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "product 2")
	assert.Contains(t, report.Errors[0], "stripe is down")

	// Здоровый продукт обработан несмотря на сбой соседа
	assert.Equal(t, 1, remote.createdProducts)
}

func TestRunSync_NoDriftRefreshesSyncTime(t *testing.T) {
	remote := newFakeRemote()
	local := mirrorOf(remote, plate45(), 11500)
	// Кэшированная сумма отстала от зеркала, дрифта при этом нет:
	// сравнивается каталожная цена, а не кэш
	staleCents := int64(11000)
	local.StripePriceCents = &staleCents
	repo := &fakeCatalogRepo{products: []domain.Product{local}}
	events := &fakeEventRepo{}

	uc := newTestUC(repo, remote, events, &fakeCacheRepo{})
	report, err := uc.RunSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, events.count(), "clean pass must not emit events")

	// lastSyncedAt освежается, указатели не меняются,
	// кэш суммы лечится из проверенного зеркального прайса
	upd := repo.lastUpdate()
	require.NotNil(t, upd)
	assert.Equal(t, *local.StripePriceID, *upd.StripePriceID)
	require.NotNil(t, upd.StripePriceCents)
	assert.Equal(t, int64(11500), *upd.StripePriceCents)
	assert.False(t, upd.LastSyncedAt.IsZero())
}

func TestRunSync_RecreatesDeletedMirror(t *testing.T) {
	remote := newFakeRemote()
	local := mirrorOf(remote, plate45(), 11500)
	// Зеркало удалили извне: указатели остались, объектов нет
	delete(remote.products, *local.StripeProductID)
	delete(remote.prices, *local.StripePriceID)

	repo := &fakeCatalogRepo{products: []domain.Product{local}}

	uc := newTestUC(repo, remote, &fakeEventRepo{}, &fakeCacheRepo{})
	report, err := uc.RunSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, remote.createdProducts)
	assert.Equal(t, 1, remote.createdPrices)
}

func TestRunSync_ReusesOrphanedPrice(t *testing.T) {
	remote := newFakeRemote()
	local := mirrorOf(remote, plate45(), 11500)
	// Указатель на прайс потерян, но подходящий объект в Stripe уже есть
	local.StripePriceID = nil
	local.StripePriceCents = nil

	repo := &fakeCatalogRepo{products: []domain.Product{local}}

	uc := newTestUC(repo, remote, &fakeEventRepo{}, &fakeCacheRepo{})
	report, err := uc.RunSync(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Reused)
	assert.Equal(t, 0, remote.createdPrices, "matching price must be reused, not duplicated")

	upd := repo.lastUpdate()
	require.NotNil(t, upd)
	assert.Equal(t, "price_existing", *upd.StripePriceID)
	assert.Equal(t, int64(11500), *upd.StripePriceCents)
}

func TestReconcileProduct_NotFound(t *testing.T) {
	repo := &fakeCatalogRepo{}
	remote := newFakeRemote()

	uc := newTestUC(repo, remote, &fakeEventRepo{}, &fakeCacheRepo{})
	_, err := uc.ReconcileProduct(context.Background(), 42, false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrProductNotFound))
}

func TestReconcileProduct_ForceResendsAll(t *testing.T) {
	remote := newFakeRemote()
	local := mirrorOf(remote, plate45(), 11500)
	repo := &fakeCatalogRepo{products: []domain.Product{local}}
	events := &fakeEventRepo{}
	cache := &fakeCacheRepo{report: &SyncReport{RunID: "stale"}}

	uc := newTestUC(repo, remote, events, cache)
	res, err := uc.ReconcileProduct(context.Background(), local.ID, true)

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, remote.updatedProducts)
	assert.Equal(t, 0, remote.createdPrices, "matching price is reused under force")

	hasUpdate, hasReuse := false, false
	for _, a := range res.Actions {
		if strings.HasPrefix(a, ActionUpdatedFieldsPrefix) {
			hasUpdate = true
		}
		if a == ActionPriceReused {
			hasReuse = true
		}
	}
	assert.True(t, hasUpdate)
	assert.True(t, hasReuse)

	assert.Equal(t, 1, events.count())
	assert.Equal(t, 1, cache.invalidated, "stale batch report must be dropped")
}

func TestLastReport(t *testing.T) {
	t.Run("miss maps to ErrNoSyncReport", func(t *testing.T) {
		uc := newTestUC(&fakeCatalogRepo{}, newFakeRemote(), &fakeEventRepo{}, &fakeCacheRepo{})
		_, err := uc.LastReport(context.Background())
		assert.ErrorIs(t, err, e.ErrNoSyncReport)
	})

	t.Run("hit returns cached report", func(t *testing.T) {
		cache := &fakeCacheRepo{report: &SyncReport{RunID: "run-1"}}
		uc := newTestUC(&fakeCatalogRepo{}, newFakeRemote(), &fakeEventRepo{}, cache)

		report, err := uc.LastReport(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "run-1", report.RunID)
	})
}
