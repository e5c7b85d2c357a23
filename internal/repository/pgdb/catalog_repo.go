package pgdb

import (
	"context"
	"errors"

	"github.com/platedepot/catalog-sync/internal/domain"
	"github.com/platedepot/catalog-sync/internal/repository/pgdb/converter"
	"github.com/platedepot/catalog-sync/internal/usecase"
	"github.com/platedepot/catalog-sync/pkg/e"
	"github.com/platedepot/catalog-sync/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// Колонки, без которых движок синхронизации работать не может.
// Проверяются Health Checker'ом перед мутирующим проходом.
var requiredSyncColumns = []string{
	"stripe_product_id",
	"stripe_price_id",
	"stripe_price_cents",
	"last_synced_at",
}

const productColumns = `
	id, title, description, weight_lbs,
	selling_price_cents, regular_price_cents, is_available,
	stripe_product_id, stripe_price_id, stripe_price_cents,
	last_synced_at, created_at, updated_at
`

// CatalogRepo реализует доступ к локальному каталогу поверх PostgreSQL.
type CatalogRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewCatalogRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *CatalogRepo {
	return &CatalogRepo{
		pool: pool,
		conv: conv,
	}
}

// ListAll возвращает рабочее множество синхронизации: весь каталог в стабильном порядке.
func (c *CatalogRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *c.conv.ToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// GetByID возвращает одну запись каталога.
func (c *CatalogRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	row := c.pool.QueryRow(ctx, query, id)
	model, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(model), nil
}

// UpdateSyncPointers записывает указатели на зеркальные объекты Stripe и отметку
// времени синхронизации. Выполняется в транзакции вызывающего: указатели и
// outbox-событие фиксируются атомарно.
func (c *CatalogRepo) UpdateSyncPointers(ctx context.Context, req *usecase.UpdateSyncPointersReq) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET
			stripe_product_id = $2,
			stripe_price_id = $3,
			stripe_price_cents = $4,
			last_synced_at = $5,
			updated_at = NOW()
		WHERE id = $1
	`

	ct, err := tx.Exec(ctx, query,
		req.ProductID,
		req.StripeProductID,
		req.StripePriceID,
		req.StripePriceCents,
		req.LastSyncedAt,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if ct.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

// ProbeSyncColumns возвращает список колонок синхронизации, отсутствующих в схеме.
func (c *CatalogRepo) ProbeSyncColumns(ctx context.Context) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = 'products'
		  AND column_name = ANY($1)
	`

	rows, err := c.pool.Query(ctx, query, requiredSyncColumns)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(requiredSyncColumns))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		found[name] = true
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	missing := make([]string, 0)
	for _, col := range requiredSyncColumns {
		if !found[col] {
			missing = append(missing, col)
		}
	}

	return missing, nil
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ID, &model.Title, &model.Description, &model.WeightLbs,
		&model.SellingPriceCents, &model.RegularPriceCents, &model.IsAvailable,
		&model.StripeProductID, &model.StripePriceID, &model.StripePriceCents,
		&model.LastSyncedAt, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}
