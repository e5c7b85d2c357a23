package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID                int64      `db:"id"`
	Title             string     `db:"title"`
	Description       *string    `db:"description"`
	WeightLbs         int64      `db:"weight_lbs"`
	SellingPriceCents int64      `db:"selling_price_cents"`
	RegularPriceCents int64      `db:"regular_price_cents"`
	IsAvailable       bool       `db:"is_available"`
	StripeProductID   *string    `db:"stripe_product_id"`
	StripePriceID     *string    `db:"stripe_price_id"`
	StripePriceCents  *int64     `db:"stripe_price_cents"`
	LastSyncedAt      *time.Time `db:"last_synced_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at"`
}

// SyncEventModel представляет запись outbox-таблицы sync_events в PostgreSQL.
type SyncEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   int64      `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
