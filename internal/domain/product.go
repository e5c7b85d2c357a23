package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает локальную запись каталога — единственный источник истины.
// Цены хранятся в центах. Поля Stripe* — указатели на зеркальные объекты
// во внешнем платёжном сервисе; nil означает, что объект ещё не создан.
type Product struct {
	ID                int64
	Title             string
	Description       *string // nil — описание генерируется из веса
	WeightLbs         int64   // вариантный ключ: вес в фунтах
	SellingPriceCents int64   // актуальная цена для покупателя
	RegularPriceCents int64   // цена до скидки
	IsAvailable       bool
	StripeProductID   *string
	StripePriceID     *string
	StripePriceCents  *int64 // закэшированная сумма текущего Stripe-прайса
	LastSyncedAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// NeverSynced — true, если у записи нет ни одного указателя на Stripe.
func (p *Product) NeverSynced() bool {
	return p.StripeProductID == nil && p.StripePriceID == nil
}

// ExpectedDescription возвращает описание для зеркального продукта:
// заданное администратором или сгенерированное из веса.
func (p *Product) ExpectedDescription() string {
	if p.Description != nil && *p.Description != "" {
		return *p.Description
	}

	return fmt.Sprintf("%d LB weight plate — factory second", p.WeightLbs)
}

// ExpectedMetadata возвращает полный набор метаданных зеркального продукта.
// Карта пересобирается целиком: Stripe заменяет metadata как единое целое.
func (p *Product) ExpectedMetadata() map[string]string {
	return map[string]string{
		"local_product_id": fmt.Sprintf("%d", p.ID),
		"weight":           fmt.Sprintf("%d", p.WeightLbs),
		"selling_price":    FormatCents(p.SellingPriceCents),
		"regular_price":    FormatCents(p.RegularPriceCents),
	}
}

// FormatCents форматирует сумму в центах как строку с двумя знаками ("115.00").
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
