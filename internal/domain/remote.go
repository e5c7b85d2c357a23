package domain

import "time"

// DefaultTaxCode — универсальный код "general tangible goods" в Stripe Tax.
// Используется как fallback и одновременно как признак того, что
// бизнес-специфичный код ещё не назначен.
const DefaultTaxCode = "txcd_99999999"

// RemoteProduct — зеркальная копия продукта во внешнем платёжном сервисе.
// Объект принадлежит Stripe: мы его читаем, но не храним.
type RemoteProduct struct {
	ID          string
	Name        string
	Description string
	Active      bool
	Metadata    map[string]string
	TaxCode     string // пустая строка — код не назначен
	UpdatedAt   time.Time
}

// RemotePrice — прайс-объект Stripe. Неизменяем после создания:
// смена суммы всегда означает новый объект и перенацеливание ссылки.
type RemotePrice struct {
	ID          string
	ProductID   string
	AmountCents int64
	Currency    string
	TaxBehavior string
	Metadata    map[string]string
}

// TaxCode — элемент справочника налоговых кодов Stripe Tax.
type TaxCode struct {
	ID          string
	Name        string
	Description string
}
