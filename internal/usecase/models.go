package usecase

import (
	"strings"
	"time"
)

// SYNC USECASE

// HealthReport — результат проверки предусловий синхронизации.
type HealthReport struct {
	LocalSchemaReady bool     `json:"local_schema_ready"`
	RemoteConfigured bool     `json:"remote_configured"`
	DefaultTaxCode   string   `json:"default_tax_code"`
	Issues           []string `json:"issues"`
}

// Ready — true, если мутирующий проход разрешён.
func (h *HealthReport) Ready() bool {
	return h.LocalSchemaReady && h.RemoteConfigured
}

// SyncResult — итог реконсиляции одного продукта. Actions — упорядоченный
// список человекочитаемых действий для аудита.
type SyncResult struct {
	ProductID int64    `json:"product_id"`
	Actions   []string `json:"actions"`
	Success   bool     `json:"success"`
	Error     string   `json:"error,omitempty"`
}

// SyncReport — агрегат по всему проходу синхронизации.
type SyncReport struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Forced     bool         `json:"forced"`
	NotReady   bool         `json:"not_ready,omitempty"`
	Processed  int          `json:"processed"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Created    int          `json:"created"`
	Updated    int          `json:"updated"`
	Reused     int          `json:"reused"`
	Skipped    int          `json:"skipped"`
	Errors     []string     `json:"errors"`
	Results    []SyncResult `json:"results"`
}

// Словарь действий. Счётчики отчёта выводятся из этих строк,
// поэтому формат фиксирован.
const (
	ActionCreatedProduct = "created product"
	ActionCreatedPrice   = "created price"
	ActionNoUpdates      = "no updates needed — already in sync"
	ActionPriceReused    = "price already matches remote — reused"

	ActionCreatedNewPricePrefix = "created new price: "
	ActionUpdatedFieldsPrefix   = "updated product fields: "
	ActionSkippedDeadline       = "skipped: deadline reached before dispatch"
)

// CreatedPrice — true, если в результате был создан прайс-объект.
func (r *SyncResult) CreatedPrice() bool {
	for _, a := range r.Actions {
		if a == ActionCreatedPrice || strings.HasPrefix(a, ActionCreatedNewPricePrefix) {
			return true
		}
	}

	return false
}

// UpdatedFields — true, если выполнялось обновление полей зеркального продукта.
func (r *SyncResult) UpdatedFields() bool {
	for _, a := range r.Actions {
		if strings.HasPrefix(a, ActionUpdatedFieldsPrefix) {
			return true
		}
	}

	return false
}

// ReusedPrice — true, если прайс был оставлен без изменений как совпадающий.
func (r *SyncResult) ReusedPrice() bool {
	for _, a := range r.Actions {
		if a == ActionPriceReused {
			return true
		}
	}

	return false
}

// Skipped — true, если по продукту не было ни одного расхождения.
func (r *SyncResult) Skipped() bool {
	for _, a := range r.Actions {
		if a == ActionNoUpdates {
			return true
		}
	}

	return false
}

// REPOSITORIES

// UpdateSyncPointersReq — запрос на запись указателей синхронизации
// в локальную запись каталога.
type UpdateSyncPointersReq struct {
	ProductID        int64
	StripeProductID  *string
	StripePriceID    *string
	StripePriceCents *int64
	LastSyncedAt     time.Time
}

// SyncEventStatus — статус события в outbox-таблице.
type SyncEventStatus string

const (
	Pending    SyncEventStatus = "pending"
	Processing SyncEventStatus = "processing"
	Processed  SyncEventStatus = "processed"
)

// SyncEvent — outbox-событие о завершённой реконсиляции продукта.
type SyncEvent struct {
	ID          int64
	EventID     string
	EventType   string
	ProductID   int64
	Payload     []byte
	Status      SyncEventStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// SyncEventPayload — JSON-тело события для Kafka.
type SyncEventPayload struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	ProductID       int64     `json:"product_id"`
	StripeProductID string    `json:"stripe_product_id"`
	StripePriceID   string    `json:"stripe_price_id"`
	PriceCents      int64     `json:"price_cents"`
	Actions         []string  `json:"actions"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// INFRASTRUCTURE

// CreateRemoteProductReq — запрос на создание зеркального продукта.
type CreateRemoteProductReq struct {
	Name        string
	Description string
	Active      bool
	Metadata    map[string]string
	TaxCode     string
}

// UpdateRemoteProductReq — частичное обновление зеркального продукта.
// nil-поле не отправляется, чтобы не затирать внешние правки.
// Metadata — исключение: Stripe заменяет карту целиком, поэтому при
// обновлении метаданных отправляется полный пересобранный набор.
type UpdateRemoteProductReq struct {
	Name        *string
	Description *string
	TaxCode     *string
	Metadata    map[string]string
}

// CreateRemotePriceReq — запрос на создание нового прайс-объекта.
// Существующие прайсы неизменяемы, обновления не существует.
type CreateRemotePriceReq struct {
	ProductID   string
	AmountCents int64
	Currency    string
	TaxBehavior string
	Metadata    map[string]string
}

type WriteRawMessageReq struct {
	ProductID int64
	Payload   []byte
}

// MAPPERS

func NewWriteRawMessageReq(productID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}

func NewUpdateSyncPointersReq(productID int64, stripeProductID, stripePriceID *string,
	stripePriceCents *int64, lastSyncedAt time.Time) *UpdateSyncPointersReq {
	return &UpdateSyncPointersReq{
		ProductID:        productID,
		StripeProductID:  stripeProductID,
		StripePriceID:    stripePriceID,
		StripePriceCents: stripePriceCents,
		LastSyncedAt:     lastSyncedAt,
	}
}
