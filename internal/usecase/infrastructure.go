package usecase

import (
	"context"

	"github.com/platedepot/catalog-sync/internal/domain"
)

// RemoteCatalog — порт к каталогу внешнего платёжного сервиса.
// Чистый транспорт: никакой бизнес-логики, ошибки нормализованы в e.RemoteError.
type RemoteCatalog interface {
	GetProduct(ctx context.Context, id string) (*domain.RemoteProduct, error)
	CreateProduct(ctx context.Context, req *CreateRemoteProductReq) (*domain.RemoteProduct, error)
	UpdateProduct(ctx context.Context, id string, req *UpdateRemoteProductReq) (*domain.RemoteProduct, error)
	GetPrice(ctx context.Context, id string) (*domain.RemotePrice, error)
	ListPrices(ctx context.Context, productID string) ([]domain.RemotePrice, error)
	CreatePrice(ctx context.Context, req *CreateRemotePriceReq) (*domain.RemotePrice, error)
	ListTaxCodes(ctx context.Context) ([]domain.TaxCode, error)
	// CheckAuth — лёгкий запрос идентичности для проверки ключа.
	CheckAuth(ctx context.Context) error
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
