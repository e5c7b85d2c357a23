package converter

import (
	"github.com/platedepot/catalog-sync/internal/domain"
	"github.com/platedepot/catalog-sync/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// SyncEventConverter преобразует сущности SyncEvent между usecase и моделью PostgreSQL.
type SyncEventConverter interface {
	ToModel(entity *usecase.SyncEvent) *SyncEventModel
	ToEntity(model *SyncEventModel) *usecase.SyncEvent
	ToArrEntity(models []*SyncEventModel) []*usecase.SyncEvent
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
		ID:                entity.ID,
		Title:             entity.Title,
		Description:       entity.Description,
		WeightLbs:         entity.WeightLbs,
		SellingPriceCents: entity.SellingPriceCents,
		RegularPriceCents: entity.RegularPriceCents,
		IsAvailable:       entity.IsAvailable,
		StripeProductID:   entity.StripeProductID,
		StripePriceID:     entity.StripePriceID,
		StripePriceCents:  entity.StripePriceCents,
		LastSyncedAt:      entity.LastSyncedAt,
		CreatedAt:         entity.CreatedAt,
		UpdatedAt:         entity.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:                model.ID,
		Title:             model.Title,
		Description:       model.Description,
		WeightLbs:         model.WeightLbs,
		SellingPriceCents: model.SellingPriceCents,
		RegularPriceCents: model.RegularPriceCents,
		IsAvailable:       model.IsAvailable,
		StripeProductID:   model.StripeProductID,
		StripePriceID:     model.StripePriceID,
		StripePriceCents:  model.StripePriceCents,
		LastSyncedAt:      model.LastSyncedAt,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

type SyncEventConverterImpl struct{}

func NewSyncEventConverterImpl() *SyncEventConverterImpl {
	return &SyncEventConverterImpl{}
}

func (c *SyncEventConverterImpl) ToModel(entity *usecase.SyncEvent) *SyncEventModel {
	if entity == nil {
		return nil
	}

	return &SyncEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   entity.EventType,
		ProductID:   entity.ProductID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (c *SyncEventConverterImpl) ToArrEntity(models []*SyncEventModel) []*usecase.SyncEvent {
	if models == nil {
		return nil
	}

	entities := make([]*usecase.SyncEvent, 0, len(models))
	for _, model := range models {
		entities = append(entities, c.ToEntity(model))
	}

	return entities
}

func (c *SyncEventConverterImpl) ToEntity(model *SyncEventModel) *usecase.SyncEvent {
	if model == nil {
		return nil
	}

	return &usecase.SyncEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   model.EventType,
		ProductID:   model.ProductID,
		Payload:     model.Payload,
		Status:      usecase.SyncEventStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}
