package stripeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/platedepot/catalog-sync/internal/domain"
	"github.com/platedepot/catalog-sync/internal/usecase"
	"github.com/platedepot/catalog-sync/pkg/e"
	"github.com/platedepot/catalog-sync/pkg/jitter"
	"github.com/platedepot/catalog-sync/pkg/logger"
)

// StripeClient — клиент каталога Stripe. Нормализует ошибки API
// в e.RemoteError и повторяет transient-запросы с экспоненциальным backoff.
type StripeClient struct {
	sc         *client.API
	maxRetries int
	logger     logger.Logger
}

func NewStripeClient(apiKey string, maxRetries int, logger logger.Logger) *StripeClient {
	sc := &client.API{}
	sc.Init(apiKey, nil)

	if maxRetries < 1 {
		maxRetries = 1
	}

	return &StripeClient{
		sc:         sc,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (s *StripeClient) GetProduct(ctx context.Context, id string) (*domain.RemoteProduct, error) {
	const op = "StripeClient.GetProduct"

	var product *stripe.Product
	err := s.withRetry(ctx, op, func() error {
		var err error
		params := &stripe.ProductParams{Params: stripe.Params{Context: ctx}}
		product, err = s.sc.Products.Get(id, params)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, normalizeError(err))
	}

	return toRemoteProduct(product), nil
}

func (s *StripeClient) CreateProduct(ctx context.Context, req *usecase.CreateRemoteProductReq) (*domain.RemoteProduct, error) {
	const op = "StripeClient.CreateProduct"

	params := &stripe.ProductParams{
		Params:      stripe.Params{Context: ctx},
		Name:        stripe.String(req.Name),
		Description: stripe.String(req.Description),
		Active:      stripe.Bool(req.Active),
	}
	if req.TaxCode != "" {
		params.TaxCode = stripe.String(req.TaxCode)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	var product *stripe.Product
	err := s.withRetry(ctx, op, func() error {
		var err error
		product, err = s.sc.Products.New(params)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, normalizeError(err))
	}

	return toRemoteProduct(product), nil
}

func (s *StripeClient) UpdateProduct(ctx context.Context, id string, req *usecase.UpdateRemoteProductReq) (*domain.RemoteProduct, error) {
	const op = "StripeClient.UpdateProduct"

	params := &stripe.ProductParams{Params: stripe.Params{Context: ctx}}
	if req.Name != nil {
		params.Name = stripe.String(*req.Name)
	}
	if req.Description != nil {
		params.Description = stripe.String(*req.Description)
	}
	if req.TaxCode != nil {
		params.TaxCode = stripe.String(*req.TaxCode)
	}
	// Stripe заменяет метаданные по ключам, поэтому отправляем полный набор
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	var product *stripe.Product
	err := s.withRetry(ctx, op, func() error {
		var err error
		product, err = s.sc.Products.Update(id, params)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, normalizeError(err))
	}

	return toRemoteProduct(product), nil
}

func (s *StripeClient) GetPrice(ctx context.Context, id string) (*domain.RemotePrice, error) {
	const op = "StripeClient.GetPrice"

	var price *stripe.Price
	err := s.withRetry(ctx, op, func() error {
		var err error
		params := &stripe.PriceParams{Params: stripe.Params{Context: ctx}}
		price, err = s.sc.Prices.Get(id, params)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, normalizeError(err))
	}

	return toRemotePrice(price), nil
}

// ListPrices возвращает активные прайсы продукта. Используется для
// поиска переиспользуемого прайса при потерянной локальной ссылке.
func (s *StripeClient) ListPrices(ctx context.Context, productID string) ([]domain.RemotePrice, error) {
	const op = "StripeClient.ListPrices"

	params := &stripe.PriceListParams{
		ListParams: stripe.ListParams{Context: ctx},
		Product:    stripe.String(productID),
		Active:     stripe.Bool(true),
	}

	var prices []domain.RemotePrice
	err := s.withRetry(ctx, op, func() error {
		prices = prices[:0]
		iter := s.sc.Prices.List(params)
		for iter.Next() {
			prices = append(prices, *toRemotePrice(iter.Price()))
		}
		return iter.Err()
	})
	if err != nil {
		return nil, e.Wrap(op, normalizeError(err))
	}

	return prices, nil
}

func (s *StripeClient) CreatePrice(ctx context.Context, req *usecase.CreateRemotePriceReq) (*domain.RemotePrice, error) {
	const op = "StripeClient.CreatePrice"

	params := &stripe.PriceParams{
		Params:      stripe.Params{Context: ctx},
		Product:     stripe.String(req.ProductID),
		UnitAmount:  stripe.Int64(req.AmountCents),
		Currency:    stripe.String(req.Currency),
		TaxBehavior: stripe.String(req.TaxBehavior),
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	var price *stripe.Price
	err := s.withRetry(ctx, op, func() error {
		var err error
		price, err = s.sc.Prices.New(params)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, normalizeError(err))
	}

	return toRemotePrice(price), nil
}

func (s *StripeClient) ListTaxCodes(ctx context.Context) ([]domain.TaxCode, error) {
	const op = "StripeClient.ListTaxCodes"

	params := &stripe.TaxCodeListParams{
		ListParams: stripe.ListParams{Context: ctx},
	}

	var codes []domain.TaxCode
	err := s.withRetry(ctx, op, func() error {
		codes = codes[:0]
		iter := s.sc.TaxCodes.List(params)
		for iter.Next() {
			tc := iter.TaxCode()
			codes = append(codes, domain.TaxCode{
				ID:          tc.ID,
				Name:        tc.Name,
				Description: tc.Description,
			})
		}
		return iter.Err()
	})
	if err != nil {
		return nil, e.Wrap(op, normalizeError(err))
	}

	return codes, nil
}

// CheckAuth выполняет лёгкий запрос собственного аккаунта для проверки API-ключа.
func (s *StripeClient) CheckAuth(ctx context.Context) error {
	const op = "StripeClient.CheckAuth"

	// account.Client.Get не принимает параметров, контекст сюда не пробросить.
	if _, err := s.sc.Accounts.Get(); err != nil {
		return e.Wrap(op, normalizeError(err))
	}

	return nil
}

// withRetry повторяет запрос при transient-ошибках и rate limit
// с экспоненциальной задержкой и джиттером.
func (s *StripeClient) withRetry(ctx context.Context, op string, call func() error) error {
	const (
		baseJitter = 500 * time.Millisecond
		maxJitter  = 15 * time.Second
	)

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		lastErr = call()
		if lastErr == nil {
			return nil
		}

		if !e.IsRemoteRetryable(normalizeError(lastErr)) {
			return lastErr
		}

		if attempt == s.maxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		s.logger.Warnf("%s failed, retrying in %v (attempt %d): %v", op, sleepTime, attempt+1, lastErr)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return e.Wrap(op, ctx.Err())
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", s.maxRetries, lastErr)
}

// normalizeError приводит ошибку stripe-go к единому e.RemoteError.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}

	var re *e.RemoteError
	if errors.As(err, &re) {
		return err
	}

	var sErr *stripe.Error
	if !errors.As(err, &sErr) {
		return e.NewRemoteError(e.RemoteUnknown, "", err.Error())
	}

	kind := e.RemoteUnknown
	switch {
	case sErr.HTTPStatusCode == http.StatusNotFound || sErr.Code == stripe.ErrorCodeResourceMissing:
		kind = e.RemoteNotFound
	case sErr.HTTPStatusCode == http.StatusTooManyRequests || sErr.Code == stripe.ErrorCodeRateLimit:
		kind = e.RemoteRateLimited
	// Плохой ключ Stripe отдаёт как 401 invalid_request_error,
	// отдельного типа ошибки аутентификации у SDK нет.
	case sErr.HTTPStatusCode == http.StatusUnauthorized:
		kind = e.RemoteUnauthorized
	case sErr.HTTPStatusCode >= http.StatusInternalServerError:
		kind = e.RemoteTransient
	}

	return e.NewRemoteError(kind, string(sErr.Code), sErr.Msg)
}

func toRemoteProduct(p *stripe.Product) *domain.RemoteProduct {
	if p == nil {
		return nil
	}

	rp := &domain.RemoteProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
		Metadata:    p.Metadata,
		UpdatedAt:   time.Unix(p.Updated, 0),
	}
	if p.TaxCode != nil {
		rp.TaxCode = p.TaxCode.ID
	}

	return rp
}

func toRemotePrice(p *stripe.Price) *domain.RemotePrice {
	if p == nil {
		return nil
	}

	rp := &domain.RemotePrice{
		ID:          p.ID,
		AmountCents: p.UnitAmount,
		Currency:    string(p.Currency),
		TaxBehavior: string(p.TaxBehavior),
		Metadata:    p.Metadata,
	}
	if p.Product != nil {
		rp.ProductID = p.Product.ID
	}

	return rp
}
