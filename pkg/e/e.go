package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки движка синхронизации
	ErrSyncNotReady         = fmt.Errorf("sync preconditions not met")
	ErrProductNotFound      = fmt.Errorf("product not found")
	ErrPriceLinkageBroken   = fmt.Errorf("stripe_price_id is set without stripe_product_id")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")
	ErrNoSyncReport         = fmt.Errorf("no sync report available")

	// 400 Bad Request
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrInvalidProductID    = fmt.Errorf("invalid product id")
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
