package e

import (
	"errors"
	"fmt"
)

// RemoteErrorKind — класс ошибки внешнего API после нормализации.
// Реконсилятору достаточно этих пяти классов, он не должен знать
// vendor-специфичные коды Stripe.
type RemoteErrorKind string

const (
	RemoteNotFound     RemoteErrorKind = "not_found"
	RemoteRateLimited  RemoteErrorKind = "rate_limited"
	RemoteUnauthorized RemoteErrorKind = "unauthorized"
	RemoteTransient    RemoteErrorKind = "transient"
	RemoteUnknown      RemoteErrorKind = "unknown"
)

// RemoteError — единая форма ошибки внешнего платёжного API.
type RemoteError struct {
	Kind    RemoteErrorKind
	Code    string // исходный код ошибки провайдера (для логов)
	Message string
}

func (r *RemoteError) Error() string {
	return fmt.Sprintf("remote api error [%s/%s]: %s", r.Kind, r.Code, r.Message)
}

func NewRemoteError(kind RemoteErrorKind, code, message string) *RemoteError {
	return &RemoteError{Kind: kind, Code: code, Message: message}
}

// AsRemoteError извлекает RemoteError из цепочки обёрток.
func AsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsRemoteNotFound — true, если ошибка означает отсутствие объекта на удалённой стороне.
func IsRemoteNotFound(err error) bool {
	re, ok := AsRemoteError(err)
	return ok && re.Kind == RemoteNotFound
}

// IsRemoteRetryable — true для классов, при которых имеет смысл повтор с backoff.
func IsRemoteRetryable(err error) bool {
	re, ok := AsRemoteError(err)
	return ok && (re.Kind == RemoteTransient || re.Kind == RemoteRateLimited)
}
