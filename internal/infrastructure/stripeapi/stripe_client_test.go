package stripeapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"github.com/platedepot/catalog-sync/pkg/e"
)

func TestNormalizeError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind e.RemoteErrorKind
	}{
		{
			name: "404 → not_found",
			err:  &stripe.Error{HTTPStatusCode: http.StatusNotFound, Msg: "No such product"},
			kind: e.RemoteNotFound,
		},
		{
			name: "resource_missing без статуса → not_found",
			err:  &stripe.Error{Code: stripe.ErrorCodeResourceMissing, Msg: "No such price"},
			kind: e.RemoteNotFound,
		},
		{
			name: "429 → rate_limited",
			err:  &stripe.Error{HTTPStatusCode: http.StatusTooManyRequests},
			kind: e.RemoteRateLimited,
		},
		{
			// Плохой ключ Stripe отдаёт как 401 invalid_request_error
			name: "401 → unauthorized",
			err:  &stripe.Error{HTTPStatusCode: http.StatusUnauthorized, Type: stripe.ErrorTypeInvalidRequest},
			kind: e.RemoteUnauthorized,
		},
		{
			name: "500 → transient",
			err:  &stripe.Error{HTTPStatusCode: http.StatusInternalServerError},
			kind: e.RemoteTransient,
		},
		{
			name: "503 → transient",
			err:  &stripe.Error{HTTPStatusCode: http.StatusServiceUnavailable},
			kind: e.RemoteTransient,
		},
		{
			name: "400 → unknown",
			err:  &stripe.Error{HTTPStatusCode: http.StatusBadRequest},
			kind: e.RemoteUnknown,
		},
		{
			name: "не-stripe ошибка → unknown",
			err:  errors.New("dial tcp: connection refused"),
			kind: e.RemoteUnknown,
		},
		{
			name: "обёрнутая stripe-ошибка разворачивается",
			err:  fmt.Errorf("request failed: %w", &stripe.Error{HTTPStatusCode: http.StatusNotFound}),
			kind: e.RemoteNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			normalized := normalizeError(tc.err)

			re, ok := e.AsRemoteError(normalized)
			require.True(t, ok)
			assert.Equal(t, tc.kind, re.Kind)
		})
	}
}

func TestNormalizeError_Nil(t *testing.T) {
	assert.NoError(t, normalizeError(nil))
}

func TestNormalizeError_AlreadyNormalized(t *testing.T) {
	orig := e.NewRemoteError(e.RemoteRateLimited, "rate_limit", "slow down")

	assert.Same(t, error(orig), normalizeError(orig))
}
