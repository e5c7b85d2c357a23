package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platedepot/catalog-sync/internal/domain"
)

func TestHealthChecker_AllReady(t *testing.T) {
	repo := &fakeCatalogRepo{}
	remote := newFakeRemote()

	h := NewHealthChecker(repo, remote, "", nopLogger{})
	report := h.Check(context.Background())

	assert.True(t, report.Ready())
	assert.Empty(t, report.Issues)
	assert.Equal(t, domain.DefaultTaxCode, report.DefaultTaxCode)
}

func TestHealthChecker_MissingColumns(t *testing.T) {
	repo := &fakeCatalogRepo{missing: []string{"stripe_product_id", "last_synced_at"}}
	remote := newFakeRemote()

	h := NewHealthChecker(repo, remote, "", nopLogger{})
	report := h.Check(context.Background())

	assert.False(t, report.Ready())
	assert.False(t, report.LocalSchemaReady)
	assert.True(t, report.RemoteConfigured)
	require.Len(t, report.Issues, 2)
	assert.Contains(t, report.Issues[0], "stripe_product_id")
}

func TestHealthChecker_ProbeFailure(t *testing.T) {
	repo := &fakeCatalogRepo{probeErr: fmt.Errorf("connection refused")}
	remote := newFakeRemote()

	h := NewHealthChecker(repo, remote, "", nopLogger{})
	report := h.Check(context.Background())

	assert.False(t, report.Ready())
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "schema probe failed")
}

func TestHealthChecker_RemoteAuthFailure(t *testing.T) {
	repo := &fakeCatalogRepo{}
	remote := newFakeRemote()
	remote.authErr = fmt.Errorf("invalid api key")

	h := NewHealthChecker(repo, remote, "", nopLogger{})
	report := h.Check(context.Background())

	assert.False(t, report.Ready())
	assert.True(t, report.LocalSchemaReady)
	assert.False(t, report.RemoteConfigured)
}

func TestHealthChecker_TaxCodeResolution(t *testing.T) {
	t.Run("known business code kept", func(t *testing.T) {
		repo := &fakeCatalogRepo{}
		remote := newFakeRemote()
		remote.taxCodes = []domain.TaxCode{{ID: "txcd_55555555", Name: "Fitness equipment"}}

		h := NewHealthChecker(repo, remote, "txcd_55555555", nopLogger{})
		report := h.Check(context.Background())

		assert.Equal(t, "txcd_55555555", report.DefaultTaxCode)
	})

	t.Run("unknown code falls back to placeholder", func(t *testing.T) {
		repo := &fakeCatalogRepo{}
		remote := newFakeRemote()
		remote.taxCodes = []domain.TaxCode{{ID: "txcd_11111111"}}

		h := NewHealthChecker(repo, remote, "txcd_55555555", nopLogger{})
		report := h.Check(context.Background())

		assert.Equal(t, domain.DefaultTaxCode, report.DefaultTaxCode)
	})

	t.Run("remote down trusts configuration", func(t *testing.T) {
		repo := &fakeCatalogRepo{}
		remote := newFakeRemote()
		remote.authErr = fmt.Errorf("timeout")

		h := NewHealthChecker(repo, remote, "txcd_55555555", nopLogger{})
		report := h.Check(context.Background())

		assert.Equal(t, "txcd_55555555", report.DefaultTaxCode)
	})
}
