package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCents(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		want  string
	}{
		{name: "round amount", cents: 11500, want: "115.00"},
		{name: "with fraction", cents: 12599, want: "125.99"},
		{name: "zero", cents: 0, want: "0.00"},
		{name: "single cent", cents: 1, want: "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCents(tt.cents))
		})
	}
}

func TestProduct_ExpectedDescription(t *testing.T) {
	custom := "Custom description"
	empty := ""

	tests := []struct {
		name    string
		product Product
		want    string
	}{
		{
			name:    "explicit description wins",
			product: Product{WeightLbs: 45, Description: &custom},
			want:    "Custom description",
		},
		{
			name:    "nil description generated from weight",
			product: Product{WeightLbs: 45},
			want:    "45 LB weight plate — factory second",
		},
		{
			name:    "empty description generated from weight",
			product: Product{WeightLbs: 25, Description: &empty},
			want:    "25 LB weight plate — factory second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.product.ExpectedDescription())
		})
	}
}

func TestProduct_ExpectedMetadata(t *testing.T) {
	p := Product{
		ID:                7,
		WeightLbs:         45,
		SellingPriceCents: 11500,
		RegularPriceCents: 13500,
	}

	got := p.ExpectedMetadata()

	assert.Equal(t, map[string]string{
		"local_product_id": "7",
		"weight":           "45",
		"selling_price":    "115.00",
		"regular_price":    "135.00",
	}, got)
}

func TestProduct_NeverSynced(t *testing.T) {
	productID := "prod_123"
	priceID := "price_456"

	assert.True(t, (&Product{}).NeverSynced())
	assert.False(t, (&Product{StripeProductID: &productID}).NeverSynced())
	assert.False(t, (&Product{StripePriceID: &priceID}).NeverSynced())
}
