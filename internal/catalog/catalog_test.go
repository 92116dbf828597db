package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allyshop/internal/config"
)

func testProducts() []config.ProductConfig {
	return []config.ProductConfig{
		{ID: 1, Name: "iPhone 15 Pro 256GB", Price: 1350000, Stock: 15, Category: "smartphone"},
		{ID: 2, Name: "MacBook Pro M3 14인치", Price: 2800000, Stock: 0, Category: "laptop"},
		{ID: 3, Name: "iPad Pro 12.9 M2", Price: 1199000, Stock: 7, Category: "tablet"},
	}
}

func TestGet(t *testing.T) {
	c := New(testProducts())

	p, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "iPhone 15 Pro 256GB", p.Name)
	assert.Equal(t, 1350000, p.Price)
}

func TestGet_Unknown(t *testing.T) {
	c := New(testProducts())

	_, err := c.Get(999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestHas(t *testing.T) {
	c := New(testProducts())

	assert.True(t, c.Has(2))
	assert.False(t, c.Has(42))
}

func TestAll_PreservesConfiguredOrder(t *testing.T) {
	c := New(testProducts())

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 2, all[1].ID)
	assert.Equal(t, 3, all[2].ID)
}

func TestCount(t *testing.T) {
	assert.Equal(t, 3, New(testProducts()).Count())
	assert.Equal(t, 0, New(nil).Count())
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1350000, "1,350,000"},
		{2800000, "2,800,000"},
		{100000000, "100,000,000"},
		{-1500, "-1,500"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatPrice(tc.in), "FormatPrice(%d)", tc.in)
	}
}
