package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	page, limit := NormalizePage(0, 0, 10)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = NormalizePage(3, 500, 10)
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxPageLimit, limit)
}

func TestNormalizePageHugePage(t *testing.T) {
	page, limit := NormalizePage(4611686018427387905, 2, 10)
	assert.Equal(t, 2, limit)
	assert.Positive(t, (page-1)*limit, "offset must not overflow")

	p := Paginate([]int{1, 2, 3}, page, limit)
	assert.Empty(t, p.Data)
	assert.Equal(t, 3, p.Total)

	assert.NotPanics(t, func() { Paginate([]int{1, 2, 3}, 4611686018427387905, 2) })
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	p := Paginate(items, 2, 3)
	assert.Equal(t, []int{4, 5, 6}, p.Data)
	assert.Equal(t, 7, p.Total)
	assert.Equal(t, 3, p.TotalPages)

	p = Paginate(items, 3, 3)
	assert.Equal(t, []int{7}, p.Data)

	p = Paginate(items, 9, 3)
	assert.Empty(t, p.Data)
	assert.NotNil(t, p.Data)
	assert.Equal(t, 7, p.Total)
}

func TestProductHelpers(t *testing.T) {
	p := Product{ID: "p1", Name: "Kettle", Price: dec("80"), Discount: dec("25"), Stock: 3, LowStockThreshold: 10, Images: []string{"a.jpg", "b.jpg"}}

	assert.True(t, p.IsLowStock())
	assert.True(t, p.DiscountedPrice().Equal(dec("60")))

	item := p.CartItem()
	assert.Equal(t, "a.jpg", item.ProductImage)
	assert.Equal(t, 3, item.Stock)
	assert.Zero(t, item.Quantity)

	p.Stock = 0
	assert.False(t, p.IsLowStock())
}
