package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortProducts(t *testing.T) {
	items := sampleProducts()

	tests := []struct {
		key  SortKey
		want []int64
	}{
		{key: SortPriceLow, want: []int64{3, 1, 2, 4, 5}},
		{key: SortPriceHigh, want: []int64{5, 4, 2, 1, 3}},
		{key: SortRating, want: []int64{1, 4, 2, 3, 5}},
		{key: SortNewest, want: []int64{5, 4, 3, 2, 1}},
		{key: SortName, want: []int64{2, 3, 5, 1, 4}},
		{key: SortFeatured, want: []int64{1, 2, 3, 4, 5}},
		{key: "bogus", want: []int64{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(SortProducts(items, tt.key)))
		})
	}
}

func TestSortProducts_FeaturedFirstIsStable(t *testing.T) {
	items := []Product{{ID: 1}, {ID: 2, Featured: true}, {ID: 3}, {ID: 4, Featured: true}}

	assert.Equal(t, []int64{2, 4, 1, 3}, ids(SortProducts(items, SortFeatured)))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(items), "input must not be reordered")
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceHigh, ParseSortKey("price-high"))
	assert.Equal(t, SortFeatured, ParseSortKey(""))
}
