package domain

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
	SortName      SortKey = "name"
)

// SortProducts returns a sorted copy of items. Unknown keys sort like
// SortFeatured. The sort is stable for every key.
func SortProducts(items []Product, key SortKey) []Product {
	out := make([]Product, len(items))
	copy(out, items)

	var less func(a, b Product) bool
	switch key {
	case SortPriceLow:
		less = func(a, b Product) bool { return a.Price < b.Price }
	case SortPriceHigh:
		less = func(a, b Product) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b Product) bool { return a.Rating > b.Rating }
	case SortNewest:
		// ids grow with insertion so they stand in for recency
		less = func(a, b Product) bool { return a.ID > b.ID }
	case SortName:
		c := collate.New(language.English)
		less = func(a, b Product) bool { return c.CompareString(a.Name, b.Name) < 0 }
	default:
		less = func(a, b Product) bool { return a.Featured && !b.Featured }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ParseSortKey maps free-form input to a known key, defaulting to SortFeatured.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceLow, SortPriceHigh, SortRating, SortNewest, SortName, SortFeatured:
		return k
	}
	return SortFeatured
}
