package domain

import (
	"net/url"
	"slices"
	"strconv"
)

const (
	DefaultPriceMin = 0
	DefaultPriceMax = 500
)

// FilterState is the active product filter. Dimensions are combined with AND,
// values inside one multi-valued dimension with OR.
type FilterState struct {
	Category   Category   `json:"category,omitempty"`
	Profession []string   `json:"profession"`
	Sizes      []string   `json:"sizes"`
	Colors     []string   `json:"colors"`
	PriceRange [2]float64 `json:"priceRange"`
	InStock    bool       `json:"inStock"`
}

func DefaultFilters() FilterState {
	return FilterState{
		Profession: []string{},
		Sizes:      []string{},
		Colors:     []string{},
		PriceRange: [2]float64{DefaultPriceMin, DefaultPriceMax},
	}
}

// FilterPatch is a partial FilterState. Nil fields are left untouched; a
// non-nil empty slice clears that dimension.
type FilterPatch struct {
	Category   *Category
	Profession []string
	Sizes      []string
	Colors     []string
	PriceRange *[2]float64
	InStock    *bool
}

// Merge shallow-merges the patch into a copy of f.
func (f FilterState) Merge(p FilterPatch) FilterState {
	out := f.Clone()
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Profession != nil {
		out.Profession = slices.Clone(p.Profession)
	}
	if p.Sizes != nil {
		out.Sizes = slices.Clone(p.Sizes)
	}
	if p.Colors != nil {
		out.Colors = slices.Clone(p.Colors)
	}
	if p.PriceRange != nil {
		out.PriceRange = *p.PriceRange
	}
	if p.InStock != nil {
		out.InStock = *p.InStock
	}
	return out
}

func (f FilterState) Clone() FilterState {
	f.Profession = slices.Clone(f.Profession)
	f.Sizes = slices.Clone(f.Sizes)
	f.Colors = slices.Clone(f.Colors)
	return f
}

// Matches reports whether p passes every filter dimension. The price range is
// always applied.
func (f FilterState) Matches(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if len(f.Profession) > 0 && !anyOf(f.Profession, p.Profession) {
		return false
	}
	if len(f.Sizes) > 0 && !anyOf(f.Sizes, p.Sizes) {
		return false
	}
	if len(f.Colors) > 0 && !anyOf(f.Colors, p.Colors) {
		return false
	}
	if p.Price < f.PriceRange[0] || p.Price > f.PriceRange[1] {
		return false
	}
	if f.InStock && !p.InStock {
		return false
	}
	return true
}

// Apply returns the products of items that match f, preserving order.
func (f FilterState) Apply(items []Product) []Product {
	out := make([]Product, 0, len(items))
	for _, p := range items {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Params encodes f as the query parameters of GET /products/. Multi-valued
// dimensions repeat their key.
func (f FilterState) Params() url.Values {
	v := url.Values{}
	if f.Category != "" {
		v.Set("category", string(f.Category))
	}
	for _, p := range f.Profession {
		v.Add("profession", p)
	}
	for _, s := range f.Sizes {
		v.Add("sizes", s)
	}
	for _, c := range f.Colors {
		v.Add("colors", c)
	}
	v.Add("priceRange", strconv.FormatFloat(f.PriceRange[0], 'f', -1, 64))
	v.Add("priceRange", strconv.FormatFloat(f.PriceRange[1], 'f', -1, 64))
	if f.InStock {
		v.Set("inStock", "true")
	}
	return v
}

func anyOf(wanted, have []string) bool {
	for _, w := range wanted {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

// ParseFilterParams is the inverse of Params. Missing or malformed values
// keep their defaults.
func ParseFilterParams(v url.Values) FilterState {
	f := DefaultFilters()
	f.Category = Category(v.Get("category"))
	if p := v["profession"]; len(p) > 0 {
		f.Profession = slices.Clone(p)
	}
	if s := v["sizes"]; len(s) > 0 {
		f.Sizes = slices.Clone(s)
	}
	if c := v["colors"]; len(c) > 0 {
		f.Colors = slices.Clone(c)
	}
	if pr := v["priceRange"]; len(pr) == 2 {
		lo, errLo := strconv.ParseFloat(pr[0], 64)
		hi, errHi := strconv.ParseFloat(pr[1], 64)
		if errLo == nil && errHi == nil {
			f.PriceRange = [2]float64{lo, hi}
		}
	}
	f.InStock, _ = strconv.ParseBool(v.Get("inStock"))
	return f
}
