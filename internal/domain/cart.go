package domain

import (
	"math"
	"strings"
)

const TaxRate = 0.085

// CartLineItem is one (product, size, color) entry. Name, price and image are
// copied when the line is created and never follow later catalog changes.
type CartLineItem struct {
	ID        string  `json:"id"`
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Image     string  `json:"image"`
}

// SameVariant reports whether l is the line for (productID, size, color).
func (l CartLineItem) SameVariant(productID int64, size, color string) bool {
	return l.ProductID == productID && l.Size == size && l.Color == color
}

// AddItemInput is the add-to-cart intent. A zero Quantity means one.
type AddItemInput struct {
	ProductID int64
	Name      string
	Price     float64
	Quantity  int
	Size      string
	Color     string
	Image     string
}

// CartSelection is what the shopper picked on a product page; it must be
// complete before an add-to-cart intent is issued.
type CartSelection struct {
	ProductID int64  `validate:"required"`
	Size      string `validate:"required"`
	Color     string `validate:"required"`
	Quantity  int    `validate:"gte=1"`
}

type Totals struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Shipping  float64 `json:"shipping"`
	Discount  float64 `json:"discount"`
	Total     float64 `json:"total"`
}

// ComputeTotals derives every cart total from the lines. Total never drops
// below zero.
func ComputeTotals(lines []CartLineItem, shipping, discount float64) Totals {
	t := Totals{Shipping: shipping, Discount: discount}
	for _, l := range lines {
		t.Subtotal += l.Price * float64(l.Quantity)
		t.ItemCount += l.Quantity
	}
	t.Tax = t.Subtotal * TaxRate
	t.Total = math.Max(0, t.Subtotal+t.Shipping+t.Tax-t.Discount)
	return t
}

type promo func(t Totals) (shipping, discount float64)

// SAVE10 takes its percentage from the current total, which already includes
// shipping, tax and any earlier discount.
var promoCodes = map[string]promo{
	"SAVE10":     func(t Totals) (float64, float64) { return t.Shipping, t.Total * 0.1 },
	"HEALTHCARE": func(t Totals) (float64, float64) { return t.Shipping, 25 },
	"FREESHIP":   func(t Totals) (float64, float64) { return 0, t.Discount },
}

// ApplyPromo resolves code case-insensitively against the promo table and
// returns the new shipping and discount. Unknown codes reset the discount.
func ApplyPromo(code string, current Totals) (shipping, discount float64) {
	if p, ok := promoCodes[strings.ToUpper(code)]; ok {
		return p(current)
	}
	return current.Shipping, 0
}

// IsPromoCode reports whether code is in the promo table.
func IsPromoCode(code string) bool {
	_, ok := promoCodes[strings.ToUpper(code)]
	return ok
}
