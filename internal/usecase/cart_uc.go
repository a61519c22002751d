package usecase

import (
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/medwear/internal/domain"
)

const SliceCart = "cart"

type CartState struct {
	Items  []domain.CartLineItem
	Totals domain.Totals
}

// CartUC is the cart engine. Every mutation recomputes the totals from the
// lines.
type CartUC struct {
	s     store[CartState]
	newID func() string
}

func NewCartUC(notify Notifier) *CartUC {
	return &CartUC{
		s:     store[CartState]{name: SliceCart, notify: notify, state: CartState{Items: []domain.CartLineItem{}}},
		newID: uuid.NewString,
	}
}

// Snapshot returns a copy of the current cart.
func (uc *CartUC) Snapshot() CartState {
	var out CartState
	uc.s.read(func(st *CartState) {
		out = CartState{Items: slices.Clone(st.Items), Totals: st.Totals}
	})
	return out
}

func (uc *CartUC) Totals() domain.Totals {
	var t domain.Totals
	uc.s.read(func(st *CartState) { t = st.Totals })
	return t
}

func (uc *CartUC) IsEmpty() bool {
	empty := true
	uc.s.read(func(st *CartState) { empty = len(st.Items) == 0 })
	return empty
}

func recompute(st *CartState) {
	st.Totals = domain.ComputeTotals(st.Items, st.Totals.Shipping, st.Totals.Discount)
}

// AddItem merges into the line of the same (product, size, color) or appends
// a new one. The returned line reflects the state after the merge.
func (uc *CartUC) AddItem(in domain.AddItemInput) domain.CartLineItem {
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	var line domain.CartLineItem
	uc.s.update(func(st *CartState) {
		if i := slices.IndexFunc(st.Items, func(l domain.CartLineItem) bool {
			return l.SameVariant(in.ProductID, in.Size, in.Color)
		}); i >= 0 {
			st.Items[i].Quantity += qty
			line = st.Items[i]
		} else {
			line = domain.CartLineItem{
				ID:        uc.newID(),
				ProductID: in.ProductID,
				Name:      in.Name,
				Price:     in.Price,
				Quantity:  qty,
				Size:      in.Size,
				Color:     in.Color,
				Image:     in.Image,
			}
			st.Items = append(st.Items, line)
		}
		recompute(st)
	})
	log.Debug().Str("line", line.ID).Int64("product", line.ProductID).Int("qty", line.Quantity).Msg("cart add")
	return line
}

// AddSelection validates a product page selection and adds it, snapshotting
// the product's name, price and first image.
func (uc *CartUC) AddSelection(p domain.Product, sel domain.CartSelection) (domain.CartLineItem, error) {
	if err := ValidateSelection(sel); err != nil {
		return domain.CartLineItem{}, err
	}
	return uc.AddItem(domain.AddItemInput{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  sel.Quantity,
		Size:      sel.Size,
		Color:     sel.Color,
		Image:     p.PrimaryImage(),
	}), nil
}

func (uc *CartUC) RemoveItem(lineID string) {
	uc.s.update(func(st *CartState) {
		st.Items = slices.DeleteFunc(st.Items, func(l domain.CartLineItem) bool { return l.ID == lineID })
		recompute(st)
	})
}

// SetQuantity sets a line's quantity exactly; zero or less removes the line.
func (uc *CartUC) SetQuantity(lineID string, qty int) {
	uc.s.update(func(st *CartState) {
		if qty <= 0 {
			st.Items = slices.DeleteFunc(st.Items, func(l domain.CartLineItem) bool { return l.ID == lineID })
		} else if i := slices.IndexFunc(st.Items, func(l domain.CartLineItem) bool { return l.ID == lineID }); i >= 0 {
			st.Items[i].Quantity = qty
		}
		recompute(st)
	})
}

func (uc *CartUC) Clear() {
	uc.s.update(func(st *CartState) {
		st.Items = []domain.CartLineItem{}
		st.Totals = domain.Totals{}
	})
}

func (uc *CartUC) SetShipping(amount float64) {
	uc.s.update(func(st *CartState) {
		st.Totals.Shipping = amount
		recompute(st)
	})
}

func (uc *CartUC) SetDiscount(amount float64) {
	uc.s.update(func(st *CartState) {
		st.Totals.Discount = amount
		recompute(st)
	})
}

// ApplyPromoCode reports whether code was recognised. Unknown codes still
// reset the discount.
func (uc *CartUC) ApplyPromoCode(code string) bool {
	uc.s.update(func(st *CartState) {
		st.Totals.Shipping, st.Totals.Discount = domain.ApplyPromo(code, st.Totals)
		recompute(st)
	})
	ok := domain.IsPromoCode(code)
	log.Debug().Str("code", code).Bool("known", ok).Msg("cart promo")
	return ok
}
