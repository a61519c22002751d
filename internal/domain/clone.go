package domain

import (
	"encoding/json"
	"slices"
)

// Clone returns a copy of p that shares no slices with it.
func (p Product) Clone() Product {
	p.Profession = slices.Clone(p.Profession)
	p.Sizes = slices.Clone(p.Sizes)
	p.Colors = slices.Clone(p.Colors)
	p.Images = slices.Clone(p.Images)
	return p
}

func (u User) Clone() User {
	u.Addresses = slices.Clone(u.Addresses)
	return u
}

func (o Order) Clone() Order {
	o.Items = slices.Clone(o.Items)
	if o.ShippingAddress != nil {
		a := *o.ShippingAddress
		o.ShippingAddress = &a
	}
	if o.PaymentMethod != nil {
		pm := *o.PaymentMethod
		o.PaymentMethod = &pm
	}
	if o.EstimatedDelivery != nil {
		eta := *o.EstimatedDelivery
		o.EstimatedDelivery = &eta
	}
	return o
}

func (t TrackingInfo) Clone() TrackingInfo {
	if t.EstimatedDelivery != nil {
		eta := *t.EstimatedDelivery
		t.EstimatedDelivery = &eta
	}
	return t
}

func (w WishlistItem) Clone() WishlistItem {
	if w.Product != nil {
		p := w.Product.Clone()
		w.Product = &p
	}
	return w
}

// CloneAll copies every element of items into a new, never nil, slice.
func CloneAll[T interface{ Clone() T }](items []T) []T {
	out := make([]T, len(items))
	for i, v := range items {
		out[i] = v.Clone()
	}
	return out
}

// ClonePtr copies the value behind v; nil stays nil.
func ClonePtr[T interface{ Clone() T }](v *T) *T {
	if v == nil {
		return nil
	}
	c := (*v).Clone()
	return &c
}

// MergeJSON overlays the top-level keys present in patch onto cur. Nested
// objects in patch replace the current ones whole.
func MergeJSON[T any](cur T, patch []byte) (T, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return cur, err
	}
	base, err := json.Marshal(cur)
	if err != nil {
		return cur, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return cur, err
	}
	for k, v := range fields {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return cur, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return cur, err
	}
	return out, nil
}
