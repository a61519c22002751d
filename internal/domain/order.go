package domain

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether a shopper may still request cancellation.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

type Address struct {
	ID        int64  `json:"id,omitempty"`
	Type      string `json:"type,omitempty"` // shipping, billing
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// Order line items are a frozen copy of the cart at purchase time.
type Order struct {
	ID                int64          `json:"id"`
	OrderNumber       string         `json:"orderNumber"`
	Date              time.Time      `json:"date"`
	Status            OrderStatus    `json:"status"`
	Items             []CartLineItem `json:"items"`
	Subtotal          float64        `json:"subtotal"`
	Shipping          float64        `json:"shipping"`
	Tax               float64        `json:"tax"`
	Discount          float64        `json:"discount"`
	Total             float64        `json:"total"`
	ShippingAddress   *Address       `json:"shippingAddress,omitempty"`
	PaymentMethod     *PaymentMethod `json:"paymentMethod,omitempty"`
	TrackingNumber    string         `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time     `json:"estimatedDelivery,omitempty"`
	Notes             string         `json:"notes,omitempty"`
}

type PaymentMethod struct {
	Type     string `json:"type"`
	LastFour string `json:"last_four"`
}

// CreateOrderRequest is the body of POST /orders/.
type CreateOrderRequest struct {
	Items           []CartLineItem `json:"items"`
	ShippingAddress Address        `json:"shipping_address"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	Subtotal        float64        `json:"subtotal"`
	Shipping        float64        `json:"shipping"`
	Tax             float64        `json:"tax"`
	Discount        float64        `json:"discount"`
	Total           float64        `json:"total"`
	Notes           string         `json:"notes"`
}

// CheckoutForm is the data collected by the multi-step checkout. Card data is
// only used for its last four digits.
type CheckoutForm struct {
	FirstName  string `validate:"required"`
	LastName   string `validate:"required"`
	Email      string `validate:"required,email"`
	Phone      string
	Address1   string `validate:"required"`
	Address2   string
	City       string `validate:"required"`
	State      string `validate:"required"`
	ZipCode    string `validate:"required"`
	Country    string `validate:"required"`
	CardNumber string
	ExpiryDate string
	CVV        string
	CardName   string
	Notes      string
}

func (f CheckoutForm) ShippingAddress() Address {
	return Address{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Address1:  f.Address1,
		Address2:  f.Address2,
		City:      f.City,
		State:     f.State,
		ZipCode:   f.ZipCode,
		Country:   f.Country,
	}
}

func (f CheckoutForm) LastFour() string {
	if len(f.CardNumber) <= 4 {
		return f.CardNumber
	}
	return f.CardNumber[len(f.CardNumber)-4:]
}

type TrackingInfo struct {
	TrackingNumber    string      `json:"trackingNumber"`
	OrderID           int64       `json:"orderId"`
	OrderNumber       string      `json:"orderNumber"`
	Status            OrderStatus `json:"status"`
	EstimatedDelivery *time.Time  `json:"estimatedDelivery,omitempty"`
}
