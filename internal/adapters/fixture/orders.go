package fixture

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/phenrril/medwear/internal/domain"
)

const deliveryLeadTime = 5 * 24 * time.Hour

func (b *Backend) routeOrders(req Request, rest []string) (int, any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(rest) == 0 {
		switch req.Method {
		case http.MethodGet:
			return http.StatusOK, slices.Clone(b.orders)
		case http.MethodPost:
			return b.createOrder(req.Body)
		}
		return methodNotAllowed()
	}

	if rest[0] == "track" {
		if req.Method != http.MethodGet {
			return methodNotAllowed()
		}
		tracking := req.Query.Get("tracking")
		i := slices.IndexFunc(b.orders, func(o domain.Order) bool { return o.TrackingNumber == tracking })
		if tracking == "" || i < 0 {
			return http.StatusNotFound, detail("Order not found")
		}
		o := b.orders[i]
		return http.StatusOK, domain.TrackingInfo{
			TrackingNumber:    o.TrackingNumber,
			OrderID:           o.ID,
			OrderNumber:       o.OrderNumber,
			Status:            o.Status,
			EstimatedDelivery: o.EstimatedDelivery,
		}
	}

	id, ok := parseID(rest[0])
	i := slices.IndexFunc(b.orders, func(o domain.Order) bool { return o.ID == id })
	if !ok || i < 0 {
		return http.StatusNotFound, detail("Order not found")
	}

	switch req.Method {
	case http.MethodGet:
		return http.StatusOK, b.orders[i]
	case http.MethodPatch:
		var body struct {
			Status domain.OrderStatus `json:"status"`
		}
		if err := json.Unmarshal(req.Body, &body); err != nil || !body.Status.Valid() {
			return badRequest("Invalid status")
		}
		if body.Status == domain.OrderStatusCancelled && !b.orders[i].Status.Cancellable() {
			return badRequest(fmt.Sprintf("Order cannot be cancelled once %s", b.orders[i].Status))
		}
		b.orders[i].Status = body.Status
		return http.StatusOK, b.orders[i]
	}
	return methodNotAllowed()
}

func (b *Backend) createOrder(body []byte) (int, any) {
	var req domain.CreateOrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return badRequest("Invalid order data")
	}
	if len(req.Items) == 0 {
		return badRequest("Order must contain at least one item")
	}

	b.nextOrderID++
	now := b.opts.Now().UTC()
	eta := now.Add(deliveryLeadTime)
	addr, pm := req.ShippingAddress, req.PaymentMethod
	o := domain.Order{
		ID:                b.nextOrderID,
		OrderNumber:       fmt.Sprintf("ORD-%d", b.nextOrderID),
		Date:              now,
		Status:            domain.OrderStatusPending,
		Items:             req.Items,
		Subtotal:          req.Subtotal,
		Shipping:          req.Shipping,
		Tax:               req.Tax,
		Discount:          req.Discount,
		Total:             req.Total,
		ShippingAddress:   &addr,
		PaymentMethod:     &pm,
		TrackingNumber:    fmt.Sprintf("TRK-%d", b.nextOrderID),
		EstimatedDelivery: &eta,
		Notes:             req.Notes,
	}
	b.orders = slices.Insert(b.orders, 0, o)
	return http.StatusCreated, o
}
