package usecase

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/phenrril/medwear/internal/domain"
)

const SliceOrders = "orders"

type OrderRequests struct {
	List   domain.Request
	Get    domain.Request
	Create domain.Request
	Cancel domain.Request
	Track  domain.Request
}

type OrderState struct {
	Orders        []domain.Order
	Current       *domain.Order
	Tracking      *domain.TrackingInfo
	Loading       bool
	Error         string
	CreateLoading bool
	CreateError   string
	Requests      OrderRequests
}

type OrderUC struct {
	api domain.APIClient
	s   store[OrderState]
}

func NewOrderUC(api domain.APIClient, notify Notifier) *OrderUC {
	return &OrderUC{
		api: api,
		s:   store[OrderState]{name: SliceOrders, notify: notify, state: OrderState{Orders: []domain.Order{}}},
	}
}

func (uc *OrderUC) Snapshot() OrderState {
	var out OrderState
	uc.s.read(func(st *OrderState) {
		out = *st
		out.Orders = domain.CloneAll(st.Orders)
		out.Current = domain.ClonePtr(st.Current)
		out.Tracking = domain.ClonePtr(st.Tracking)
	})
	return out
}

// replace swaps in o wherever an order with the same id is held, in the
// list and as the current order.
func (st *OrderState) replace(o domain.Order) {
	if i := slices.IndexFunc(st.Orders, func(x domain.Order) bool { return x.ID == o.ID }); i >= 0 {
		st.Orders[i] = o.Clone()
	}
	if st.Current != nil && st.Current.ID == o.ID {
		st.Current = domain.ClonePtr(&o)
	}
}

func (uc *OrderUC) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	return dispatch(&uc.s, lifecycle[OrderState, []domain.Order]{
		op:       "fetchOrders",
		fallback: "Failed to fetch orders",
		pending: func(st *OrderState) {
			st.Loading, st.Error = true, ""
			st.Requests.List = domain.Pending()
		},
		fulfilled: func(st *OrderState, orders []domain.Order) {
			st.Loading = false
			st.Orders = domain.CloneAll(orders)
			st.Requests.List = domain.Fulfilled()
		},
		rejected: func(st *OrderState, msg string) {
			st.Loading, st.Error = false, msg
			st.Requests.List = domain.Rejected(msg)
		},
	}, func() ([]domain.Order, error) {
		resp, err := uc.api.Get(ctx, "/orders/", nil)
		if err != nil {
			return nil, err
		}
		orders, _, err := domain.DecodeList[domain.Order](resp.Data)
		return orders, err
	})
}

func (uc *OrderUC) FetchOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	return dispatch(&uc.s, lifecycle[OrderState, *domain.Order]{
		op:       "fetchOrderById",
		fallback: "Failed to fetch order details",
		pending: func(st *OrderState) {
			st.Loading, st.Error = true, ""
			st.Requests.Get = domain.Pending()
		},
		fulfilled: func(st *OrderState, o *domain.Order) {
			st.Loading = false
			st.Current = domain.ClonePtr(o)
			st.Requests.Get = domain.Fulfilled()
		},
		rejected: func(st *OrderState, msg string) {
			st.Loading, st.Error = false, msg
			st.Requests.Get = domain.Rejected(msg)
		},
	}, func() (*domain.Order, error) {
		return decodeOne[domain.Order](uc.api.Get(ctx, fmt.Sprintf("/orders/%d/", id), nil))
	})
}

// CreateOrder submits an order. On success it becomes the current order and
// the head of the order list.
func (uc *OrderUC) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	return dispatch(&uc.s, lifecycle[OrderState, *domain.Order]{
		op:       "createOrder",
		fallback: "Failed to create order",
		pending: func(st *OrderState) {
			st.CreateLoading, st.CreateError = true, ""
			st.Requests.Create = domain.Pending()
		},
		fulfilled: func(st *OrderState, o *domain.Order) {
			st.CreateLoading = false
			st.Current = domain.ClonePtr(o)
			st.Orders = slices.Insert(st.Orders, 0, o.Clone())
			st.Requests.Create = domain.Fulfilled()
		},
		rejected: func(st *OrderState, msg string) {
			st.CreateLoading, st.CreateError = false, msg
			st.Requests.Create = domain.Rejected(msg)
		},
	}, func() (*domain.Order, error) {
		return decodeOne[domain.Order](uc.api.Post(ctx, "/orders/", req))
	})
}

// CancelOrder asks the server to cancel an order and installs the returned
// order in both the list and the current order.
func (uc *OrderUC) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return dispatch(&uc.s, lifecycle[OrderState, *domain.Order]{
		op:       "cancelOrder",
		fallback: "Failed to cancel order",
		pending: func(st *OrderState) {
			st.Loading = true
			st.Requests.Cancel = domain.Pending()
		},
		fulfilled: func(st *OrderState, o *domain.Order) {
			st.Loading = false
			st.replace(*o)
			st.Requests.Cancel = domain.Fulfilled()
		},
		rejected: func(st *OrderState, msg string) {
			st.Loading, st.Error = false, msg
			st.Requests.Cancel = domain.Rejected(msg)
		},
	}, func() (*domain.Order, error) {
		body := map[string]domain.OrderStatus{"status": domain.OrderStatusCancelled}
		return decodeOne[domain.Order](uc.api.Patch(ctx, fmt.Sprintf("/orders/%d/", id), body))
	})
}

func (uc *OrderUC) TrackOrder(ctx context.Context, trackingNumber string) (*domain.TrackingInfo, error) {
	return dispatch(&uc.s, lifecycle[OrderState, *domain.TrackingInfo]{
		op:       "trackOrder",
		fallback: "Failed to track order",
		pending: func(st *OrderState) {
			st.Loading, st.Error = true, ""
			st.Requests.Track = domain.Pending()
		},
		fulfilled: func(st *OrderState, t *domain.TrackingInfo) {
			st.Loading = false
			st.Tracking = domain.ClonePtr(t)
			st.Requests.Track = domain.Fulfilled()
		},
		rejected: func(st *OrderState, msg string) {
			st.Loading, st.Error = false, msg
			st.Requests.Track = domain.Rejected(msg)
		},
	}, func() (*domain.TrackingInfo, error) {
		return decodeOne[domain.TrackingInfo](uc.api.Get(ctx, "/orders/track/", url.Values{"tracking": {trackingNumber}}))
	})
}

func (uc *OrderUC) ClearCurrentOrder() {
	uc.s.update(func(st *OrderState) { st.Current = nil })
}

func (uc *OrderUC) ClearErrors() {
	uc.s.update(func(st *OrderState) { st.Error, st.CreateError = "", "" })
}

func (uc *OrderUC) ClearTrackingInfo() {
	uc.s.update(func(st *OrderState) { st.Tracking = nil })
}

func (uc *OrderUC) SetCurrentOrder(o *domain.Order) {
	uc.s.update(func(st *OrderState) {
		st.Current = domain.ClonePtr(o)
	})
}

// UpdateOrderStatus sets a status locally on the list entry and the current
// order, without a remote call.
func (uc *OrderUC) UpdateOrderStatus(id int64, status domain.OrderStatus) {
	uc.s.update(func(st *OrderState) {
		if i := slices.IndexFunc(st.Orders, func(x domain.Order) bool { return x.ID == id }); i >= 0 {
			st.Orders[i].Status = status
		}
		if st.Current != nil && st.Current.ID == id {
			st.Current.Status = status
		}
	})
}
