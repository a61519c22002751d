package fixture

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/medwear/internal/adapters/storage/memory"
	"github.com/phenrril/medwear/internal/domain"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newClient(t *testing.T, opts Options) (*Client, *memory.TokenStore) {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	b, err := New(opts)
	require.NoError(t, err)
	tokens := memory.NewTokenStore()
	return NewClient(b, tokens), tokens
}

func productIDs(items []domain.Product) []int64 {
	out := make([]int64, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestProducts(t *testing.T) {
	c, _ := newClient(t, Options{})
	ctx := context.Background()

	t.Run("list everything", func(t *testing.T) {
		resp, err := c.Get(ctx, "/products/", nil)
		require.NoError(t, err)
		var page domain.ProductPage
		require.NoError(t, resp.Decode(&page))
		assert.Equal(t, 10, page.Count)
		assert.Len(t, page.Results, 10)
		assert.Nil(t, page.Next)
		assert.Nil(t, page.Previous)
	})

	t.Run("filters server side", func(t *testing.T) {
		cat := domain.CategoryScrubs
		in := true
		params := domain.DefaultFilters().Merge(domain.FilterPatch{Category: &cat, InStock: &in}).Params()
		resp, err := c.Get(ctx, "/products/", params)
		require.NoError(t, err)
		var page domain.ProductPage
		require.NoError(t, resp.Decode(&page))
		assert.Equal(t, []int64{1, 4, 5}, productIDs(page.Results))
	})

	t.Run("page beyond range", func(t *testing.T) {
		resp, err := c.Get(ctx, "/products/", url.Values{"page": {"2"}})
		require.NoError(t, err)
		var page domain.ProductPage
		require.NoError(t, resp.Decode(&page))
		assert.Empty(t, page.Results)
		assert.Equal(t, 10, page.Count)
		require.NotNil(t, page.Previous)
		assert.Equal(t, 1, *page.Previous)
	})

	t.Run("page size from query", func(t *testing.T) {
		resp, err := c.Get(ctx, "/products/", url.Values{"page": {"3"}, "page_size": {"4"}})
		require.NoError(t, err)
		var page domain.ProductPage
		require.NoError(t, resp.Decode(&page))
		assert.Equal(t, 10, page.Count)
		assert.Len(t, page.Results, 2)
		assert.Nil(t, page.Next)
		require.NotNil(t, page.Previous)
		assert.Equal(t, 2, *page.Previous)
	})

	t.Run("invalid page size falls back", func(t *testing.T) {
		resp, err := c.Get(ctx, "/products/", url.Values{"page_size": {"zero"}})
		require.NoError(t, err)
		var page domain.ProductPage
		require.NoError(t, resp.Decode(&page))
		assert.Len(t, page.Results, 10)
	})

	t.Run("featured", func(t *testing.T) {
		resp, err := c.Get(ctx, "/products/featured/", nil)
		require.NoError(t, err)
		items, _, err := domain.DecodeList[domain.Product](resp.Data)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, productIDs(items))
	})

	t.Run("search matches name or description", func(t *testing.T) {
		resp, err := c.Get(ctx, "/products/search/", url.Values{"q": {"Lab Coat"}})
		require.NoError(t, err)
		items, count, err := domain.DecodeList[domain.Product](resp.Data)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 6}, productIDs(items))
		assert.Equal(t, 2, count)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := c.Get(ctx, "/products/99/", nil)
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, "Product not found", domain.ErrorMessage(err, "Failed to fetch product"))
	})
}

func TestAuth(t *testing.T) {
	c, tokens := newClient(t, Options{RequireAuth: true})
	ctx := context.Background()

	_, err := c.Get(ctx, "/orders/", nil)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	resp, err := c.Post(ctx, "/auth/login/", domain.Credentials{Email: "user@example.com", Password: "secret"})
	require.NoError(t, err)
	var res domain.AuthResult
	require.NoError(t, resp.Decode(&res))
	require.NotNil(t, res.User)
	assert.Equal(t, "user@example.com", res.User.Email)
	assert.True(t, domain.TokenExpiry(res.Access).Equal(fixedNow.Add(accessTTL)))

	require.NoError(t, tokens.Save(domain.NewToken(res.Access, res.Refresh)))
	_, err = c.Get(ctx, "/orders/", nil)
	require.NoError(t, err)

	t.Run("refresh issues a new access token", func(t *testing.T) {
		resp, err := c.Post(ctx, "/auth/token/refresh/", map[string]string{"refresh": res.Refresh})
		require.NoError(t, err)
		var out map[string]string
		require.NoError(t, resp.Decode(&out))
		assert.NotEmpty(t, out["access"])
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := c.Post(ctx, "/auth/token/refresh/", map[string]string{"refresh": res.Access})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("malformed refresh body", func(t *testing.T) {
		status, payload := c.backend.Handle(ctx, Request{Method: http.MethodPost, Path: "/auth/token/refresh/", Body: []byte("{")})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, detail("Refresh token is required"), payload)
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := c.Post(ctx, "/auth/login/", domain.Credentials{Email: "user@example.com"})
		require.Error(t, err)
		assert.Equal(t, "Invalid credentials", domain.ErrorMessage(err, "Login failed"))
	})
}

func TestOrders(t *testing.T) {
	c, _ := newClient(t, Options{})
	ctx := context.Background()

	resp, err := c.Post(ctx, "/orders/", domain.CreateOrderRequest{
		Items:    []domain.CartLineItem{{ID: "x", ProductID: 8, Name: "Professional Stethoscope", Price: 189.99, Quantity: 1}},
		Subtotal: 189.99,
		Total:    206.14,
	})
	require.NoError(t, err)
	var created domain.Order
	require.NoError(t, resp.Decode(&created))
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "ORD-3", created.OrderNumber)
	assert.Equal(t, "TRK-3", created.TrackingNumber)
	assert.Equal(t, domain.OrderStatusPending, created.Status)

	resp, err = c.Get(ctx, "/orders/", nil)
	require.NoError(t, err)
	orders, _, err := domain.DecodeList[domain.Order](resp.Data)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{orders[0].ID, orders[1].ID, orders[2].ID})

	t.Run("track", func(t *testing.T) {
		resp, err := c.Get(ctx, "/orders/track/", url.Values{"tracking": {"TRK987654321"}})
		require.NoError(t, err)
		var info domain.TrackingInfo
		require.NoError(t, resp.Decode(&info))
		assert.Equal(t, "ORD-2024-002", info.OrderNumber)
		assert.Equal(t, domain.OrderStatusShipped, info.Status)
	})

	t.Run("delivered orders cannot be cancelled", func(t *testing.T) {
		_, err := c.Patch(ctx, "/orders/1/", map[string]string{"status": "cancelled"})
		require.Error(t, err)
		assert.Equal(t, "Order cannot be cancelled once delivered", domain.ErrorMessage(err, ""))
	})

	t.Run("pending orders can be cancelled", func(t *testing.T) {
		resp, err := c.Patch(ctx, "/orders/3/", map[string]string{"status": "cancelled"})
		require.NoError(t, err)
		var o domain.Order
		require.NoError(t, resp.Decode(&o))
		assert.Equal(t, domain.OrderStatusCancelled, o.Status)
	})

	t.Run("empty order rejected", func(t *testing.T) {
		_, err := c.Post(ctx, "/orders/", domain.CreateOrderRequest{})
		assert.Error(t, err)
	})
}

func TestWishlistAndProfile(t *testing.T) {
	c, _ := newClient(t, Options{})
	ctx := context.Background()

	resp, err := c.Post(ctx, "/wishlist/", map[string]int64{"product_id": 8})
	require.NoError(t, err)
	var added domain.WishlistItem
	require.NoError(t, resp.Decode(&added))
	assert.Equal(t, int64(3), added.ID)
	require.NotNil(t, added.Product)
	assert.Equal(t, "Professional Stethoscope", added.Product.Name)

	_, err = c.Delete(ctx, "/wishlist/1/")
	require.NoError(t, err)

	resp, err = c.Get(ctx, "/wishlist/", nil)
	require.NoError(t, err)
	items, _, err := domain.DecodeList[domain.WishlistItem](resp.Data)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, []int64{items[0].ProductID, items[1].ProductID})

	resp, err = c.Patch(ctx, "/users/profile/", map[string]any{"phone": "+1-555-9999"})
	require.NoError(t, err)
	var u domain.User
	require.NoError(t, resp.Decode(&u))
	assert.Equal(t, "+1-555-9999", u.Phone)
	assert.Equal(t, "user@example.com", u.Email)
	assert.Len(t, u.Addresses, 2)

	_, err = c.Post(ctx, "/users/password/change/", domain.PasswordChange{OldPassword: "old", NewPassword: "short"})
	assert.Equal(t, "New password must be at least 8 characters", domain.ErrorMessage(err, ""))
}

func TestLatencyHonoursContext(t *testing.T) {
	c, _ := newClient(t, Options{Latency: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "/products/featured/", nil)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 504, apiErr.Status)
}
