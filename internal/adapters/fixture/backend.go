package fixture

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/medwear/internal/domain"
)

//go:embed seed.json
var seedJSON []byte

const defaultPageSize = 12

type seed struct {
	Products []domain.Product      `json:"products"`
	User     domain.User           `json:"user"`
	Orders   []domain.Order        `json:"orders"`
	Wishlist []domain.WishlistItem `json:"wishlist"`
}

type Options struct {
	// Latency delays every request, honouring context cancellation.
	Latency time.Duration
	// RequireAuth rejects user, order and wishlist requests without a valid
	// access token.
	RequireAuth bool
	// Secret signs the issued tokens.
	Secret []byte
	Now    func() time.Time
}

// Request is one call against the backend, independent of transport.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
	Token  string
}

// Backend is a deterministic in-memory storefront server seeded with a
// fixed catalog, one user, two orders and a two entry wishlist.
type Backend struct {
	opts Options

	mu             sync.Mutex
	products       []domain.Product
	user           domain.User
	orders         []domain.Order
	wishlist       []domain.WishlistItem
	nextOrderID    int64
	nextWishlistID int64
}

func New(opts Options) (*Backend, error) {
	var s seed
	if err := json.Unmarshal(seedJSON, &s); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.Secret) == 0 {
		opts.Secret = []byte("medwear-fixture")
	}
	b := &Backend{
		opts:     opts,
		products: s.Products,
		user:     s.User,
		orders:   s.Orders,
		wishlist: s.Wishlist,
	}
	for _, o := range b.orders {
		b.nextOrderID = max(b.nextOrderID, o.ID)
	}
	for _, w := range b.wishlist {
		b.nextWishlistID = max(b.nextWishlistID, w.ID)
	}
	return b, nil
}

func detail(msg string) map[string]any {
	return map[string]any{"detail": msg}
}

// Handle routes one request and returns the status code and the JSON
// payload.
func (b *Backend) Handle(ctx context.Context, req Request) (int, any) {
	if b.opts.Latency > 0 {
		select {
		case <-ctx.Done():
			return http.StatusGatewayTimeout, detail(ctx.Err().Error())
		case <-time.After(b.opts.Latency):
		}
	}

	path := "/" + strings.Trim(req.Path, "/") + "/"
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if b.opts.RequireAuth && protected(path) {
		if _, err := b.verify(req.Token, audienceAccess); err != nil {
			return http.StatusUnauthorized, detail("Authentication credentials were not provided or are invalid.")
		}
	}

	log.Debug().Str("method", req.Method).Str("path", path).Msg("fixture request")

	switch parts[0] {
	case "products":
		return b.routeProducts(req, parts[1:])
	case "auth":
		return b.routeAuth(req, parts[1:])
	case "users":
		return b.routeUsers(req, parts[1:])
	case "orders":
		return b.routeOrders(req, parts[1:])
	case "wishlist":
		return b.routeWishlist(req, parts[1:])
	}
	return http.StatusNotFound, detail("Not found.")
}

func protected(path string) bool {
	for _, p := range []string{"/users/", "/orders/", "/wishlist/", "/auth/logout/"} {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func methodNotAllowed() (int, any) {
	return http.StatusMethodNotAllowed, detail("Method not allowed.")
}

func badRequest(msg string) (int, any) {
	return http.StatusBadRequest, detail(msg)
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

func (b *Backend) routeProducts(req Request, rest []string) (int, any) {
	if req.Method != http.MethodGet {
		return methodNotAllowed()
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case len(rest) == 0:
		return http.StatusOK, b.listProducts(req.Query)
	case rest[0] == "featured":
		out := []domain.Product{}
		for _, p := range b.products {
			if p.Featured {
				out = append(out, p)
			}
		}
		return http.StatusOK, out
	case rest[0] == "search":
		q := strings.ToLower(req.Query.Get("q"))
		out := []domain.Product{}
		for _, p := range b.products {
			if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
				out = append(out, p)
			}
		}
		return http.StatusOK, domain.ProductPage{Results: out, Count: len(out)}
	}

	id, ok := parseID(rest[0])
	if !ok {
		return http.StatusNotFound, detail("Product not found")
	}
	i := slices.IndexFunc(b.products, func(p domain.Product) bool { return p.ID == id })
	if i < 0 {
		return http.StatusNotFound, detail("Product not found")
	}
	return http.StatusOK, b.products[i]
}

func (b *Backend) listProducts(q url.Values) domain.ProductPage {
	filtered := domain.ParseFilterParams(q).Apply(b.products)
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(q.Get("page_size"))
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	results, _ := domain.Paginate(filtered, page, size)
	out := domain.ProductPage{Results: results, Count: len(filtered)}
	if page*size < len(filtered) {
		next := page + 1
		out.Next = &next
	}
	if page > 1 {
		prev := page - 1
		out.Previous = &prev
	}
	return out
}

func (b *Backend) routeUsers(req Request, rest []string) (int, any) {
	if len(rest) == 0 {
		return http.StatusNotFound, detail("Not found.")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case rest[0] == "profile" && req.Method == http.MethodGet:
		return http.StatusOK, b.user
	case rest[0] == "profile" && req.Method == http.MethodPatch:
		merged, err := domain.MergeJSON(b.user, req.Body)
		if err != nil {
			return badRequest("Invalid profile data")
		}
		b.user = merged
		return http.StatusOK, b.user
	case rest[0] == "password" && req.Method == http.MethodPost:
		var pc domain.PasswordChange
		if err := json.Unmarshal(req.Body, &pc); err != nil || pc.OldPassword == "" {
			return badRequest("Current password is required")
		}
		if len(pc.NewPassword) < 8 {
			return badRequest("New password must be at least 8 characters")
		}
		return http.StatusOK, map[string]string{"message": "Password updated"}
	}
	return methodNotAllowed()
}

func (b *Backend) routeWishlist(req Request, rest []string) (int, any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch req.Method {
	case http.MethodGet:
		return http.StatusOK, slices.Clone(b.wishlist)
	case http.MethodPost:
		var body struct {
			ProductID int64 `json:"product_id"`
		}
		if err := json.Unmarshal(req.Body, &body); err != nil || body.ProductID == 0 {
			return badRequest("product_id is required")
		}
		i := slices.IndexFunc(b.products, func(p domain.Product) bool { return p.ID == body.ProductID })
		if i < 0 {
			return http.StatusNotFound, detail("Product not found")
		}
		b.nextWishlistID++
		p := b.products[i]
		item := domain.WishlistItem{ID: b.nextWishlistID, ProductID: p.ID, Product: &p}
		b.wishlist = append(b.wishlist, item)
		return http.StatusCreated, item
	case http.MethodDelete:
		if len(rest) == 0 {
			return methodNotAllowed()
		}
		id, ok := parseID(rest[0])
		i := slices.IndexFunc(b.wishlist, func(w domain.WishlistItem) bool { return w.ID == id })
		if !ok || i < 0 {
			return http.StatusNotFound, detail("Wishlist item not found")
		}
		b.wishlist = slices.Delete(b.wishlist, i, i+1)
		return http.StatusOK, map[string]string{"message": "Deleted successfully"}
	}
	return methodNotAllowed()
}
