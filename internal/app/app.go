package app

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/phenrril/medwear/internal/adapters/fixture"
	"github.com/phenrril/medwear/internal/adapters/httpapi"
	"github.com/phenrril/medwear/internal/adapters/storage/memory"
	"github.com/phenrril/medwear/internal/adapters/storage/tokenfile"
	"github.com/phenrril/medwear/internal/config"
	"github.com/phenrril/medwear/internal/domain"
	"github.com/phenrril/medwear/internal/usecase"
)

// App holds the storefront state: one instance per session, passed around
// explicitly.
type App struct {
	API     domain.APIClient
	Tokens  domain.TokenStore
	Cart    *usecase.CartUC
	Catalog *usecase.CatalogUC
	Orders  *usecase.OrderUC
	User    *usecase.UserUC

	mu     sync.Mutex
	nextID int
	subs   map[int]func(slice string)
}

// NewApp builds the App from configuration: the in-process fixture backend
// when api.useMock is set, the HTTP transport otherwise.
func NewApp(cfg *config.Config) (*App, error) {
	var tokens domain.TokenStore = memory.NewTokenStore()
	if cfg.Auth.TokenFile != "" {
		tokens = tokenfile.New(cfg.Auth.TokenFile)
	}

	var api domain.APIClient
	if cfg.API.UseMock {
		b, err := fixture.New(fixture.Options{
			Latency:     cfg.Mock.Latency,
			RequireAuth: cfg.Mock.RequireAuth,
			Secret:      []byte(cfg.Mock.Secret),
		})
		if err != nil {
			return nil, errors.Wrap(err, "fixture backend")
		}
		api = fixture.NewClient(b, tokens)
		log.Info().Dur("latency", cfg.Mock.Latency).Msg("using fixture backend")
	} else {
		api = httpapi.New(cfg.API.BaseURL, cfg.API.Timeout, tokens)
		log.Info().Str("base_url", cfg.API.BaseURL).Msg("using remote api")
	}

	return New(api, tokens, cfg.Catalog.PageSize), nil
}

func New(api domain.APIClient, tokens domain.TokenStore, pageSize int) *App {
	a := &App{API: api, Tokens: tokens, subs: map[int]func(string){}}
	a.Cart = usecase.NewCartUC(a.publish)
	a.Catalog = usecase.NewCatalogUC(api, pageSize, a.publish)
	a.Orders = usecase.NewOrderUC(api, a.publish)
	a.User = usecase.NewUserUC(api, tokens, a.publish)
	return a
}

// Subscribe registers fn to be told the slice name after every state change.
// The returned func removes it.
func (a *App) Subscribe(fn func(slice string)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

func (a *App) publish(slice string) {
	a.mu.Lock()
	fns := make([]func(string), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.mu.Unlock()
	for _, fn := range fns {
		fn(slice)
	}
}

// Bootstrap loads the home page data concurrently: featured products, the
// first catalog page and, when a stored session exists, the profile. Failures
// are recorded in the slices; only the first one is returned.
func (a *App) Bootstrap(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		_, err := a.Catalog.FetchFeaturedProducts(ctx)
		return err
	})
	g.Go(func() error {
		_, err := a.Catalog.FetchProducts(ctx, 1, a.Catalog.Snapshot().Filters)
		return err
	})
	if a.User.RestoreSession() {
		g.Go(func() error {
			_, err := a.User.FetchProfile(ctx)
			return err
		})
	}
	return g.Wait()
}

// Checkout turns the cart into an order. The cart is only cleared once the
// order has been created.
func (a *App) Checkout(ctx context.Context, form domain.CheckoutForm) (*domain.Order, error) {
	if !a.User.IsAuthenticated() {
		return nil, domain.ErrAuthRequired
	}
	if err := usecase.ValidateCheckout(form); err != nil {
		return nil, err
	}
	cart := a.Cart.Snapshot()
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	req := domain.CreateOrderRequest{
		Items:           cart.Items,
		ShippingAddress: form.ShippingAddress(),
		PaymentMethod:   domain.PaymentMethod{Type: "card", LastFour: form.LastFour()},
		Subtotal:        cart.Totals.Subtotal,
		Shipping:        cart.Totals.Shipping,
		Tax:             cart.Totals.Tax,
		Discount:        cart.Totals.Discount,
		Total:           cart.Totals.Total,
		Notes:           form.Notes,
	}
	order, err := a.Orders.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	a.Cart.Clear()
	log.Info().Str("order", order.OrderNumber).Float64("total", order.Total).Msg("order placed")
	return order, nil
}
