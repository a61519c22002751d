package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/medwear/internal/adapters/export/xlsx"
	"github.com/phenrril/medwear/internal/app"
	"github.com/phenrril/medwear/internal/config"
	"github.com/phenrril/medwear/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config.SetupLogging(cfg.Log)

	application, err := app.NewApp(cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create app")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, application, cfg); err != nil {
		zlog.Fatal().Err(err).Msg("session failed")
	}
}

func run(ctx context.Context, a *app.App, cfg *config.Config) error {
	unsubscribe := a.Subscribe(func(slice string) {
		zlog.Debug().Str("slice", slice).Msg("state changed")
	})
	defer unsubscribe()

	if err := a.Bootstrap(ctx); err != nil {
		zlog.Warn().Err(err).Msg("bootstrap incomplete")
	}
	for _, p := range a.Catalog.Snapshot().Featured {
		zlog.Info().Int64("id", p.ID).Str("name", p.Name).Str("price", domain.FormatMoney(p.Price)).Msg("featured")
	}

	scrubs := domain.CategoryScrubs
	inStock := true
	a.Catalog.SetFilters(domain.FilterPatch{Category: &scrubs, InStock: &inStock})
	a.Catalog.ApplyFilters()
	grid := a.Catalog.View(domain.SortPriceLow)
	zlog.Info().Int("results", len(grid)).Msg("in stock scrubs, cheapest first")

	for _, p := range grid[:min(2, len(grid))] {
		sel := domain.CartSelection{ProductID: p.ID, Quantity: 1}
		if len(p.Sizes) > 0 {
			sel.Size = p.Sizes[0]
		}
		if len(p.Colors) > 0 {
			sel.Color = p.Colors[0]
		}
		if _, err := a.Cart.AddSelection(p, sel); err != nil {
			zlog.Warn().Err(err).Int64("product", p.ID).Msg("skip product")
		}
	}
	if !a.Cart.ApplyPromoCode("SAVE10") {
		zlog.Warn().Msg("promo code rejected")
	}
	t := a.Cart.Totals()
	zlog.Info().Int("items", t.ItemCount).Str("subtotal", domain.FormatMoney(t.Subtotal)).
		Str("discount", domain.FormatMoney(t.Discount)).Str("total", domain.FormatMoney(t.Total)).Msg("cart")

	if !a.User.IsAuthenticated() {
		if cfg.Auth.Email == "" {
			zlog.Info().Msg("no credentials configured, stopping before checkout")
			return nil
		}
		if _, err := a.User.Login(ctx, cfg.Auth.Email, cfg.Auth.Password); err != nil {
			return fmt.Errorf("login: %s", a.User.Snapshot().LoginError)
		}
	}

	user := a.User.Snapshot().CurrentUser
	form := domain.CheckoutForm{CardNumber: "4242424242424242"}
	if user != nil {
		form.FirstName, form.LastName, form.Email, form.Phone = user.FirstName, user.LastName, user.Email, user.Phone
		if addr, ok := user.DefaultAddress("shipping"); ok {
			form.Address1, form.Address2 = addr.Address1, addr.Address2
			form.City, form.State, form.ZipCode, form.Country = addr.City, addr.State, addr.ZipCode, addr.Country
		}
	}
	order, err := a.Checkout(ctx, form)
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		zlog.Info().Msg("nothing to order")
	case err != nil:
		return err
	default:
		zlog.Info().Str("order", order.OrderNumber).Str("tracking", order.TrackingNumber).Msg("checked out")
	}

	orders, err := a.Orders.FetchOrders(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		zlog.Info().Str("order", o.OrderNumber).Str("status", string(o.Status)).Str("total", domain.FormatMoney(o.Total)).Msg("history")
	}

	if cfg.Export.Path == "" {
		return nil
	}
	f, err := os.Create(cfg.Export.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := xlsx.WriteOrders(f, orders); err != nil {
		return err
	}
	zlog.Info().Str("path", cfg.Export.Path).Int("orders", len(orders)).Msg("order history exported")
	return nil
}
