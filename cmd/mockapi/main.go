package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/medwear/internal/adapters/fixture"
	"github.com/phenrril/medwear/internal/adapters/mockserver"
	"github.com/phenrril/medwear/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config.SetupLogging(cfg.Log)

	backend, err := fixture.New(fixture.Options{
		Latency:     cfg.Mock.Latency,
		RequireAuth: true,
		Secret:      []byte(cfg.Mock.Secret),
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load fixture data")
	}

	ln, err := net.Listen("tcp", cfg.Mock.Addr)
	if err != nil {
		zlog.Warn().Err(err).Str("addr", cfg.Mock.Addr).Msg("address busy, trying fallback ports")
		for p := 8081; p <= 8090; p++ {
			l2, err2 := net.Listen("tcp", net.JoinHostPort("", fmt.Sprintf("%d", p)))
			if err2 == nil {
				ln = l2
				break
			}
		}
		if ln == nil {
			zlog.Fatal().Msg("no free port")
		}
	}

	server := &http.Server{Handler: mockserver.New(backend), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		zlog.Info().Str("addr", ln.Addr().String()).Msg("mock api listening")
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zlog.Error().Err(err).Msg("shutdown")
	}
	zlog.Info().Msg("mock api stopped")
}
