package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/aritzhuerta/storefront-cart/internal/stubserver"
	"github.com/aritzhuerta/storefront-cart/pkg/config"
	"github.com/aritzhuerta/storefront-cart/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "stubserver"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "stubserver",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	server := stubserver.NewServer(logg)

	addr := ":" + cfg.Stub.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logg.Info(logg.WithField(ctx, "addr", addr), "stub cart backend listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "stub server stopped", err)
		os.Exit(1)
	}
}
