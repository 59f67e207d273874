package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-reader/cmd/config"
	"food-reader/internal/utils"

	"github.com/gofiber/fiber/v2/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetLevel(cfg.FiberLogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backendService := config.ConnectBackend(ctx, cfg)

	app, err := config.NewApp(ctx, cfg, backendService)
	if err != nil {
		log.Fatalf("build app: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s, backend %s", cfg.AppAddr, cfg.BackendURL)
		errCh <- app.Listen(cfg.AppAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, net.ErrClosed) {
			log.Fatalf("listen: %v", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}
}
