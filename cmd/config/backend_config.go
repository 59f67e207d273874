package config

import (
	"context"
	"time"

	"food-reader/internal/utils"
	"food-reader/pkg/backend"

	"github.com/gofiber/fiber/v2/log"
)

const startupPingTimeout = 5 * time.Second

// ConnectBackend builds the backend client from cfg and checks once that the
// backend answers. An unreachable backend is only reported: the screens
// surface the failure to the user.
func ConnectBackend(ctx context.Context, cfg utils.Config) backend.BackendService {
	svc := backend.NewBackendService(backend.Options{
		BaseURL:   cfg.BackendURL,
		APIPrefix: cfg.BackendAPIPrefix,
		Timeout:   cfg.BackendTimeoutDuration(),
	})

	probe := backend.NewBackendService(backend.Options{
		BaseURL:   cfg.BackendURL,
		APIPrefix: cfg.BackendAPIPrefix,
		Timeout:   startupPingTimeout,
	})
	if res, err := probe.Ping(ctx); err != nil {
		log.Warnf("backend %s not reachable yet: %v", cfg.BackendURL, err)
	} else {
		log.Infof("backend %s answered ping: %s", cfg.BackendURL, res.Message)
	}

	return svc
}
