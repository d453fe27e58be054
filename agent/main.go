package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/allwin107/hsn-validation-agent/internal/catalog"
	"github.com/allwin107/hsn-validation-agent/internal/config"
	"github.com/allwin107/hsn-validation-agent/internal/platform/env"
	"github.com/allwin107/hsn-validation-agent/internal/platform/httpserver"
	"github.com/allwin107/hsn-validation-agent/internal/platform/metrics"
	"github.com/allwin107/hsn-validation-agent/internal/validator"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(env.String("HSN_AGENT_CONFIG", ""))
	if err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(2)
	}

	loadOpts := catalog.LoadOptions{
		CodeColumn:        cfg.CodeColumn,
		DescriptionColumn: cfg.DescriptionColumn,
	}

	store := catalog.NewStore()
	records, err := store.ReloadFromFile(cfg.DatasetPath, loadOpts)
	if err != nil {
		logger.Error("initial dataset load failed", "error", err)
		os.Exit(1)
	}
	metrics.SetCatalogSize(records)
	logger.Info("dataset loaded", "records_loaded", records, "path", cfg.DatasetPath)

	engine := validator.New(store, cfg.MaxBatchSize)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", httpserver.Healthz("hsn-agent"))
	mux.HandleFunc(
		"GET /readyz",
		httpserver.ReadyzWithChecks(
			"hsn-agent",
			httpserver.ReadinessCheck{
				Name: "catalog",
				Check: func(context.Context) error {
					if store.Len() == 0 {
						return errors.New("catalog empty")
					}
					return nil
				},
			},
		),
	)
	mux.Handle("GET /metrics", metrics.Handler())

	api := newAgentAPI(logger, engine, store, cfg.DatasetPath, loadOpts, int64(cfg.UploadMaxMiB)<<20)
	api.register(mux)

	serverCfg := httpserver.Config{
		Service:         "hsn-agent",
		Addr:            cfg.Addr,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}

	if err := httpserver.Run(ctx, logger, serverCfg, httpserver.Wrap(logger, mux)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
