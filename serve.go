package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"hansik/handlers"
	"hansik/metrics"
)

// Run executes the serve command until SIGINT or SIGTERM.
func (c *ServeCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}
	m.CatalogSize.Set(float64(deps.Catalog.Len()))

	thumbs := handlers.NewThumbnailer(handlers.ThumbnailerOptions{
		Client:          &http.Client{Timeout: cfg.ThumbnailTimeout},
		TTL:             cfg.ThumbnailTTL,
		CleanupInterval: 2 * cfg.ThumbnailTTL,
		Metrics:         m,
		Logger:          deps.Logger,
	})

	h, err := handlers.NewHandler(handlers.Options{
		Recipes:     deps.Recipes,
		Logger:      deps.Logger,
		Metrics:     m,
		Gatherer:    registry,
		Thumbnails:  thumbs,
		RecentCount: cfg.RecentCount,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	srv, err := handlers.NewServer(cfg.HTTPAddr, h, deps.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
