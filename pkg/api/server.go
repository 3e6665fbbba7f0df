// Package api exposes record encoding and storage over HTTP.
//
// All routes under /api/v1 require the X-API-Key header. /metrics serves
// Prometheus metrics and is left open for scraping.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Handler builds the router with all routes configured
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger, s.perf))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", "X-Record-Kind"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// Records
		r.Post("/records/{kind}", s.metrics.InstrumentHandler("POST", "/api/v1/records/{kind}", s.handleCreate))
		r.Get("/records/{kind}/{id}", s.metrics.InstrumentHandler("GET", "/api/v1/records/{kind}/{id}", s.handleGet))
		r.Get("/records/{kind}/{id}/raw", s.metrics.InstrumentHandler("GET", "/api/v1/records/{kind}/{id}/raw", s.handleGetRaw))
		r.Delete("/records/{kind}/{id}", s.metrics.InstrumentHandler("DELETE", "/api/v1/records/{kind}/{id}", s.handleDelete))

		// Encode only
		r.Post("/encode/{kind}", s.metrics.InstrumentHandler("POST", "/api/v1/encode/{kind}", s.handleEncode))
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	go s.perf.Run(monitorCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting datagen API server",
			zap.String("addr", addr),
			zap.String("metrics", fmt.Sprintf("http://%s/metrics", addr)),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down datagen API server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	s.perf.Tick()
	return nil
}
