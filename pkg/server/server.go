package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	controlroomhandlers "github.com/de-tools/price-atlas/pkg/handlers/controlroom"
	pricehandlers "github.com/de-tools/price-atlas/pkg/handlers/prices"
	priceatlasmiddleware "github.com/de-tools/price-atlas/pkg/server/middleware"
	"github.com/de-tools/price-atlas/pkg/services/controlroom"
	"github.com/de-tools/price-atlas/pkg/services/pricing"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Pricing     pricing.Service
	ControlRoom controlroom.Service
	Logger      zerolog.Logger
	// Metrics defaults to a fresh registry when nil.
	Metrics *prometheus.Registry
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	APIToken        string
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) (http.Handler, error) {
	logger := config.Dependencies.Logger

	registry := config.Dependencies.Metrics
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics, err := priceatlasmiddleware.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	priceHandler := pricehandlers.NewHandler(config.Dependencies.Pricing, metrics)
	controlRoomHandler := controlroomhandlers.NewHandler(config.Dependencies.ControlRoom)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(priceatlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(metrics.Handler)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(priceatlasmiddleware.Session(config.APIToken))

		r.Get("/control-room", controlRoomHandler.GetDashboard)
		r.Get("/prices/dates", priceHandler.ListReferenceDates)
		r.Get("/prices/comparison", priceHandler.GetComparison)
	})

	return router, nil
}

func NewWebAPI(config Config) (*WebAPI, error) {
	router, err := ConfigureRouter(config)
	if err != nil {
		return nil, err
	}

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	logger := config.Dependencies.Logger
	return &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Start serves until the listener fails or SIGINT/SIGTERM arrives, then
// drains outstanding requests within the shutdown timeout.
func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
