// Package app wires the client components from configuration.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alex-user-go/getaway/internal/config"
	"github.com/alex-user-go/getaway/internal/flights"
	"github.com/alex-user-go/getaway/internal/handler"
	"github.com/alex-user-go/getaway/internal/hotels"
	"github.com/alex-user-go/getaway/internal/obs"
	"github.com/alex-user-go/getaway/internal/providers"
	"github.com/alex-user-go/getaway/internal/region"
	"github.com/alex-user-go/getaway/internal/search"
	"github.com/alex-user-go/getaway/internal/search/ratelimit"
	"github.com/alex-user-go/getaway/internal/search/types"
	"github.com/alex-user-go/getaway/internal/session"
)

// opsRateLimit bounds /session requests per client IP.
const opsRateLimit = 10

// App holds the wired components.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *obs.Metrics
	Client   *providers.Client
	Resolver *region.Resolver
	Search   *search.Orchestrator
	Hotels   *hotels.Service
	Flights  *flights.Pairer
	Session  *session.Session
}

// New wires all components.
func New(cfg *config.Config, logger *slog.Logger) *App {
	metrics := obs.NewMetrics(logger)

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateBurst)
	client := providers.NewClient(cfg.APIBase, cfg.Timeout, limiter, metrics, logger)

	resolver := region.NewResolver(client, logger)
	orchestrator := search.NewOrchestrator(client, resolver, 0, logger)
	hotelSvc := hotels.NewService(client, logger)
	pairer := flights.NewPairer(client, cfg.CabinClass, logger)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Client:   client,
		Resolver: resolver,
		Search:   orchestrator,
		Hotels:   hotelSvc,
		Flights:  pairer,
		Session:  session.New(orchestrator, hotelSvc, pairer, cfg.PrefetchWorkers, metrics, logger),
	}
}

// Query builds a search query with the configured currency, residency,
// language and result cap.
func (a *App) Query(destination, checkin string, nights, adults int) types.SearchQuery {
	return types.SearchQuery{
		Destination: destination,
		CheckIn:     checkin,
		Nights:      nights,
		Adults:      adults,
		Currency:    a.Config.Currency,
		Residency:   a.Config.Residency,
		Language:    a.Config.Language,
		ResultCap:   a.Config.HotelsLimit,
	}
}

// ServeOps serves /healthz, /metrics and /session on the configured address
// until ctx is done. It returns immediately when no address is configured.
func (a *App) ServeOps(ctx context.Context) error {
	if !a.Config.HasMetrics() {
		return nil
	}

	h := handler.New(a.Session, ratelimit.New(opsRateLimit, opsRateLimit), a.Metrics, a.Logger)

	srv := &http.Server{
		Addr:         a.Config.MetricsAddr,
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("starting ops server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down ops server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("ops server shutdown error", "error", err)
		return err
	}

	a.Logger.Info("ops server stopped")
	return nil
}
