package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mateusmacedo/go-railway/internal/booking"
	bookingApp "github.com/mateusmacedo/go-railway/internal/booking/application"
	bookingInfra "github.com/mateusmacedo/go-railway/internal/booking/infrastructure"
	"github.com/mateusmacedo/go-railway/internal/bootstrap"
	"github.com/mateusmacedo/go-railway/internal/config"
	"github.com/mateusmacedo/go-railway/internal/identity"
	"github.com/mateusmacedo/go-railway/internal/train"
	trainInfra "github.com/mateusmacedo/go-railway/internal/train/infrastructure"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-railway/pkg/infrastructure"
	"github.com/mateusmacedo/go-railway/pkg/infrastructure/httpapi"
	zapAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	appLogger, err := zapAdapter.NewZapAppLogger(cfg.AppName, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer closeWithLog(appLogger, "stores", stores.Close)

	events, err := bootstrap.OpenEventBus(cfg, stores.Redis, appLogger)
	if err != nil {
		return err
	}
	defer closeWithLog(appLogger, "event bus", events.Close)

	authority, err := identity.NewJWTAuthority(cfg.JWTSecret, cfg.JWTIssuer, time.Now)
	if err != nil {
		return err
	}

	responder := httpapi.NewResponder(appLogger, trainInfra.ErrorClassifier, bookingInfra.ErrorClassifier)
	auth := identity.NewMiddleware(authority, responder)

	trainSlice := train.NewTrainSlice(stores.Trains, stores.Ledger, pkgInfra.GenerateUUID, time.Now, appLogger, auth, responder)
	bookingSlice, err := booking.NewBookingSlice(booking.Dependencies{
		Repository: stores.Bookings,
		Catalog:    stores.Trains,
		Ledger:     trainSlice.Ledger(),
		EventBus:   events.Bus,
		ReleasePolicy: bookingApp.ReleasePolicy{
			Attempts: cfg.ReleaseRetryAttempts,
			Backoff:  cfg.ReleaseRetryBackoff,
		},
		IDGenerator: pkgInfra.GenerateUUID,
		Clock:       time.Now,
		Logger:      appLogger,
		Auth:        auth,
		Responder:   responder,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(cfg.RequestTimeout, responder, trainSlice, bookingSlice),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info(ctx, "server starting", map[string]interface{}{"addr": cfg.HTTPAddr, "store": cfg.StoreDriver, "events": cfg.EventTransport})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			pkgApp.LogError(ctx, appLogger, "server failed", err, nil)
			return err
		}
	case <-ctx.Done():
		appLogger.Info(context.Background(), "shutting down", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		pkgApp.LogError(shutdownCtx, appLogger, "error shutting down server", err, nil)
		return err
	}

	appLogger.Info(context.Background(), "server stopped", nil)
	return nil
}

type routeRegistrar interface {
	RegisterRoutes(router chi.Router)
}

// newRouter publica as rotas na raiz e também sob /api, prefixo usado pelo
// cliente web.
func newRouter(requestTimeout time.Duration, responder *httpapi.Responder, slices ...routeRegistrar) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(requestTimeout))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		responder.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	for _, slice := range slices {
		slice.RegisterRoutes(router)
	}
	router.Route("/api", func(api chi.Router) {
		for _, slice := range slices {
			slice.RegisterRoutes(api)
		}
	})
	return router
}

func closeWithLog(logger pkgApp.AppLogger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		pkgApp.LogError(context.Background(), logger, "error closing "+name, err, nil)
	}
}
