package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bulletin/internal/email"
	"bulletin/internal/platform/config"
	"bulletin/internal/platform/httpserver"
	"bulletin/internal/platform/logger"
	"bulletin/internal/subscription/handler"
	"bulletin/internal/subscription/metrics"
	"bulletin/internal/subscription/service"
	"bulletin/internal/subscription/store"
	httptransport "bulletin/internal/transport/http"

	_ "github.com/lib/pq"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancelPing()
		log.Error("database unreachable", "error", err)
		os.Exit(1)
	}
	cancelPing()

	gateway := email.NewClient(cfg.Email.BaseURL, cfg.Email.Sender, cfg.Email.AuthToken, cfg.Email.Timeout)

	subscriptions := service.New(
		newSubscriptionPostgresTx(db),
		store.NewPostgres(db),
		gateway,
		log,
		metrics.New(),
		cfg.BaseURL,
	)

	router := httptransport.NewRouter(handler.New(subscriptions, log), db)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting bulletin", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
