package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ragment/ragment-api/api/bootstrap"
	"github.com/ragment/ragment-api/api/database"
	"github.com/ragment/ragment-api/api/router"
	billingrest "github.com/ragment/ragment-api/api/services/billing/rest"
	"github.com/ragment/ragment-api/api/services/chat"
	"github.com/ragment/ragment-api/api/services/project"
	"github.com/ragment/ragment-api/api/services/user"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := bootstrap.Ensure(); err != nil {
		slog.Error("bootstrap failed", "err", err)
		os.Exit(1)
	}

	cfg := bootstrap.GetConfig()
	db := database.GetDB()

	deps := router.Deps{
		Config:   cfg,
		Verifier: bootstrap.GetVerifier(),
		Billing:  billingrest.NewHandler(bootstrap.GetBillingService(), cfg.StripeWebhookSecret),
		User:     user.NewHandler(user.NewStore(db), bootstrap.GetBillingStore()),
		Project:  project.NewHandler(project.NewStore(db)),
		Chat:     chat.NewHandler(chat.NewStore(db)),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("http server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "err", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
	}
}
