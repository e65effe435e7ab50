package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/address"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/config"
	loandomain "github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/export"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/http/handlers"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/observability"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/server"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/sms"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/store"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/ws"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env)
	metrics := observability.NewMetrics()

	st, err := store.NewFromConfig(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "path", cfg.StorePath, "err", err)
		os.Exit(1)
	}
	defer st.Close()

	sender, err := sms.NewSenderFromConfig(cfg)
	if err != nil {
		logger.Error("invalid sms configuration", "err", err)
		os.Exit(1)
	}

	addresses := address.NewClient(cfg.AddressLookupURL, cfg.AddressLookupTimeout, logger)
	loanService := loandomain.NewService(st, sender, addresses, logger).WithMetrics(metrics)

	hub := ws.NewHub()
	notifier := ws.NewNotifier(st, hub, cfg.NotifyInterval, logger)

	r := server.NewRouter(cfg, logger, server.Dependencies{
		Pinger:        st,
		LoanHandler:   handlers.NewLoanHandler(loanService),
		ExportHandler: handlers.NewExportHandler(loanService, export.NewPDF(), cfg.ExportPath()),
		WSHandler:     ws.NewHandler(hub, st),
		Metrics:       metrics.Handler(),
	})
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := notifier.Run(sigCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("notifier stopped", "err", err)
		}
	}()

	go func() {
		logger.Info("api server starting", "addr", cfg.Addr(), "store", cfg.StorePath, "sms_mode", cfg.SMSMode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("api server stopped")
}
