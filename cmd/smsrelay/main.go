package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/config"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/http/handlers"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/observability"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/server"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/sms"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env)

	var sender sms.Sender = sms.Unavailable{}
	if cfg.TwilioConfigured() {
		twilioSender, err := sms.NewTwilioSender(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioPhone)
		if err != nil {
			logger.Error("invalid twilio configuration", "err", err)
			os.Exit(1)
		}
		sender = twilioSender
	} else {
		logger.Warn("twilio not configured, set TWILIO_SID, TWILIO_TOKEN and TWILIO_PHONE")
	}

	r := server.NewRelayRouter(cfg, logger, handlers.NewRelayHandler(sender, logger))
	httpServer := &http.Server{
		Addr:              cfg.RelayAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("sms relay starting", "addr", cfg.RelayAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("relay failed", "err", err)
			os.Exit(1)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("sms relay stopped")
}
