package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/config"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/http/handlers"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/http/middleware"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/version"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/ws"
)

type Dependencies struct {
	Pinger        handlers.Pinger
	LoanHandler   *handlers.LoanHandler
	ExportHandler *handlers.ExportHandler
	WSHandler     *ws.Handler
	Metrics       http.Handler
}

func newEngine(cfg config.Config, logger *slog.Logger) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RequestBodyLimit(cfg.RequestBodyLimit))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})
	return r
}

func NewRouter(cfg config.Config, logger *slog.Logger, deps Dependencies) *gin.Engine {
	r := newEngine(cfg, logger)

	health := handlers.NewHealthHandler(deps.Pinger, "loan-tracker", cfg.StoreDriver)
	meta := handlers.NewMetaHandler(cfg.Env, version.Version, cfg.StoreDriver, cfg.SMSMode)

	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/v1/meta", meta.GetMeta)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	v1 := r.Group("/v1")
	if h := deps.LoanHandler; h != nil {
		v1.GET("/store", h.GetStore)
		v1.GET("/loans", h.ListLoans)
		v1.POST("/loans", h.CreateLoan)
		v1.DELETE("/loans", h.ClearHistory)
		v1.POST("/loans/:loanId/return", h.MarkReturned)
		v1.POST("/loans/:loanId/reminder", h.SendReminder)
		v1.GET("/theme", h.GetTheme)
		v1.PUT("/theme", h.SetTheme)
		v1.GET("/product-code", h.ProductCode)
		v1.GET("/borrowers/lookup", h.LookupBorrower)
		v1.GET("/address/:cep", h.LookupAddress)
	}
	if h := deps.ExportHandler; h != nil {
		v1.GET("/export/pdf", h.DownloadPDF)
		v1.POST("/export/pdf", h.SavePDF)
	}
	if deps.WSHandler != nil {
		v1.GET("/ws", deps.WSHandler.HandleWebSocket)
	}

	return r
}

// NewRelayRouter serves the SMS relay used by clients that do not hold
// gateway credentials themselves.
func NewRelayRouter(cfg config.Config, logger *slog.Logger, relay *handlers.RelayHandler) *gin.Engine {
	r := newEngine(cfg, logger)
	r.GET("/health", handlers.NewHealthHandler(nil, "sms-relay", "").Health)
	r.POST("/send-sms", relay.SendSMS)
	return r
}
