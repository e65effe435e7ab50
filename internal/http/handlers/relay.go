package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type MessageSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type RelayHandler struct {
	sender MessageSender
	logger *slog.Logger
}

func NewRelayHandler(sender MessageSender, logger *slog.Logger) *RelayHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RelayHandler{sender: sender, logger: logger}
}

func (h *RelayHandler) SendSMS(c *gin.Context) {
	var req struct {
		To      string `json:"to"`
		Message string `json:"message"`
	}
	_ = c.ShouldBindJSON(&req)
	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Os campos to e message são obrigatórios."})
		return
	}

	sid, err := h.sender.Send(c.Request.Context(), strings.TrimSpace(req.To), req.Message)
	if err != nil {
		h.logger.Error("sms delivery failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha no envio."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sid": sid})
}
