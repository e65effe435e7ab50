package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type MetaHandler struct {
	env         string
	version     string
	storeDriver string
	smsMode     string
}

func NewMetaHandler(env, version, storeDriver, smsMode string) *MetaHandler {
	return &MetaHandler{env: env, version: version, storeDriver: storeDriver, smsMode: smsMode}
}

func (h *MetaHandler) GetMeta(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":         "Controle de Empréstimos",
		"version":      h.version,
		"env":          h.env,
		"store_driver": h.storeDriver,
		"sms_mode":     h.smsMode,
	})
}
