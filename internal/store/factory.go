package store

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/config"
)

func NewFromConfig(cfg config.Config, logger *slog.Logger) (*Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch driver {
	case "", "json":
		return NewFile(cfg.StorePath, logger), nil
	case "bolt":
		return NewBolt(cfg.StorePath, logger)
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER: %s", cfg.StoreDriver)
	}
}
