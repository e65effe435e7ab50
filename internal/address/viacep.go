// Package address resolves Brazilian postal codes (CEP) to street and
// neighborhood through the ViaCEP web service.
package address

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type viaCEPResponse struct {
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	Err          any    `json:"erro"`
}

// Lookup returns the address of cep. Every failure is logged and reported as
// "not found"; callers leave their fields untouched in that case.
func (c *Client) Lookup(ctx context.Context, cep string) (loan.Address, bool) {
	masked := loan.MaskCEP(cep)
	if !loan.ValidCEP(masked) {
		return loan.Address{}, false
	}
	addr, err := c.fetch(ctx, loan.Digits(masked))
	if err != nil {
		c.logger.Warn("cep lookup failed", "cep", masked, "err", err)
		return loan.Address{}, false
	}
	return addr, true
}

func (c *Client) fetch(ctx context.Context, digits string) (loan.Address, error) {
	url := fmt.Sprintf("%s/%s/json/", c.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return loan.Address{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return loan.Address{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return loan.Address{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return loan.Address{}, err
	}
	if notFound(payload.Err) {
		return loan.Address{}, fmt.Errorf("cep not found")
	}
	return loan.Address{
		Street:       strings.TrimSpace(payload.Street),
		Neighborhood: strings.TrimSpace(payload.Neighborhood),
	}, nil
}

// ViaCEP has answered both {"erro": true} and {"erro": "true"}.
func notFound(v any) bool {
	switch e := v.(type) {
	case bool:
		return e
	case string:
		return strings.EqualFold(e, "true")
	default:
		return false
	}
}
