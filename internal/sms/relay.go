package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RelayClient posts messages to a /send-sms relay, which holds the gateway
// credentials.
type RelayClient struct {
	url        string
	httpClient *http.Client
}

func NewRelayClient(url string) (*RelayClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("missing SMS_RELAY_URL")
	}
	return &RelayClient{
		url:        strings.TrimSpace(url),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *RelayClient) Send(ctx context.Context, to, body string) (string, error) {
	if strings.TrimSpace(to) == "" || strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("invalid sms args")
	}
	reqBody, _ := json.Marshal(map[string]string{"to": to, "message": body})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Success bool   `json:"success"`
		SID     string `json:"sid"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("relay status %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !payload.Success {
		if payload.Error == "" {
			payload.Error = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("relay error %d: %s", resp.StatusCode, payload.Error)
	}
	return payload.SID, nil
}
