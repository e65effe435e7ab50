// Package sms delivers reminder text messages. The gateway is chosen from
// configuration; without one the Unavailable sender is used and callers fall
// back to showing the message for manual copy.
package sms

import (
	"context"
	"fmt"
	"strings"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/config"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
)

var ErrUnavailable = loan.ErrGatewayUnavailable

type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type Unavailable struct{}

func (Unavailable) Send(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}

func NewSenderFromConfig(cfg config.Config) (Sender, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.SMSMode))
	switch mode {
	case "", "none":
		return Unavailable{}, nil
	case "relay":
		return NewRelayClient(cfg.SMSRelayURL)
	case "twilio":
		return NewTwilioSender(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioPhone)
	default:
		return nil, fmt.Errorf("invalid SMS_MODE: %s", cfg.SMSMode)
	}
}
