package sms

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(sid, token, from string) (*TwilioSender, error) {
	if strings.TrimSpace(sid) == "" || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("missing TWILIO_SID or TWILIO_TOKEN")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("missing TWILIO_PHONE")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: strings.TrimSpace(sid),
		Password: strings.TrimSpace(token),
	})
	return &TwilioSender{client: client, from: strings.TrimSpace(from)}, nil
}

// Send ignores ctx cancellation once the request is issued; the Twilio
// client has no context-aware variant.
func (s *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(to) == "" || strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("invalid sms args")
	}
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", fmt.Errorf("twilio empty sid")
	}
	return *resp.Sid, nil
}
