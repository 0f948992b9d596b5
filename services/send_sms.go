package services

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator is the part of the Twilio client used to send SMS.
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// SMSSender texts a fixed studio number through Twilio.
type SMSSender struct {
	api  MessageCreator
	from string
	to   string
}

// NewSMSSender returns nil unless every Twilio setting and a destination
// number are present.
func NewSMSSender(accountSID, authToken, from, to string) *SMSSender {
	if accountSID == "" || authToken == "" || from == "" || to == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSSender{api: client.Api, from: from, to: to}
}

// Send texts body to the configured number. The Twilio client has no
// context support, so ctx is only checked before the call.
func (s *SMSSender) Send(ctx context.Context, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(s.to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio create message: %w", err)
	}
	if msg.Sid == nil {
		return "", nil
	}
	return *msg.Sid, nil
}
