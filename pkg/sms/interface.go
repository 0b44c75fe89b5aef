package sms

import "context"

type SMSProvider interface {
	SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error)
}

type SMSRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
	Type    string `json:"type"` // transactional, promotional
}

type SMSResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// NoopProvider accepts every message and sends nothing.
type NoopProvider struct{}

func (NoopProvider) SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error) {
	return &SMSResponse{Status: "skipped"}, nil
}
