package push

import "context"

type PushProvider interface {
	SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) error
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) error
}

// NotificationRequest targets a single device token or a topic.
type NotificationRequest struct {
	Token    string            `json:"token,omitempty"`
	Topic    string            `json:"topic,omitempty"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	ImageURL string            `json:"image_url,omitempty"`
	Link     string            `json:"link,omitempty"`
}

type NotificationResponse struct {
	MessageID string `json:"message_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// NoopProvider is used when push delivery is not configured.
type NoopProvider struct{}

func (NoopProvider) SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error) {
	return &NotificationResponse{Success: false, Error: "push disabled"}, nil
}

func (NoopProvider) SubscribeToTopic(ctx context.Context, tokens []string, topic string) error {
	return nil
}

func (NoopProvider) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) error {
	return nil
}
