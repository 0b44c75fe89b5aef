package push

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

type FCMProvider struct {
	client *messaging.Client
}

func NewFCMProvider(ctx context.Context, app *firebase.App) (*FCMProvider, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &FCMProvider{
		client: client,
	}, nil
}

func (f *FCMProvider) SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error) {
	message, err := buildMessage(request)
	if err != nil {
		return &NotificationResponse{Success: false, Error: err.Error()}, err
	}

	response, err := f.client.Send(ctx, message)
	if err != nil {
		return &NotificationResponse{
			Success: false,
			Error:   err.Error(),
		}, err
	}

	return &NotificationResponse{
		MessageID: response,
		Success:   true,
	}, nil
}

func (f *FCMProvider) SubscribeToTopic(ctx context.Context, tokens []string, topic string) error {
	resp, err := f.client.SubscribeToTopic(ctx, tokens, topic)
	if err != nil {
		return err
	}
	if resp.FailureCount > 0 {
		return fmt.Errorf("failed to subscribe %d of %d tokens", resp.FailureCount, len(tokens))
	}
	return nil
}

func (f *FCMProvider) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) error {
	_, err := f.client.UnsubscribeFromTopic(ctx, tokens, topic)
	return err
}

func buildMessage(request *NotificationRequest) (*messaging.Message, error) {
	message := &messaging.Message{
		Data: request.Data,
		Notification: &messaging.Notification{
			Title:    request.Title,
			Body:     request.Body,
			ImageURL: request.ImageURL,
		},
	}

	switch {
	case request.Token != "":
		message.Token = request.Token
	case request.Topic != "":
		message.Topic = request.Topic
	default:
		return nil, errors.New("notification needs a token or a topic")
	}

	if request.Link != "" {
		message.Webpush = &messaging.WebpushConfig{
			FCMOptions: &messaging.WebpushFCMOptions{Link: request.Link},
		}
	}

	return message, nil
}
