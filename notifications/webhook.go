package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookNotifier posts order events as JSON to a fixed URL, e.g. a chat or
// SMS gateway the shop watches.
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

func NewWebhookNotifier(url, token string) *WebhookNotifier {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &WebhookNotifier{client: client, url: url}
}

func (w *WebhookNotifier) NotifyOrder(ctx context.Context, event OrderEvent) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(event).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook responded with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}
