package webhook

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackNotifier отправляет короткое сообщение о событии во входящий вебхук Slack
type SlackNotifier struct {
	url string
}

func NewSlackNotifier(url string) *SlackNotifier {
	return &SlackNotifier{url: url}
}

// Notify публикует событие в Slack
func (n *SlackNotifier) Notify(ctx context.Context, event IncidentEvent) error {
	msg := &slack.WebhookMessage{Text: slackText(event)}
	if err := slack.PostWebhookContext(ctx, n.url, msg); err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}
	return nil
}

func slackText(event IncidentEvent) string {
	inc := event.Incident
	if inc == nil {
		return event.Event
	}
	service := inc.ServiceType.Label()
	status := inc.Status.Label()
	switch event.Event {
	case EventStatusChanged:
		return fmt.Sprintf("[%s] %s : %s → %s", service, inc.Title, event.PreviousStatus.Label(), status)
	default:
		sector := inc.SectorName()
		if sector == "" {
			sector = inc.Location
		}
		return fmt.Sprintf("[%s] Nouvel incident : %s (%s) - %s", service, inc.Title, sector, status)
	}
}
