package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/outage_dashboard/internal/models"
)

const (
	webhookQueueKey = "webhook_events"
)

const (
	EventIncidentReported = "incident.reported"
	EventStatusChanged    = "incident.status_changed"
)

// IncidentEvent - данные вебхука о новом инциденте или смене статуса
type IncidentEvent struct {
	Event          string           `json:"event"`
	Incident       *models.Incident `json:"incident"`
	PreviousStatus models.Status    `json:"previous_status,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event IncidentEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая список Redis как очередь
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event IncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH + BRPOP в воркере дают порядок FIFO
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
