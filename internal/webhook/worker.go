package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/outage_dashboard/internal/config"
	"github.com/shenikar/outage_dashboard/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Notifier - дополнительный канал уведомлений (например, Slack)
type Notifier interface {
	Notify(ctx context.Context, event IncidentEvent) error
}

// WebhookWorker - структура для обработки и отправки вебхуков
type WebhookWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *resty.Client
	notifier    Notifier
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewWebhookWorker создает новый WebhookWorker. notifier может быть nil.
func NewWebhookWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config, notifier Notifier) *WebhookWorker {
	return &WebhookWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient:  resty.New().SetTimeout(cfg.WebhookTimeout),
		notifier:    notifier,
		sleep:       sleepContext,
	}
}

// Start запускает горутину для обработки очереди вебхуков
func (w *WebhookWorker) Start(ctx context.Context) {
	w.logger.Info("Starting webhook worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping webhook worker.")
				return
			default:
				// BRPOP - блокирующее извлечение из правой части списка, 0 - без таймаута
				result, err := w.redisClient.BRPop(ctx, 0, webhookQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop webhook event from Redis")
					_ = w.sleep(ctx, w.cfg.WebhookTimeout)
					continue
				}

				// result[0] - ключ, result[1] - значение
				w.handlePayload(ctx, result[1])
			}
		}
	}()
}

func (w *WebhookWorker) handlePayload(ctx context.Context, payload string) {
	var event IncidentEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		w.logger.WithError(err).Error("Failed to unmarshal webhook event from Redis")
		return
	}

	err := w.processWebhookEvent(ctx, event, payload)
	metrics.ObserveWebhook(err)
	if err != nil {
		w.logger.WithError(err).WithField("event", event.Event).Error("Webhook delivery failed")
	}

	if w.notifier != nil {
		if err := w.notifier.Notify(ctx, event); err != nil {
			w.logger.WithError(err).WithField("event", event.Event).Warn("Failed to send notification")
		}
	}
}

func (w *WebhookWorker) processWebhookEvent(ctx context.Context, event IncidentEvent, rawPayload string) error {
	log := w.logger.WithField("event", event.Event)
	if event.Incident != nil {
		log = log.WithField("incident_id", event.Incident.ID)
	}
	log.Debug("Processing webhook event...")

	if w.cfg.WebhookURL == "" {
		log.Debug("Webhook URL is not configured. Skipping webhook delivery.")
		return nil
	}

	maxRetries := w.cfg.WebhookMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	delay := w.cfg.WebhookBaseDelay

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			log.WithError(lastErr).Warnf("Retrying webhook in %v. Retries left: %d", delay, maxRetries-i)
			if err := w.sleep(ctx, delay); err != nil {
				return fmt.Errorf("webhook retry interrupted: %w", err)
			}
			delay *= 2 // Экспоненциальная задержка
		}

		req := w.httpClient.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(rawPayload)

		// Добавляем HMAC подпись, если WEBHOOK_SECRET задан
		if w.cfg.WebhookSecret != "" {
			req.SetHeader("X-Webhook-Signature", generateHMACSHA256(rawPayload, w.cfg.WebhookSecret))
		}

		resp, err := req.Post(w.cfg.WebhookURL)
		if err != nil {
			lastErr = fmt.Errorf("send webhook: %w", err)
			continue
		}
		if resp.IsSuccess() {
			log.Info("Webhook delivered successfully.")
			return nil
		}
		lastErr = fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode())
	}

	return fmt.Errorf("failed to deliver webhook after %d attempts: %w", maxRetries, lastErr)
}

// sleepContext ждет d или отмены ctx
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
