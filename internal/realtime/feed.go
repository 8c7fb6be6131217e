package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

const channelPrefix = "changes:"

// Channel возвращает имя канала Redis для таблицы
func Channel(table string) string {
	return channelPrefix + table
}

// RedisPublisher публикует ChangeEvent через Redis pub/sub
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish отправляет событие всем подписчикам таблицы
func (p *RedisPublisher) Publish(ctx context.Context, event models.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(event.Table), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// Subscriber создает подписки на изменения таблиц
type Subscriber struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewSubscriber(client *redis.Client, logger *logrus.Logger) *Subscriber {
	return &Subscriber{client: client, logger: logger}
}

// Subscription - активная подписка. Close останавливает доставку и ждет завершения обработчика.
type Subscription struct {
	pubsub *redis.PubSub
	done   chan struct{}
	once   sync.Once
	err    error
}

// Subscribe вызывает onChange на каждое изменение таблицы (insert, update, delete).
// Содержимое события не гарантируется: потребитель должен перечитать данные целиком.
func (s *Subscriber) Subscribe(ctx context.Context, table string, onChange func(models.ChangeEvent)) (*Subscription, error) {
	pubsub := s.client.Subscribe(ctx, Channel(table))
	// ждем подтверждения подписки, чтобы не потерять события сразу после возврата
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s changes: %w", table, err)
	}

	sub := &Subscription{pubsub: pubsub, done: make(chan struct{})}
	messages := pubsub.Channel()
	go func() {
		defer close(sub.done)
		for msg := range messages {
			event := models.ChangeEvent{Table: table}
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.WithError(err).WithField("table", table).Warn("Malformed change event, treating as refresh")
				event = models.ChangeEvent{Table: table}
			}
			onChange(event)
		}
	}()
	return sub, nil
}

// Close отменяет подписку. Повторные вызовы безопасны.
func (s *Subscription) Close() error {
	s.once.Do(func() {
		s.err = s.pubsub.Close()
		<-s.done
	})
	return s.err
}
