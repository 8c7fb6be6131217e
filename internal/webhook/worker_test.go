package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/outage_dashboard/internal/config"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newTestWorker(t *testing.T, client *redis.Client, cfg *config.Config, notifier Notifier) *WebhookWorker {
	worker := NewWebhookWorker(client, logger.Discard(), cfg, notifier)
	worker.sleep = func(context.Context, time.Duration) error { return nil } // без реальных пауз в тестах
	return worker
}

func sampleEvent() IncidentEvent {
	return IncidentEvent{
		Event: EventIncidentReported,
		Incident: &models.Incident{
			ID:          uuid.New(),
			Title:       "Coupure d'eau",
			ServiceType: models.ServiceWater,
			Status:      models.StatusReported,
			Sector:      &models.Sector{Name: "Owendo"},
		},
		Timestamp: time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC),
	}
}

type recordingNotifier struct {
	events chan IncidentEvent
}

func (n *recordingNotifier) Notify(_ context.Context, event IncidentEvent) error {
	n.events <- event
	return nil
}

func TestRedisWebhookPublisher_Publish(t *testing.T) {
	mr, client := newTestRedis(t)
	publisher := NewRedisWebhookPublisher(client)
	event := sampleEvent()

	err := publisher.Publish(context.Background(), event)

	require.NoError(t, err)
	items, err := mr.List(webhookQueueKey)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var decoded IncidentEvent
	require.NoError(t, json.Unmarshal([]byte(items[0]), &decoded))
	assert.Equal(t, event.Incident.ID, decoded.Incident.ID)
	assert.Equal(t, EventIncidentReported, decoded.Event)
}

func TestProcessWebhookEvent_SignsPayload(t *testing.T) {
	_, client := newTestRedis(t)
	var gotSignature, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotSignature = r.Header.Get("X-Webhook-Signature")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := &config.Config{WebhookURL: server.URL, WebhookSecret: "s3cret", WebhookTimeout: time.Second, WebhookMaxRetries: 3}
	worker := newTestWorker(t, client, cfg, nil)
	payload, _ := json.Marshal(sampleEvent())

	err := worker.processWebhookEvent(context.Background(), sampleEvent(), string(payload))

	require.NoError(t, err)
	assert.Equal(t, string(payload), gotBody)
	assert.Equal(t, generateHMACSHA256(string(payload), "s3cret"), gotSignature)
}

func TestProcessWebhookEvent_RetriesUntilSuccess(t *testing.T) {
	_, client := newTestRedis(t)
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.Config{WebhookURL: server.URL, WebhookTimeout: time.Second, WebhookMaxRetries: 3, WebhookBaseDelay: time.Millisecond}
	worker := newTestWorker(t, client, cfg, nil)

	err := worker.processWebhookEvent(context.Background(), sampleEvent(), `{}`)

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestProcessWebhookEvent_GivesUp(t *testing.T) {
	_, client := newTestRedis(t)
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := &config.Config{WebhookURL: server.URL, WebhookTimeout: time.Second, WebhookMaxRetries: 2}
	worker := newTestWorker(t, client, cfg, nil)

	err := worker.processWebhookEvent(context.Background(), sampleEvent(), `{}`)

	assert.ErrorContains(t, err, "after 2 attempts")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestProcessWebhookEvent_StopsBackoffOnCancel(t *testing.T) {
	_, client := newTestRedis(t)
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := &config.Config{WebhookURL: server.URL, WebhookTimeout: time.Second, WebhookMaxRetries: 5, WebhookBaseDelay: time.Hour}
	worker := NewWebhookWorker(client, logger.Discard(), cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	started := time.Now()
	err := worker.processWebhookEvent(ctx, sampleEvent(), `{}`)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(started), 5*time.Second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

func TestProcessWebhookEvent_NoURL(t *testing.T) {
	_, client := newTestRedis(t)
	worker := newTestWorker(t, client, &config.Config{}, nil)

	assert.NoError(t, worker.processWebhookEvent(context.Background(), sampleEvent(), `{}`))
}

func TestWebhookWorker_DeliversQueuedEvents(t *testing.T) {
	_, client := newTestRedis(t)
	delivered := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		delivered <- string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := &recordingNotifier{events: make(chan IncidentEvent, 1)}
	cfg := &config.Config{WebhookURL: server.URL, WebhookTimeout: time.Second, WebhookMaxRetries: 1}
	worker := newTestWorker(t, client, cfg, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	event := sampleEvent()
	require.NoError(t, NewRedisWebhookPublisher(client).Publish(ctx, event))

	select {
	case body := <-delivered:
		assert.Contains(t, body, event.Incident.ID.String())
	case <-time.After(3 * time.Second):
		t.Fatal("webhook was not delivered")
	}

	select {
	case got := <-notifier.events:
		assert.Equal(t, event.Incident.ID, got.Incident.ID)
	case <-time.After(3 * time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestSlackNotifier_Notify(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := NewSlackNotifier(server.URL).Notify(context.Background(), sampleEvent())

	require.NoError(t, err)
	assert.Equal(t, "[Eau] Nouvel incident : Coupure d'eau (Owendo) - Signalé", got["text"])
}

func TestSlackText_StatusChanged(t *testing.T) {
	event := sampleEvent()
	event.Event = EventStatusChanged
	event.PreviousStatus = models.StatusScheduled
	event.Incident.Status = models.StatusOngoing

	assert.Equal(t, "[Eau] Coupure d'eau : Programmé → En cours", slackText(event))
}
