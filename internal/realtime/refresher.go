package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shenikar/outage_dashboard/internal/metrics"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

// Fetcher загружает актуальный набор активных инцидентов
type Fetcher func(ctx context.Context) ([]*models.Incident, error)

// ChangeSource - источник уведомлений об изменениях таблицы
type ChangeSource interface {
	Subscribe(ctx context.Context, table string, onChange func(models.ChangeEvent)) (*Subscription, error)
}

// Refresher держит снимок активных инцидентов и перечитывает его целиком
// после каждой пачки уведомлений об изменениях.
type Refresher struct {
	fetch    Fetcher
	changes  ChangeSource
	debounce time.Duration
	timeout  time.Duration
	logger   *logrus.Logger

	snapshot Snapshot[[]*models.Incident]

	mu        sync.Mutex
	ctx       context.Context
	debouncer *Debouncer
	sub       *Subscription
}

func NewRefresher(fetch Fetcher, changes ChangeSource, debounce time.Duration, logger *logrus.Logger) *Refresher {
	return &Refresher{
		fetch:    fetch,
		changes:  changes,
		debounce: debounce,
		timeout:  10 * time.Second,
		logger:   logger,
	}
}

// Start выполняет первую загрузку и подписывается на изменения инцидентов.
// Ошибка первой загрузки не фатальна: снимок будет загружен при первом обращении.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	r.ctx = ctx
	r.debouncer = NewDebouncer(r.debounce, r.refreshInBackground)
	r.mu.Unlock()

	if err := r.Refresh(ctx); err != nil {
		r.logger.WithError(err).Warn("Initial snapshot load failed")
	}

	sub, err := r.changes.Subscribe(ctx, models.IncidentsTable, func(event models.ChangeEvent) {
		r.logger.WithFields(logrus.Fields{
			"table": event.Table,
			"type":  event.Type,
			"id":    event.ID,
		}).Debug("Change received, scheduling refresh")
		r.debouncer.Trigger()
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe refresher: %w", err)
	}

	r.mu.Lock()
	r.sub = sub
	r.mu.Unlock()
	return nil
}

// Stop отменяет подписку и отложенное обновление
func (r *Refresher) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.debouncer != nil {
		r.debouncer.Stop()
	}
	if r.sub != nil {
		return r.sub.Close()
	}
	return nil
}

// Refresh перечитывает снимок. Результат, пришедший позже более нового, отбрасывается.
func (r *Refresher) Refresh(ctx context.Context) error {
	seq := r.snapshot.Begin()
	incidents, err := r.fetch(ctx)
	metrics.ObserveRefresh(err)
	if err != nil {
		return fmt.Errorf("failed to refresh active incidents: %w", err)
	}
	if !r.snapshot.Commit(seq, incidents) {
		r.logger.WithField("seq", seq).Debug("Discarded stale snapshot")
	}
	return nil
}

// Active отдает текущий снимок, при его отсутствии загружает данные напрямую
func (r *Refresher) Active(ctx context.Context) ([]*models.Incident, error) {
	if incidents, _, ok := r.snapshot.Load(); ok {
		return incidents, nil
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	incidents, _, _ := r.snapshot.Load()
	return incidents, nil
}

func (r *Refresher) refreshInBackground() {
	r.mu.Lock()
	parent := r.ctx
	r.mu.Unlock()
	if parent == nil || parent.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()
	if err := r.Refresh(ctx); err != nil {
		// предыдущий снимок остается в силе
		r.logger.WithError(err).Error("Snapshot refresh failed")
	}
}
