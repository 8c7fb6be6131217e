package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shenikar/outage_dashboard/internal/models"
)

const (
	// OutcomeSuccess - метка успешной операции
	OutcomeSuccess = "success"
	// OutcomeError - метка неудачной операции
	OutcomeError = "error"
)

const namespace = "outage_dashboard"

var (
	incidentsReportedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_reported_total",
			Help:      "Total number of incidents reported, partitioned by service type.",
		},
		[]string{"service_type"},
	)

	dateRangeAnomaliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "date_range_anomalies_total",
			Help:      "Incident date ranges clamped by the calendar indexer, partitioned by kind.",
		},
		[]string{"kind"},
	)

	snapshotRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_refreshes_total",
			Help:      "Active incident snapshot refreshes, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	webhookDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_total",
			Help:      "Webhook delivery attempts that finished, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	httpRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Register регистрирует метрики. Повторная регистрация не считается ошибкой.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		incidentsReportedTotal,
		dateRangeAnomaliesTotal,
		snapshotRefreshesTotal,
		webhookDeliveriesTotal,
		httpRequestSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveReport учитывает новое сообщение об инциденте
func ObserveReport(service models.ServiceType) {
	incidentsReportedTotal.WithLabelValues(string(service)).Inc()
}

// ObserveAnomaly учитывает обрезанный диапазон дат инцидента
func ObserveAnomaly(kind string) {
	dateRangeAnomaliesTotal.WithLabelValues(kind).Inc()
}

// ObserveRefresh учитывает обновление снимка
func ObserveRefresh(err error) {
	snapshotRefreshesTotal.WithLabelValues(outcome(err)).Inc()
}

// ObserveWebhook учитывает завершенную доставку вебхука
func ObserveWebhook(err error) {
	webhookDeliveriesTotal.WithLabelValues(outcome(err)).Inc()
}

// GinMiddleware замеряет время обработки запроса по шаблону маршрута
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestSeconds.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
