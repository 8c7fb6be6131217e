package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/outage_dashboard/internal/metrics"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/internal/outage"
	"github.com/sirupsen/logrus"
)

// ActiveSource отдает снимок активных (scheduled, ongoing) инцидентов
type ActiveSource interface {
	Active(ctx context.Context) ([]*models.Incident, error)
}

// Month - месяц календаря
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth разбирает месяц в формате YYYY-MM
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: invalid month %q", ErrValidation, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// CalendarService определяет контракт календаря и карты отключений
type CalendarService interface {
	CalendarDays(ctx context.Context, serviceType models.ServiceType, month *Month) ([]outage.Day, error)
	IncidentsOnDay(ctx context.Context, serviceType models.ServiceType, day outage.Day) ([]*models.Incident, error)
	ActiveIncidents(ctx context.Context, serviceType models.ServiceType) ([]*models.Incident, error)
	MapMarkers(ctx context.Context, serviceType models.ServiceType) ([]outage.Marker, error)
	Indexer() *outage.Indexer
}

type calendarService struct {
	source  ActiveSource
	indexer *outage.Indexer
	logger  *logrus.Logger
}

func NewCalendarService(source ActiveSource, indexer *outage.Indexer, logger *logrus.Logger) CalendarService {
	return &calendarService{
		source:  source,
		indexer: indexer,
		logger:  logger,
	}
}

func (s *calendarService) Indexer() *outage.Indexer {
	return s.indexer
}

// ActiveIncidents возвращает активные инциденты выбранной услуги ("" или "all" - все)
func (s *calendarService) ActiveIncidents(ctx context.Context, service models.ServiceType) ([]*models.Incident, error) {
	incidents, err := s.source.Active(ctx)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"service": "calendar",
			"method":  "ActiveIncidents",
		}).Error("Failed to load active incidents")
		return nil, fmt.Errorf("service: could not load active incidents: %w", err)
	}
	return outage.Filter(incidents, outage.Criteria{Service: service}), nil
}

// CalendarDays возвращает дни с отключениями, при month != nil только внутри месяца
func (s *calendarService) CalendarDays(ctx context.Context, serviceType models.ServiceType, month *Month) ([]outage.Day, error) {
	incidents, err := s.ActiveIncidents(ctx, serviceType)
	if err != nil {
		return nil, err
	}
	if month == nil {
		return s.indexer.DaysWithActivity(incidents).Sorted(), nil
	}
	from, to := outage.MonthBounds(month.Year, month.Month)
	return s.indexer.DaysInRange(incidents, from, to), nil
}

// IncidentsOnDay возвращает инциденты, активные в указанный день
func (s *calendarService) IncidentsOnDay(ctx context.Context, service models.ServiceType, day outage.Day) ([]*models.Incident, error) {
	incidents, err := s.ActiveIncidents(ctx, service)
	if err != nil {
		return nil, err
	}
	return s.indexer.IncidentsOnDay(incidents, day), nil
}

// MapMarkers возвращает точки активных инцидентов с координатами
func (s *calendarService) MapMarkers(ctx context.Context, service models.ServiceType) ([]outage.Marker, error) {
	incidents, err := s.ActiveIncidents(ctx, service)
	if err != nil {
		return nil, err
	}
	return outage.Markers(incidents), nil
}

// AnomalyLogger пишет аномалии диапазонов дат в лог и метрики
type AnomalyLogger struct {
	logger *logrus.Logger
}

func NewAnomalyLogger(logger *logrus.Logger) *AnomalyLogger {
	return &AnomalyLogger{logger: logger}
}

func (a *AnomalyLogger) ReportAnomaly(anomaly outage.Anomaly) {
	metrics.ObserveAnomaly(string(anomaly.Kind))
	a.logger.WithFields(logrus.Fields{
		"incident_id": anomaly.IncidentID,
		"kind":        anomaly.Kind,
		"start":       anomaly.Start.String(),
		"end":         anomaly.End.String(),
		"span_days":   anomaly.SpanDays,
	}).Warn("Incident date range clamped")
}
