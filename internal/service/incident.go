package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/outage_dashboard/internal/metrics"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/internal/outage"
	"github.com/shenikar/outage_dashboard/internal/webhook"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	List(ctx context.Context, query models.IncidentQuery) ([]*models.Incident, error)
	ListSectors(ctx context.Context) ([]models.Sector, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// ChangePublisher публикует уведомления об изменениях в ленту
type ChangePublisher interface {
	Publish(ctx context.Context, event models.ChangeEvent) error
}

// IncidentService определяет контракт для бизнес-логики управления инцидентами
type IncidentService interface {
	ReportIncident(ctx context.Context, form ReportForm) (*models.Incident, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	UpdateIncident(ctx context.Context, incident *models.Incident) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	ListIncidents(ctx context.Context, criteria outage.Criteria) ([]*models.Incident, error)
	OngoingBySector(ctx context.Context) ([]outage.SectorGroup, error)
	ListSectors(ctx context.Context) ([]models.Sector, error)
}

type incidentService struct {
	repo     IncidentRepository
	logger   *logrus.Logger
	changes  ChangePublisher
	webhooks webhook.WebhookPublisher
	now      func() time.Time
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, changes ChangePublisher, webhooks webhook.WebhookPublisher) IncidentService {
	return &incidentService{
		repo:     repo,
		logger:   logger,
		changes:  changes,
		webhooks: webhooks,
		now:      time.Now,
	}
}

// ReportIncident проверяет форму и создает инцидент со статусом reported
func (s *incidentService) ReportIncident(ctx context.Context, form ReportForm) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ReportIncident",
		"title":   form.Title,
	})
	log.Info("Attempting to report a new incident")

	incident, err := form.ToIncident()
	if err != nil {
		log.WithError(err).Warn("Report form rejected")
		return nil, err
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}
	log = log.WithField("incident_id", incident.ID)
	metrics.ObserveReport(incident.ServiceType)

	s.notify(ctx, log, models.ChangeInsert, incident.ID)
	s.enqueueWebhook(ctx, log, webhook.EventIncidentReported, incident, "")

	log.Info("Incident reported successfully")
	return incident, nil
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache, falling back to database")
	}
	if cached != nil {
		log.Debug("Incident served from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}

	log.Info("Incident fetched successfully")
	return incident, nil
}

// UpdateIncident обновляет существующий инцидент. Статус может быть любым.
func (s *incidentService) UpdateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": incident.ID,
	})
	log.Info("Attempting to update an incident")

	existing, err := s.repo.GetByID(ctx, incident.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent incident")
		return fmt.Errorf("service: incident with id %s not found for update: %w", incident.ID, err)
	}
	previousStatus := existing.Status

	existing.Title = incident.Title
	existing.Description = incident.Description
	existing.Location = incident.Location
	existing.ServiceType = incident.ServiceType
	existing.Status = incident.Status
	existing.StartTime = incident.StartTime
	existing.ExpectedEndTime = incident.ExpectedEndTime
	existing.SectorID = incident.SectorID
	existing.Latitude = incident.Latitude
	existing.Longitude = incident.Longitude

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return fmt.Errorf("service: could not update incident: %w", err)
	}

	s.invalidate(ctx, log, existing.ID)
	s.notify(ctx, log, models.ChangeUpdate, existing.ID)
	if previousStatus != existing.Status {
		s.enqueueWebhook(ctx, log, webhook.EventStatusChanged, existing, previousStatus)
	}

	log.Info("Incident updated successfully")
	return nil
}

// UpdateStatus меняет только статус инцидента
func (s *incidentService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateStatus",
		"incident_id": id,
		"status":      status,
	})
	log.Info("Attempting to change incident status")

	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to change status of a non-existent incident")
		return fmt.Errorf("service: incident with id %s not found for status update: %w", id, err)
	}
	previousStatus := existing.Status

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		log.WithError(err).Error("Failed to update incident status in repository")
		return fmt.Errorf("service: could not update incident status: %w", err)
	}
	existing.Status = status

	s.invalidate(ctx, log, id)
	s.notify(ctx, log, models.ChangeUpdate, id)
	if previousStatus != status {
		s.enqueueWebhook(ctx, log, webhook.EventStatusChanged, existing, previousStatus)
	}

	log.Info("Incident status updated successfully")
	return nil
}

// ListIncidents возвращает инциденты, отфильтрованные по критериям, новые первыми
func (s *incidentService) ListIncidents(ctx context.Context, criteria outage.Criteria) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
		"text":    criteria.Text,
		"status":  criteria.Status,
		"type":    criteria.Service,
	})
	log.Info("Listing incidents")

	query := models.IncidentQuery{}
	if status, ok := criteria.StatusFilter(); ok {
		query.Statuses = []models.Status{status}
	}
	if service, ok := criteria.ServiceFilter(); ok {
		query.ServiceType = service
	}

	incidents, err := s.repo.List(ctx, query)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	result := outage.Filter(incidents, criteria)
	log.WithField("count", len(result)).Info("Incidents listed successfully")
	return result, nil
}

// OngoingBySector возвращает текущие инциденты, сгруппированные по секторам
func (s *incidentService) OngoingBySector(ctx context.Context) ([]outage.SectorGroup, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "OngoingBySector",
	})

	incidents, err := s.repo.List(ctx, models.IncidentQuery{Statuses: []models.Status{models.StatusOngoing}})
	if err != nil {
		log.WithError(err).Error("Failed to list ongoing incidents from repository")
		return nil, fmt.Errorf("service: could not list ongoing incidents: %w", err)
	}

	groups := outage.GroupBySector(incidents)
	log.WithField("sectors", len(groups)).Debug("Ongoing incidents grouped")
	return groups, nil
}

// ListSectors возвращает справочник секторов
func (s *incidentService) ListSectors(ctx context.Context) ([]models.Sector, error) {
	sectors, err := s.repo.ListSectors(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("method", "ListSectors").Error("Failed to list sectors")
		return nil, fmt.Errorf("service: could not list sectors: %w", err)
	}
	return sectors, nil
}

func (s *incidentService) invalidate(ctx context.Context, log *logrus.Entry, id uuid.UUID) {
	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
}

// notify публикует изменение; ошибка ленты не отменяет уже записанное изменение
func (s *incidentService) notify(ctx context.Context, log *logrus.Entry, change models.ChangeType, id uuid.UUID) {
	if s.changes == nil {
		return
	}
	event := models.ChangeEvent{
		Table: models.IncidentsTable,
		Type:  change,
		ID:    id,
		At:    s.now(),
	}
	if err := s.changes.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish change event")
	}
}

func (s *incidentService) enqueueWebhook(ctx context.Context, log *logrus.Entry, name string, incident *models.Incident, previous models.Status) {
	if s.webhooks == nil {
		return
	}
	event := webhook.IncidentEvent{
		Event:          name,
		Incident:       incident,
		PreviousStatus: previous,
		Timestamp:      s.now(),
	}
	if err := s.webhooks.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish webhook event")
	}
}

// IsNotFound сообщает, что ошибка вызвана отсутствием инцидента
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrIncidentNotFound)
}
