package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/internal/outage"
	"github.com/shenikar/outage_dashboard/internal/service/mocks"
	"github.com/shenikar/outage_dashboard/internal/webhook"
	webhook_mocks "github.com/shenikar/outage_dashboard/internal/webhook/mocks"
	"github.com/shenikar/outage_dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type serviceMocks struct {
	repo     *mocks.MockIncidentRepository
	changes  *mocks.MockChangePublisher
	webhooks *webhook_mocks.MockWebhookPublisher
}

// newTestIncidentService - вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (*incidentService, serviceMocks) {
	ctrl := gomock.NewController(t)
	m := serviceMocks{
		repo:     mocks.NewMockIncidentRepository(ctrl),
		changes:  mocks.NewMockChangePublisher(ctrl),
		webhooks: webhook_mocks.NewMockWebhookPublisher(ctrl),
	}

	svc := NewIncidentService(m.repo, logger.Discard(), m.changes, m.webhooks).(*incidentService)
	svc.now = func() time.Time { return fixedNow }
	return svc, m
}

func validForm() ReportForm {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)
	return ReportForm{
		Title:           "  Coupure d'eau  ",
		Description:     "Plus d'eau depuis ce matin",
		Location:        "Rue des Cocotiers",
		Latitude:        "0.3901",
		Longitude:       "9.4544",
		ServiceType:     "water",
		StartTime:       &start,
		ExpectedEndTime: &end,
	}
}

func TestGetIncident_Success_FromCache(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expected := &models.Incident{ID: incidentID, Title: "Инцидент из кеша"}

	// Ожидания
	m.repo.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(expected, nil).Times(1)

	// Действие
	incident, err := svc.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incident)
}

func TestGetIncident_Success_FromDB(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expected := &models.Incident{ID: incidentID, Title: "Инцидент из БД"}

	// Ожидания
	// 1. Промах кеша
	m.repo.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(nil, nil).Times(1)
	// 2. Попадание в БД
	m.repo.EXPECT().GetByID(ctx, incidentID).Return(expected, nil).Times(1)
	// 3. Запись в кеш
	m.repo.EXPECT().SetIncidentCache(ctx, expected).Return(nil).Times(1)

	// Действие
	incident, err := svc.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incident)
}

func TestGetIncident_CacheErrorFallsBackToDB(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expected := &models.Incident{ID: incidentID}

	m.repo.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(nil, errors.New("redis down"))
	m.repo.EXPECT().GetByID(ctx, incidentID).Return(expected, nil)
	m.repo.EXPECT().SetIncidentCache(ctx, expected).Return(errors.New("redis down"))

	incident, err := svc.GetIncident(ctx, incidentID)

	require.NoError(t, err)
	assert.Equal(t, expected, incident)
}

func TestGetIncident_NotFound(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	m.repo.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(nil, nil)
	m.repo.EXPECT().GetByID(ctx, incidentID).
		Return(nil, fmt.Errorf("incident with id %s: %w", incidentID, models.ErrIncidentNotFound))

	// Действие
	incident, err := svc.GetIncident(ctx, incidentID)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorContains(t, err, "could not get incident")
	assert.True(t, IsNotFound(err))
}

func TestReportIncident_Success(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	newID := uuid.New()

	// Ожидания
	var created *models.Incident
	m.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, inc *models.Incident) error {
		inc.ID = newID
		created = inc
		return nil
	})
	m.changes.EXPECT().Publish(ctx, models.ChangeEvent{
		Table: models.IncidentsTable,
		Type:  models.ChangeInsert,
		ID:    newID,
		At:    fixedNow,
	}).Return(nil)
	m.webhooks.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, event webhook.IncidentEvent) error {
		assert.Equal(t, webhook.EventIncidentReported, event.Event)
		assert.Equal(t, newID, event.Incident.ID)
		assert.Empty(t, event.PreviousStatus)
		return nil
	})

	// Действие
	incident, err := svc.ReportIncident(ctx, validForm())

	// Проверки
	require.NoError(t, err)
	assert.Same(t, created, incident)
	assert.Equal(t, "Coupure d'eau", incident.Title)
	assert.Equal(t, models.StatusReported, incident.Status)
	assert.Equal(t, models.ServiceWater, incident.ServiceType)
}

func TestReportIncident_ValidationError(t *testing.T) {
	svc, _ := newTestIncidentService(t)
	form := validForm()
	form.Latitude = "NaN"

	incident, err := svc.ReportIncident(context.Background(), form)

	assert.Nil(t, incident)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReportIncident_RepositoryError(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	m.repo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("insert failed"))

	_, err := svc.ReportIncident(ctx, validForm())

	assert.ErrorContains(t, err, "could not create incident")
}

func TestReportIncident_FeedErrorsDoNotFail(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	m.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	m.changes.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("redis down"))
	m.webhooks.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("redis down"))

	incident, err := svc.ReportIncident(ctx, validForm())

	require.NoError(t, err)
	assert.NotNil(t, incident)
}

func TestUpdateIncident_Success(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	existing := &models.Incident{ID: incidentID, Title: "Старое", Status: models.StatusScheduled}
	update := &models.Incident{ID: incidentID, Title: "Новое", Status: models.StatusOngoing}

	// Ожидания
	gomock.InOrder(
		m.repo.EXPECT().GetByID(ctx, incidentID).Return(existing, nil),
		m.repo.EXPECT().Update(ctx, existing).Return(nil),
		m.repo.EXPECT().InvalidateIncidentCache(ctx, incidentID).Return(nil),
		m.changes.EXPECT().Publish(ctx, gomock.Any()).Return(nil),
	)
	m.webhooks.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, event webhook.IncidentEvent) error {
		assert.Equal(t, webhook.EventStatusChanged, event.Event)
		assert.Equal(t, models.StatusScheduled, event.PreviousStatus)
		assert.Equal(t, models.StatusOngoing, event.Incident.Status)
		return nil
	})

	// Действие
	err := svc.UpdateIncident(ctx, update)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "Новое", existing.Title)
}

func TestUpdateIncident_SameStatusSkipsWebhook(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	existing := &models.Incident{ID: incidentID, Status: models.StatusOngoing}

	m.repo.EXPECT().GetByID(ctx, incidentID).Return(existing, nil)
	m.repo.EXPECT().Update(ctx, existing).Return(nil)
	m.repo.EXPECT().InvalidateIncidentCache(ctx, incidentID).Return(nil)
	m.changes.EXPECT().Publish(ctx, gomock.Any()).Return(nil)
	m.webhooks.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	err := svc.UpdateIncident(ctx, &models.Incident{ID: incidentID, Title: "x", Status: models.StatusOngoing})

	require.NoError(t, err)
}

func TestUpdateIncident_NotFound(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	m.repo.EXPECT().GetByID(ctx, incidentID).Return(nil, models.ErrIncidentNotFound)

	// Действие
	err := svc.UpdateIncident(ctx, &models.Incident{ID: incidentID})

	// Проверки
	require.Error(t, err)
	assert.ErrorContains(t, err, "not found for update")
	assert.True(t, IsNotFound(err))
}

func TestUpdateStatus_Success(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	existing := &models.Incident{ID: incidentID, Status: models.StatusOngoing}

	gomock.InOrder(
		m.repo.EXPECT().GetByID(ctx, incidentID).Return(existing, nil),
		m.repo.EXPECT().UpdateStatus(ctx, incidentID, models.StatusResolved).Return(nil),
		m.repo.EXPECT().InvalidateIncidentCache(ctx, incidentID).Return(nil),
		m.changes.EXPECT().Publish(ctx, models.ChangeEvent{
			Table: models.IncidentsTable,
			Type:  models.ChangeUpdate,
			ID:    incidentID,
			At:    fixedNow,
		}).Return(nil),
		m.webhooks.EXPECT().Publish(ctx, gomock.Any()).Return(nil),
	)

	err := svc.UpdateStatus(ctx, incidentID, models.StatusResolved)

	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, existing.Status)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc, _ := newTestIncidentService(t)

	err := svc.UpdateStatus(context.Background(), uuid.New(), models.Status("inactive"))

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	m.repo.EXPECT().GetByID(ctx, incidentID).Return(nil, models.ErrIncidentNotFound)

	err := svc.UpdateStatus(ctx, incidentID, models.StatusOngoing)

	assert.ErrorContains(t, err, "not found for status update")
	assert.True(t, IsNotFound(err))
}

func TestListIncidents_PushesFiltersToRepository(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidents := []*models.Incident{
		{ID: uuid.New(), Title: "Coupure d'eau", ServiceType: models.ServiceWater, Status: models.StatusOngoing},
		{ID: uuid.New(), Title: "Fuite", ServiceType: models.ServiceWater, Status: models.StatusOngoing},
	}
	criteria, err := outage.ParseCriteria("EAU", "ongoing", "water")
	require.NoError(t, err)

	// Ожидания
	m.repo.EXPECT().List(ctx, models.IncidentQuery{
		Statuses:    []models.Status{models.StatusOngoing},
		ServiceType: models.ServiceWater,
	}).Return(incidents, nil)

	// Действие
	result, err := svc.ListIncidents(ctx, criteria)

	// Проверки
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Coupure d'eau", result[0].Title)
}

func TestListIncidents_AllCriteria(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	m.repo.EXPECT().List(ctx, models.IncidentQuery{}).Return([]*models.Incident{}, nil)

	result, err := svc.ListIncidents(ctx, outage.Criteria{Status: outage.StatusAll, Service: outage.ServiceAll})

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestListIncidents_RepositoryError(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	m.repo.EXPECT().List(ctx, gomock.Any()).Return(nil, errors.New("db down"))

	_, err := svc.ListIncidents(ctx, outage.Criteria{})

	assert.ErrorContains(t, err, "could not list incidents")
}

func TestOngoingBySector(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	owendo := &models.Sector{ID: uuid.New(), Name: "Owendo"}
	m.repo.EXPECT().List(ctx, models.IncidentQuery{Statuses: []models.Status{models.StatusOngoing}}).
		Return([]*models.Incident{
			{ID: uuid.New(), Sector: owendo},
			{ID: uuid.New()},
			{ID: uuid.New(), Sector: owendo},
		}, nil)

	groups, err := svc.OngoingBySector(ctx)

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Owendo", groups[0].Sector)
	assert.Len(t, groups[0].Incidents, 2)
	assert.Equal(t, outage.UnknownSector, groups[1].Sector)
}

func TestListSectors_Error(t *testing.T) {
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	m.repo.EXPECT().ListSectors(ctx).Return(nil, errors.New("db down"))

	_, err := svc.ListSectors(ctx)

	assert.ErrorContains(t, err, "could not list sectors")
}
