package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/internal/outage"
	"github.com/shenikar/outage_dashboard/internal/service/mocks"
	"github.com/shenikar/outage_dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func activeIncident(service models.ServiceType, start time.Time, days int, coords bool) *models.Incident {
	end := start.AddDate(0, 0, days)
	inc := &models.Incident{
		ID:              uuid.New(),
		Title:           string(service),
		ServiceType:     service,
		Status:          models.StatusOngoing,
		StartTime:       start,
		ExpectedEndTime: &end,
	}
	if coords {
		lat, lon := 0.4, 9.45
		inc.Latitude, inc.Longitude = &lat, &lon
	}
	return inc
}

func newTestCalendarService(t *testing.T, reporter outage.AnomalyReporter) (CalendarService, *mocks.MockActiveSource) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockActiveSource(ctrl)
	indexer := outage.NewIndexer(time.UTC, 0, reporter)
	return NewCalendarService(source, indexer, logger.Discard()), source
}

func TestParseMonth(t *testing.T) {
	month, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, Month{Year: 2024, Month: time.February}, month)

	_, err = ParseMonth("2024-13")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseMonth("février")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCalendarDays_FiltersByService(t *testing.T) {
	svc, source := newTestCalendarService(t, nil)
	ctx := context.Background()
	water := activeIncident(models.ServiceWater, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), 2, false)
	power := activeIncident(models.ServiceElectricity, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), 0, false)
	source.EXPECT().Active(ctx).Return([]*models.Incident{water, power}, nil).AnyTimes()

	days, err := svc.CalendarDays(ctx, models.ServiceWater, nil)
	require.NoError(t, err)
	assert.Equal(t, []outage.Day{
		{Year: 2026, Month: time.March, Day: 1},
		{Year: 2026, Month: time.March, Day: 2},
		{Year: 2026, Month: time.March, Day: 3},
	}, days)

	days, err = svc.CalendarDays(ctx, outage.ServiceAll, nil)
	require.NoError(t, err)
	assert.Len(t, days, 4)
}

func TestCalendarDays_RestrictsToMonth(t *testing.T) {
	svc, source := newTestCalendarService(t, nil)
	ctx := context.Background()
	spanning := activeIncident(models.ServiceWater, time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC), 3, false)
	source.EXPECT().Active(ctx).Return([]*models.Incident{spanning}, nil)

	days, err := svc.CalendarDays(ctx, "", &Month{Year: 2026, Month: time.March})

	require.NoError(t, err)
	assert.Equal(t, []outage.Day{
		{Year: 2026, Month: time.March, Day: 1},
		{Year: 2026, Month: time.March, Day: 2},
	}, days)
}

func TestIncidentsOnDay(t *testing.T) {
	svc, source := newTestCalendarService(t, nil)
	ctx := context.Background()
	first := activeIncident(models.ServiceWater, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), 2, false)
	second := activeIncident(models.ServiceWater, time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC), 0, false)
	source.EXPECT().Active(ctx).Return([]*models.Incident{first, second}, nil)

	incidents, err := svc.IncidentsOnDay(ctx, models.ServiceWater, outage.Day{Year: 2026, Month: time.March, Day: 2})

	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, first.ID, incidents[0].ID)
}

func TestMapMarkers_SkipsIncidentsWithoutCoordinates(t *testing.T) {
	svc, source := newTestCalendarService(t, nil)
	ctx := context.Background()
	located := activeIncident(models.ServiceElectricity, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), 0, true)
	unlocated := activeIncident(models.ServiceElectricity, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), 0, false)
	source.EXPECT().Active(ctx).Return([]*models.Incident{located, unlocated}, nil)

	markers, err := svc.MapMarkers(ctx, models.ServiceElectricity)

	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, located.ID, markers[0].ID)
}

func TestActiveIncidents_SourceError(t *testing.T) {
	svc, source := newTestCalendarService(t, nil)
	ctx := context.Background()
	source.EXPECT().Active(ctx).Return(nil, errors.New("db down"))

	_, err := svc.CalendarDays(ctx, models.ServiceWater, nil)

	assert.ErrorContains(t, err, "could not load active incidents")
}

func TestAnomalyLogger_ReceivesClampedRanges(t *testing.T) {
	var got []outage.Anomaly
	reporter := outage.AnomalyReporterFunc(func(a outage.Anomaly) {
		NewAnomalyLogger(logger.Discard()).ReportAnomaly(a)
		got = append(got, a)
	})
	svc, source := newTestCalendarService(t, reporter)
	ctx := context.Background()
	inverted := activeIncident(models.ServiceWater, time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC), -2, false)
	source.EXPECT().Active(ctx).Return([]*models.Incident{inverted}, nil)

	days, err := svc.CalendarDays(ctx, models.ServiceWater, nil)

	require.NoError(t, err)
	assert.Equal(t, []outage.Day{{Year: 2026, Month: time.March, Day: 5}}, days)
	require.Len(t, got, 1)
	assert.Equal(t, outage.AnomalyInvertedRange, got[0].Kind)
	assert.Equal(t, inverted.ID, got[0].IncidentID)
}
