package outage

import (
	"math"
	"testing"

	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBySector(t *testing.T) {
	incidents := sampleIncidents()

	groups := GroupBySector(incidents)

	require.Len(t, groups, 4)
	assert.Equal(t, "Owendo", groups[0].Sector)
	assert.Equal(t, []*models.Incident{incidents[0], incidents[4]}, groups[0].Incidents)
	assert.Equal(t, UnknownSector, groups[3].Sector)
	assert.Equal(t, []*models.Incident{incidents[3]}, groups[3].Incidents)
}

func TestGroupBySector_Empty(t *testing.T) {
	assert.Empty(t, GroupBySector(nil))
}

func TestMarkers_SkipsIncidentsWithoutCoordinates(t *testing.T) {
	withCoords := newIncident("Coupure d'eau", "Owendo", models.StatusOngoing, models.ServiceWater)
	withCoords.Latitude = ptr(0.4162)
	withCoords.Longitude = ptr(9.4527)
	withCoords.Description = ptr("Canalisation cassée")

	onlyLat := newIncident("Panne", "Louis", models.StatusScheduled, models.ServiceElectricity)
	onlyLat.Latitude = ptr(0.41)

	notFinite := newIncident("Panne", "Louis", models.StatusScheduled, models.ServiceElectricity)
	notFinite.Latitude = ptr(math.NaN())
	notFinite.Longitude = ptr(9.4)

	markers := Markers([]*models.Incident{withCoords, onlyLat, notFinite, nil})

	require.Len(t, markers, 1)
	assert.Equal(t, withCoords.ID, markers[0].ID)
	assert.Equal(t, 0.4162, markers[0].Latitude)
	assert.Equal(t, "Canalisation cassée", markers[0].Description)
}
