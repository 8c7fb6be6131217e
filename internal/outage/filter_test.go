package outage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIncident(title, sector string, status models.Status, service models.ServiceType) *models.Incident {
	inc := &models.Incident{
		ID:          uuid.New(),
		Title:       title,
		Status:      status,
		ServiceType: service,
	}
	if sector != "" {
		inc.Sector = &models.Sector{ID: uuid.New(), Name: sector}
	}
	return inc
}

func sampleIncidents() []*models.Incident {
	return []*models.Incident{
		newIncident("Coupure d'eau", "Owendo", models.StatusOngoing, models.ServiceWater),
		newIncident("Panne de courant", "Nzeng Ayong", models.StatusScheduled, models.ServiceElectricity),
		newIncident("Fuite réseau", "Centre Ville", models.StatusResolved, models.ServiceWater),
		newIncident("Délestage", "", models.StatusReported, models.ServiceElectricity),
		newIncident("Baisse de pression", "Owendo", models.StatusOngoing, models.ServiceWater),
	}
}

func TestFilter_IdentityWithAllCriteria(t *testing.T) {
	incidents := sampleIncidents()

	got := Filter(incidents, Criteria{Text: "", Status: StatusAll, Service: ServiceAll})

	assert.Equal(t, incidents, got)
}

func TestFilter_ZeroCriteriaIsIdentity(t *testing.T) {
	incidents := sampleIncidents()

	assert.True(t, Criteria{}.IsZero())
	assert.Equal(t, incidents, Filter(incidents, Criteria{}))
}

func TestFilter_TextIsCaseInsensitive(t *testing.T) {
	incidents := sampleIncidents()

	got := Filter(incidents, Criteria{Text: "EAU"})

	// "eau" входит и в "Coupure d'eau", и в "Fuite réseau"
	require.Len(t, got, 2)
	assert.Equal(t, incidents[0], got[0])
	assert.Equal(t, incidents[2], got[1])
	assert.Equal(t, got, Filter(incidents, Criteria{Text: "eau"}))
	assert.Empty(t, Filter(incidents, Criteria{Text: "ZZZ"}))
}

func TestFilter_TextMatchesSectorName(t *testing.T) {
	incidents := sampleIncidents()

	got := Filter(incidents, Criteria{Text: "owendo"})

	require.Len(t, got, 2)
	assert.Equal(t, incidents[0], got[0])
	assert.Equal(t, incidents[4], got[1])
}

func TestFilter_MissingSectorDoesNotMatchOrPanic(t *testing.T) {
	incidents := []*models.Incident{
		newIncident("Délestage", "", models.StatusReported, models.ServiceElectricity),
	}

	assert.NotPanics(t, func() {
		assert.Empty(t, Filter(incidents, Criteria{Text: "ville"}))
	})
}

func TestFilter_PredicatesAreCombinedWithAnd(t *testing.T) {
	incidents := sampleIncidents()

	got := Filter(incidents, Criteria{Text: "owendo", Status: models.StatusOngoing, Service: models.ServiceWater})
	assert.Len(t, got, 2)

	got = Filter(incidents, Criteria{Text: "owendo", Service: models.ServiceElectricity})
	assert.Empty(t, got)

	got = Filter(incidents, Criteria{Status: models.StatusScheduled})
	require.Len(t, got, 1)
	assert.Equal(t, "Panne de courant", got[0].Title)
}

func TestFilter_SubsetOrderAndIdempotence(t *testing.T) {
	incidents := sampleIncidents()
	criteria := []Criteria{
		{Text: "e"},
		{Service: models.ServiceWater},
		{Status: models.StatusOngoing},
		{Text: "de", Service: models.ServiceElectricity},
		{Text: "nothing here"},
	}

	for _, c := range criteria {
		got := Filter(incidents, c)

		// подмножество в исходном относительном порядке
		pos := -1
		for _, inc := range got {
			idx := indexOf(incidents, inc)
			require.GreaterOrEqual(t, idx, 0)
			assert.Greater(t, idx, pos)
			pos = idx
		}

		assert.Equal(t, got, Filter(got, c))
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	incidents := sampleIncidents()
	snapshot := append([]*models.Incident(nil), incidents...)

	_ = Filter(incidents, Criteria{Service: models.ServiceWater})

	assert.Equal(t, snapshot, incidents)
}

func TestParseCriteria(t *testing.T) {
	c, err := ParseCriteria("  eau ", "", "")
	require.NoError(t, err)
	assert.Equal(t, Criteria{Text: "eau", Status: StatusAll, Service: ServiceAll}, c)

	c, err = ParseCriteria("", "ongoing", "water")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOngoing, c.Status)
	assert.Equal(t, models.ServiceWater, c.Service)

	_, err = ParseCriteria("", "burning", "all")
	assert.ErrorIs(t, err, ErrInvalidCriteria)

	_, err = ParseCriteria("", "all", "gas")
	assert.ErrorIs(t, err, ErrInvalidCriteria)
}

func indexOf(incidents []*models.Incident, target *models.Incident) int {
	for i, inc := range incidents {
		if inc == target {
			return i
		}
	}
	return -1
}
