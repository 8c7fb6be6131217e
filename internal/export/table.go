package export

import (
	"strconv"
	"time"

	"github.com/shenikar/outage_dashboard/internal/models"
)

var columns = []string{
	"ID",
	"Titre",
	"Service",
	"Statut",
	"Secteur",
	"Lieu",
	"Début",
	"Fin prévue",
	"Latitude",
	"Longitude",
	"Créé le",
}

const timeLayout = "2006-01-02 15:04"

func row(incident *models.Incident, loc *time.Location) []string {
	return []string{
		incident.ID.String(),
		incident.Title,
		incident.ServiceType.Label(),
		incident.Status.Label(),
		incident.SectorName(),
		incident.Location,
		incident.StartTime.In(loc).Format(timeLayout),
		optionalTime(incident.ExpectedEndTime, loc),
		optionalFloat(incident.Latitude),
		optionalFloat(incident.Longitude),
		incident.CreatedAt.In(loc).Format(timeLayout),
	}
}

func optionalTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(timeLayout)
}

func optionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
