package outage

import (
	"math"

	"github.com/google/uuid"
	"github.com/shenikar/outage_dashboard/internal/models"
)

// Marker - точка инцидента на карте
type Marker struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Status      models.Status      `json:"status"`
	ServiceType models.ServiceType `json:"service_type"`
	Latitude    float64            `json:"latitude"`
	Longitude   float64            `json:"longitude"`
}

// Markers отбирает инциденты с корректными координатами
func Markers(incidents []*models.Incident) []Marker {
	markers := make([]Marker, 0, len(incidents))
	for _, incident := range incidents {
		if incident == nil || !incident.HasCoordinates() {
			continue
		}
		lat, lon := *incident.Latitude, *incident.Longitude
		if !finite(lat) || !finite(lon) {
			continue
		}
		m := Marker{
			ID:          incident.ID,
			Title:       incident.Title,
			Status:      incident.Status,
			ServiceType: incident.ServiceType,
			Latitude:    lat,
			Longitude:   lon,
		}
		if incident.Description != nil {
			m.Description = *incident.Description
		}
		markers = append(markers, m)
	}
	return markers
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
