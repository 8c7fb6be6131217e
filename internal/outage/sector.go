package outage

import "github.com/shenikar/outage_dashboard/internal/models"

// UnknownSector - имя группы для инцидентов без сектора
const UnknownSector = "Unknown Sector"

// SectorGroup - инциденты одного сектора
type SectorGroup struct {
	Sector    string             `json:"sector"`
	Incidents []*models.Incident `json:"incidents"`
}

// GroupBySector группирует инциденты по имени сектора.
// Группы идут в порядке первого появления, внутри группы порядок сохраняется.
func GroupBySector(incidents []*models.Incident) []SectorGroup {
	index := make(map[string]int)
	groups := make([]SectorGroup, 0)
	for _, incident := range incidents {
		if incident == nil {
			continue
		}
		name := incident.SectorName()
		if name == "" {
			name = UnknownSector
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, SectorGroup{Sector: name})
		}
		groups[i].Incidents = append(groups[i].Incidents, incident)
	}
	return groups
}
