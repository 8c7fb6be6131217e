package v1

import (
	"fmt"

	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/internal/outage"
	"github.com/shenikar/outage_dashboard/internal/service"
)

// ReportRequestToForm преобразует DTO жителя в форму сервиса
func ReportRequestToForm(dto ReportIncidentRequest) service.ReportForm {
	return service.ReportForm{
		Title:           dto.Title,
		Description:     dto.Description,
		Location:        dto.Location,
		Latitude:        dto.Latitude.String(),
		Longitude:       dto.Longitude.String(),
		ServiceType:     dto.ServiceType,
		StartTime:       dto.StartTime,
		ExpectedEndTime: dto.ExpectedEndTime,
		SectorID:        dto.SectorID,
	}
}

// UpdateRequestToIncident преобразует DTO обновления в доменную модель
func UpdateRequestToIncident(dto UpdateIncidentRequest) (*models.Incident, error) {
	if dto.ExpectedEndTime != nil && dto.ExpectedEndTime.Before(dto.StartTime) {
		return nil, fmt.Errorf("%w: expected end time is before start time", service.ErrValidation)
	}
	return &models.Incident{
		Title:           dto.Title,
		Description:     dto.Description,
		Location:        dto.Location,
		ServiceType:     models.ServiceType(dto.ServiceType),
		Status:          models.Status(dto.Status),
		StartTime:       dto.StartTime,
		ExpectedEndTime: dto.ExpectedEndTime,
		SectorID:        dto.SectorID,
		Latitude:        dto.Latitude,
		Longitude:       dto.Longitude,
	}, nil
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	resp := &IncidentResponse{
		ID:              model.ID,
		Title:           model.Title,
		Description:     model.Description,
		Location:        model.Location,
		ServiceType:     string(model.ServiceType),
		Status:          string(model.Status),
		StartTime:       model.StartTime,
		ExpectedEndTime: model.ExpectedEndTime,
		Latitude:        model.Latitude,
		Longitude:       model.Longitude,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	if model.Sector != nil {
		resp.Sector = &SectorResponse{ID: model.Sector.ID, Name: model.Sector.Name}
	}
	return resp
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

func sectorGroupsToResponse(groups []outage.SectorGroup) []SectorGroupResponse {
	responses := make([]SectorGroupResponse, len(groups))
	for i, g := range groups {
		responses[i] = SectorGroupResponse{Sector: g.Sector, Incidents: ModelsToIncidentResponses(g.Incidents)}
	}
	return responses
}

func sectorsToResponse(sectors []models.Sector) []SectorResponse {
	responses := make([]SectorResponse, len(sectors))
	for i, s := range sectors {
		responses[i] = SectorResponse{ID: s.ID, Name: s.Name}
	}
	return responses
}

func daysToStrings(days []outage.Day) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}
