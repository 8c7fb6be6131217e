package v1

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/outage_dashboard/internal/outage"
)

// ReportIncidentRequest DTO для сообщения об инциденте жителем
// @Description Координаты принимаются числом или строкой с числом
type ReportIncidentRequest struct {
	Title           string      `json:"title" validate:"required,max=255"`
	Description     string      `json:"description" validate:"required"`
	Location        string      `json:"location" validate:"required,max=255"`
	Latitude        json.Number `json:"latitude" swaggertype:"string" validate:"required"`
	Longitude       json.Number `json:"longitude" swaggertype:"string" validate:"required"`
	ServiceType     string      `json:"service_type" validate:"required,oneof=water electricity"`
	StartTime       *time.Time  `json:"start_time" validate:"required"`
	ExpectedEndTime *time.Time  `json:"expected_end_time,omitempty"`
	SectorID        *uuid.UUID  `json:"sector_id,omitempty"`
}

// UpdateIncidentRequest DTO для полного обновления инцидента администратором
// @Description DTO для обновления инцидента
type UpdateIncidentRequest struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Description     *string    `json:"description,omitempty"`
	Location        string     `json:"location" validate:"max=255"`
	ServiceType     string     `json:"service_type" validate:"required,oneof=water electricity"`
	Status          string     `json:"status" validate:"required,oneof=reported scheduled ongoing resolved"`
	StartTime       time.Time  `json:"start_time" validate:"required"`
	ExpectedEndTime *time.Time `json:"expected_end_time,omitempty"`
	SectorID        *uuid.UUID `json:"sector_id,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude       *float64   `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// UpdateStatusRequest DTO для смены статуса
// @Description DTO для смены статуса
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=reported scheduled ongoing resolved"`
}

// SectorResponse DTO сектора
type SectorResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     *string         `json:"description,omitempty"`
	Location        string          `json:"location,omitempty"`
	ServiceType     string          `json:"service_type"`
	Status          string          `json:"status"`
	StartTime       time.Time       `json:"start_time"`
	ExpectedEndTime *time.Time      `json:"expected_end_time,omitempty"`
	Sector          *SectorResponse `json:"sector,omitempty"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// SectorGroupResponse - текущие инциденты одного сектора
type SectorGroupResponse struct {
	Sector    string              `json:"sector"`
	Incidents []*IncidentResponse `json:"incidents"`
}

// CalendarResponse - дни с отключениями в формате YYYY-MM-DD
type CalendarResponse struct {
	Timezone string   `json:"timezone"`
	Month    string   `json:"month,omitempty"`
	Days     []string `json:"days"`
}

// DayResponse - инциденты, активные в выбранный день
type DayResponse struct {
	Day       string              `json:"day"`
	Incidents []*IncidentResponse `json:"incidents"`
}

// MapCenter - центр карты по умолчанию
type MapCenter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapResponse - маркеры активных инцидентов и настройки карты
type MapResponse struct {
	Center  MapCenter       `json:"center"`
	Zoom    int             `json:"zoom"`
	Markers []outage.Marker `json:"markers"`
}
