package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ServiceType - тип коммунальной услуги, затронутой инцидентом
type ServiceType string

const (
	ServiceWater       ServiceType = "water"
	ServiceElectricity ServiceType = "electricity"
)

// Valid проверяет, что значение входит в перечисление
func (s ServiceType) Valid() bool {
	return s == ServiceWater || s == ServiceElectricity
}

var serviceLabels = map[ServiceType]string{
	ServiceWater:       "Eau",
	ServiceElectricity: "Électricité",
}

// Label возвращает название услуги для пользователей
func (s ServiceType) Label() string {
	if label, ok := serviceLabels[s]; ok {
		return label
	}
	return string(s)
}

// Status - этап жизненного цикла инцидента. Переходы между статусами не ограничиваются.
type Status string

const (
	StatusReported  Status = "reported"
	StatusScheduled Status = "scheduled"
	StatusOngoing   Status = "ongoing"
	StatusResolved  Status = "resolved"
)

// Valid проверяет, что значение входит в перечисление
func (s Status) Valid() bool {
	switch s {
	case StatusReported, StatusScheduled, StatusOngoing, StatusResolved:
		return true
	}
	return false
}

var statusLabels = map[Status]string{
	StatusReported:  "Signalé",
	StatusScheduled: "Programmé",
	StatusOngoing:   "En cours",
	StatusResolved:  "Résolu",
}

// Label возвращает название статуса для пользователей
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ActiveStatuses - статусы, которые попадают в календарь и на карту
var ActiveStatuses = []Status{StatusScheduled, StatusOngoing}

// ErrIncidentNotFound возвращается репозиторием, если инцидента нет в бд
var ErrIncidentNotFound = errors.New("incident not found")

// Sector - район, к которому относится инцидент
type Sector struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Incident struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Description     *string     `json:"description,omitempty"`
	Location        string      `json:"location,omitempty"`
	ServiceType     ServiceType `json:"service_type"`
	Status          Status      `json:"status"`
	StartTime       time.Time   `json:"start_time"`
	ExpectedEndTime *time.Time  `json:"expected_end_time,omitempty"`
	SectorID        *uuid.UUID  `json:"sector_id,omitempty"`
	Sector          *Sector     `json:"sector,omitempty"`
	Latitude        *float64    `json:"latitude,omitempty"`
	Longitude       *float64    `json:"longitude,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// SectorName возвращает название сектора или пустую строку, если сектор не подгружен
func (i *Incident) SectorName() string {
	if i.Sector == nil {
		return ""
	}
	return i.Sector.Name
}

// HasCoordinates сообщает, можно ли показать инцидент на карте
func (i *Incident) HasCoordinates() bool {
	return i.Latitude != nil && i.Longitude != nil
}
