package outage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shenikar/outage_dashboard/internal/models"
)

const (
	// StatusAll отключает фильтр по статусу
	StatusAll models.Status = "all"
	// ServiceAll отключает фильтр по типу услуги
	ServiceAll models.ServiceType = "all"
)

// ErrInvalidCriteria возвращается ParseCriteria для неизвестных значений фильтров
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Criteria - условия отбора инцидентов. Пустые значения эквивалентны "all".
type Criteria struct {
	Text    string
	Status  models.Status
	Service models.ServiceType
}

// ParseCriteria собирает Criteria из сырых параметров запроса
func ParseCriteria(text, status, service string) (Criteria, error) {
	c := Criteria{
		Text:    strings.TrimSpace(text),
		Status:  models.Status(strings.TrimSpace(status)),
		Service: models.ServiceType(strings.TrimSpace(service)),
	}
	if c.Status == "" {
		c.Status = StatusAll
	}
	if c.Service == "" {
		c.Service = ServiceAll
	}
	if c.Status != StatusAll && !c.Status.Valid() {
		return Criteria{}, fmt.Errorf("%w: unknown status %q", ErrInvalidCriteria, status)
	}
	if c.Service != ServiceAll && !c.Service.Valid() {
		return Criteria{}, fmt.Errorf("%w: unknown service %q", ErrInvalidCriteria, service)
	}
	return c, nil
}

// StatusFilter возвращает статус для фильтрации или false, если выбран "all"
func (c Criteria) StatusFilter() (models.Status, bool) {
	if c.Status == "" || c.Status == StatusAll {
		return "", false
	}
	return c.Status, true
}

// ServiceFilter возвращает тип услуги для фильтрации или false, если выбран "all"
func (c Criteria) ServiceFilter() (models.ServiceType, bool) {
	if c.Service == "" || c.Service == ServiceAll {
		return "", false
	}
	return c.Service, true
}

// IsZero сообщает, что критерии пропускают любой инцидент
func (c Criteria) IsZero() bool {
	_, byStatus := c.StatusFilter()
	_, byService := c.ServiceFilter()
	return c.Text == "" && !byStatus && !byService
}

// Matches проверяет один инцидент. Все три условия объединяются через AND.
func (c Criteria) Matches(incident *models.Incident) bool {
	return c.matches(incident, strings.ToLower(c.Text))
}

func (c Criteria) matches(incident *models.Incident, needle string) bool {
	if incident == nil {
		return false
	}
	if status, ok := c.StatusFilter(); ok && incident.Status != status {
		return false
	}
	if service, ok := c.ServiceFilter(); ok && incident.ServiceType != service {
		return false
	}
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(incident.Title), needle) {
		return true
	}
	// у инцидента может не быть сектора
	return strings.Contains(strings.ToLower(incident.SectorName()), needle)
}

// Filter возвращает подмножество инцидентов, удовлетворяющих критериям,
// в исходном порядке. Входной слайс не изменяется.
func Filter(incidents []*models.Incident, c Criteria) []*models.Incident {
	needle := strings.ToLower(c.Text)
	result := make([]*models.Incident, 0, len(incidents))
	for _, incident := range incidents {
		if c.matches(incident, needle) {
			result = append(result, incident)
		}
	}
	return result
}
