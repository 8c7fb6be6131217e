package models

// IncidentQuery - условия выборки, которые выполняются на стороне бд.
// Текстовый поиск выполняется фильтром в памяти.
type IncidentQuery struct {
	Statuses    []Status
	ServiceType ServiceType
}
