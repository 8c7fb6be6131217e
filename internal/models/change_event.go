package models

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType - вид изменения строки в отслеживаемой таблице
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// IncidentsTable - имя таблицы инцидентов в ленте изменений
const IncidentsTable = "incidents"

// ChangeEvent - уведомление об изменении. Подписчики не применяют его как дельту,
// а перечитывают данные целиком.
type ChangeEvent struct {
	Table string     `json:"table"`
	Type  ChangeType `json:"type"`
	ID    uuid.UUID  `json:"id"`
	At    time.Time  `json:"at"`
}
