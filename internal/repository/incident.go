package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/internal/service"
)

// DB - подмножество pgxpool.Pool, которое использует репозиторий
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const incidentColumns = `
			i.id,
			i.title,
			i.description,
			i.location,
			i.service_type,
			i.status,
			i.start_time,
			i.expected_end_time,
			i.sector_id,
			s.name,
			i.latitude,
			i.longitude,
			i.created_at,
			i.updated_at`

type IncidentRepository struct {
	db          DB
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewIncidentRepository(db DB, redisClient *redis.Client, cacheTTL time.Duration) service.IncidentRepository {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (title, description, location, service_type, status, start_time, expected_end_time, sector_id, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.Description,
		incident.Location,
		incident.ServiceType,
		incident.Status,
		incident.StartTime,
		incident.ExpectedEndTime,
		incident.SectorID,
		incident.Latitude,
		incident.Longitude,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `
		SELECT` + incidentColumns + `
		FROM incidents i
		LEFT JOIN sectors s ON s.id = i.sector_id
		WHERE i.id = $1;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			title = $1,
			description = $2,
			location = $3,
			service_type = $4,
			status = $5,
			start_time = $6,
			expected_end_time = $7,
			sector_id = $8,
			latitude = $9,
			longitude = $10,
			updated_at = NOW()
		WHERE id = $11;
		`
	cmdTag, err := r.db.Exec(ctx, query,
		incident.Title,
		incident.Description,
		incident.Location,
		incident.ServiceType,
		incident.Status,
		incident.StartTime,
		incident.ExpectedEndTime,
		incident.SectorID,
		incident.Latitude,
		incident.Longitude,
		incident.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}

	// RowsAffected() == 0 означает, что инцидента с таким id не существует
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s: %w", incident.ID, models.ErrIncidentNotFound)
	}
	return nil
}

// UpdateStatus меняет только статус инцидента
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	query := `
		UPDATE incidents SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update incident status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s: %w", id, models.ErrIncidentNotFound)
	}
	return nil
}

// List возвращает инциденты по фильтру, новые первыми
func (r *IncidentRepository) List(ctx context.Context, q models.IncidentQuery) ([]*models.Incident, error) {
	query, args := buildListQuery(q)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

func buildListQuery(q models.IncidentQuery) (string, []any) {
	var (
		where []string
		args  []any
	)
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("i.status = ANY($%d)", len(args)))
	}
	if q.ServiceType != "" {
		args = append(args, string(q.ServiceType))
		where = append(where, fmt.Sprintf("i.service_type = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(`
		SELECT` + incidentColumns + `
		FROM incidents i
		LEFT JOIN sectors s ON s.id = i.sector_id`)
	if len(where) > 0 {
		b.WriteString("\n\t\tWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString("\n\t\tORDER BY i.start_time DESC;")
	return b.String(), args
}

// ListSectors возвращает справочник секторов
func (r *IncidentRepository) ListSectors(ctx context.Context) ([]models.Sector, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM sectors ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}
	defer rows.Close()

	sectors := make([]models.Sector, 0)
	for rows.Next() {
		var sector models.Sector
		if err := rows.Scan(&sector.ID, &sector.Name); err != nil {
			return nil, fmt.Errorf("failed to scan sector row: %w", err)
		}
		sectors = append(sectors, sector)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error sector iteration: %w", err)
	}
	return sectors, nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var sectorName *string
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.Location,
		&incident.ServiceType,
		&incident.Status,
		&incident.StartTime,
		&incident.ExpectedEndTime,
		&incident.SectorID,
		&sectorName,
		&incident.Latitude,
		&incident.Longitude,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if incident.SectorID != nil && sectorName != nil {
		incident.Sector = &models.Sector{ID: *incident.SectorID, Name: *sectorName}
	}
	return incident, nil
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, cacheKey(incident.ID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
