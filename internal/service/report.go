package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/outage_dashboard/internal/models"
)

// ErrValidation - ошибка проверки данных до обращения к репозиторию
var ErrValidation = errors.New("validation failed")

var formValidator = validator.New()

// ReportForm - данные формы сообщения об инциденте.
// Координаты приходят строками и должны разбираться как конечные десятичные числа.
type ReportForm struct {
	Title           string     `validate:"required,max=255"`
	Description     string     `validate:"required"`
	Location        string     `validate:"required,max=255"`
	Latitude        string     `validate:"required"`
	Longitude       string     `validate:"required"`
	ServiceType     string     `validate:"required,oneof=water electricity"`
	StartTime       *time.Time `validate:"required"`
	ExpectedEndTime *time.Time
	SectorID        *uuid.UUID
}

// ToIncident проверяет форму и строит новый инцидент со статусом reported
func (f ReportForm) ToIncident() (*models.Incident, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Location = strings.TrimSpace(f.Location)

	if err := formValidator.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	lat, err := parseCoordinate(f.Latitude, 90)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude %v", ErrValidation, err)
	}
	lon, err := parseCoordinate(f.Longitude, 180)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude %v", ErrValidation, err)
	}

	if f.ExpectedEndTime != nil && f.ExpectedEndTime.Before(*f.StartTime) {
		return nil, fmt.Errorf("%w: expected end time is before start time", ErrValidation)
	}

	description := f.Description
	return &models.Incident{
		Title:           f.Title,
		Description:     &description,
		Location:        f.Location,
		ServiceType:     models.ServiceType(f.ServiceType),
		Status:          models.StatusReported,
		StartTime:       *f.StartTime,
		ExpectedEndTime: f.ExpectedEndTime,
		SectorID:        f.SectorID,
		Latitude:        &lat,
		Longitude:       &lon,
	}, nil
}

func parseCoordinate(raw string, limit float64) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("must be a valid number")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("must be finite")
	}
	if math.Abs(value) > limit {
		return 0, fmt.Errorf("must be within ±%g", limit)
	}
	return value, nil
}
