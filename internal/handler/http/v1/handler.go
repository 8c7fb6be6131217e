package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/outage_dashboard/internal/config"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/internal/outage"
	"github.com/shenikar/outage_dashboard/internal/realtime"
	"github.com/shenikar/outage_dashboard/internal/service"
	"github.com/sirupsen/logrus"
)

// ChangeFeed - источник уведомлений для SSE-потока
type ChangeFeed interface {
	Subscribe(ctx context.Context, table string, onChange func(models.ChangeEvent)) (*realtime.Subscription, error)
}

type Handler struct {
	incidentService service.IncidentService
	calendarService service.CalendarService
	changes         ChangeFeed
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, calendarService service.CalendarService, changes ChangeFeed, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		calendarService: calendarService,
		changes:         changes,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// respondError переводит ошибку сервиса в HTTP-ответ
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, outage.ErrInvalidCriteria):
		log.WithError(err).Warn("Request rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case service.IsNotFound(err):
		log.WithError(err).Warn("Incident not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
	default:
		log.WithError(err).Error(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) location() *time.Location {
	if h.cfg != nil && h.cfg.CalendarLocation != nil {
		return h.cfg.CalendarLocation
	}
	return time.Local
}

// parseServiceType разбирает параметр service: пусто или "all" означает все услуги
func parseServiceType(raw string) (models.ServiceType, error) {
	criteria, err := outage.ParseCriteria("", "", raw)
	if err != nil {
		return "", err
	}
	serviceType, _ := criteria.ServiceFilter()
	return serviceType, nil
}

// @Summary Report an incident
// @Description Citizen report of a water or electricity outage. The incident is created with status "reported".
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body ReportIncidentRequest true "Incident report"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) reportIncident(c *gin.Context) {
	var input ReportIncidentRequest
	log := h.logger.WithField("method", "reportIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.incidentService.ReportIncident(c.Request.Context(), ReportRequestToForm(input))
	if err != nil {
		h.respondError(c, log, err, "Failed to report incident in service")
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(incident))
}

// @Summary Search incidents
// @Description Incidents ordered by start time, newest first. Text matches title or sector name, case-insensitive.
// @Tags Incidents
// @Produce json
// @Param q query string false "Search text"
// @Param status query string false "reported, scheduled, ongoing, resolved or all"
// @Param service query string false "water, electricity or all"
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	criteria, err := outage.ParseCriteria(c.Query("q"), c.Query("status"), c.Query("service"))
	if err != nil {
		h.respondError(c, log, err, "Invalid criteria")
		return
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), criteria)
	if err != nil {
		h.respondError(c, log, err, "Failed to list incidents from service")
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID
// @Tags Incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get incident from service")
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Ongoing incidents by sector
// @Description Ongoing incidents grouped by sector, incidents without a sector go to "Unknown Sector"
// @Tags Incidents
// @Produce json
// @Success 200 {array} SectorGroupResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/ongoing/sectors [get]
func (h *Handler) ongoingBySector(c *gin.Context) {
	log := h.logger.WithField("method", "ongoingBySector")

	groups, err := h.incidentService.OngoingBySector(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err, "Failed to group ongoing incidents")
		return
	}
	c.JSON(http.StatusOK, sectorGroupsToResponse(groups))
}

// @Summary List sectors
// @Tags Sectors
// @Produce json
// @Success 200 {array} SectorResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sectors [get]
func (h *Handler) listSectors(c *gin.Context) {
	log := h.logger.WithField("method", "listSectors")

	sectors, err := h.incidentService.ListSectors(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err, "Failed to list sectors")
		return
	}
	c.JSON(http.StatusOK, sectorsToResponse(sectors))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
