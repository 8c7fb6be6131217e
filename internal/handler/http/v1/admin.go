package v1

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/outage_dashboard/internal/export"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/internal/outage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// @Summary Update an incident
// @Description Full update of an incident by an administrator. Any status is accepted. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param incident body UpdateIncidentRequest true "Incident update request"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/incidents/{id} [put]
func (h *Handler) updateIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "updateIncident").WithField("id", id)

	var input UpdateIncidentRequest
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

	model, err := UpdateRequestToIncident(input)
	if err != nil {
		h.respondError(c, log, err, "Invalid update")
		return
	}
	model.ID = id

	if err := h.incidentService.UpdateIncident(c.Request.Context(), model); err != nil {
		h.respondError(c, log, err, "Failed to update incident in service")
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Change incident status
// @Description Status-only update by an administrator. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param status body UpdateStatusRequest true "New status"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid incident ID or status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/incidents/{id}/status [patch]
func (h *Handler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "updateStatus").WithField("id", id)

	var input UpdateStatusRequest
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

	if err := h.incidentService.UpdateStatus(c.Request.Context(), id, models.Status(input.Status)); err != nil {
		h.respondError(c, log, err, "Failed to update incident status in service")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Export incidents
// @Description Incidents matching the list filters as CSV or XLSX. Requires API key.
// @Tags Admin
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Param format query string false "csv (default) or xlsx"
// @Param q query string false "Search text"
// @Param status query string false "reported, scheduled, ongoing, resolved or all"
// @Param service query string false "water, electricity or all"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid format or filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/incidents/export [get]
func (h *Handler) exportIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "exportIncidents")

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	criteria, err := outage.ParseCriteria(c.Query("q"), c.Query("status"), c.Query("service"))
	if err != nil {
		h.respondError(c, log, err, "Invalid criteria")
		return
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), criteria)
	if err != nil {
		h.respondError(c, log, err, "Failed to list incidents for export")
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "xlsx":
		err = export.WriteXLSX(&buf, incidents, h.location())
		contentType = xlsxContentType
	default:
		err = export.WriteCSV(&buf, incidents, h.location())
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		h.respondError(c, log, err, "Failed to render export")
		return
	}

	log.WithField("count", len(incidents)).WithField("format", format).Info("Incidents exported")
	c.Header("Content-Disposition", "attachment; filename=incidents."+format)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
