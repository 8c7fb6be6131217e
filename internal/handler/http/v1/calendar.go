package v1

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/outage_dashboard/internal/export"
	"github.com/shenikar/outage_dashboard/internal/outage"
	"github.com/shenikar/outage_dashboard/internal/service"
)

// @Summary Calendar days with outages
// @Description Days touched by at least one scheduled or ongoing incident, in the calendar timezone
// @Tags Calendar
// @Produce json
// @Param service query string false "water, electricity or all"
// @Param month query string false "Restrict to a month, YYYY-MM"
// @Success 200 {object} CalendarResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /calendar [get]
func (h *Handler) calendarDays(c *gin.Context) {
	log := h.logger.WithField("method", "calendarDays")

	serviceType, err := parseServiceType(c.Query("service"))
	if err != nil {
		h.respondError(c, log, err, "Invalid service")
		return
	}

	var month *service.Month
	if raw := c.Query("month"); raw != "" {
		m, err := service.ParseMonth(raw)
		if err != nil {
			h.respondError(c, log, err, "Invalid month")
			return
		}
		month = &m
	}

	days, err := h.calendarService.CalendarDays(c.Request.Context(), serviceType, month)
	if err != nil {
		h.respondError(c, log, err, "Failed to build calendar")
		return
	}

	resp := CalendarResponse{
		Timezone: h.calendarService.Indexer().Location().String(),
		Days:     daysToStrings(days),
	}
	if month != nil {
		resp.Month = fmt.Sprintf("%04d-%02d", month.Year, int(month.Month))
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Incidents on a day
// @Description Scheduled or ongoing incidents whose date range covers the day
// @Tags Calendar
// @Produce json
// @Param day path string true "Day, YYYY-MM-DD"
// @Param service query string false "water, electricity or all"
// @Success 200 {object} DayResponse
// @Failure 400 {object} map[string]string "Invalid day or filter"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /calendar/days/{day} [get]
func (h *Handler) calendarDay(c *gin.Context) {
	log := h.logger.WithField("method", "calendarDay")

	day, err := outage.ParseDay(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day, expected YYYY-MM-DD"})
		return
	}
	serviceType, err := parseServiceType(c.Query("service"))
	if err != nil {
		h.respondError(c, log, err, "Invalid service")
		return
	}

	incidents, err := h.calendarService.IncidentsOnDay(c.Request.Context(), serviceType, day)
	if err != nil {
		h.respondError(c, log, err, "Failed to list incidents on day")
		return
	}
	c.JSON(http.StatusOK, DayResponse{Day: day.String(), Incidents: ModelsToIncidentResponses(incidents)})
}

// @Summary Calendar subscription
// @Description iCalendar feed with one all-day event per scheduled or ongoing incident
// @Tags Calendar
// @Produce text/calendar
// @Param service query string false "water, electricity or all"
// @Success 200 {string} string "iCalendar feed"
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /calendar.ics [get]
func (h *Handler) calendarICS(c *gin.Context) {
	log := h.logger.WithField("method", "calendarICS")

	serviceType, err := parseServiceType(c.Query("service"))
	if err != nil {
		h.respondError(c, log, err, "Invalid service")
		return
	}

	incidents, err := h.calendarService.ActiveIncidents(c.Request.Context(), serviceType)
	if err != nil {
		h.respondError(c, log, err, "Failed to load active incidents")
		return
	}

	name := "Coupures"
	if serviceType != "" {
		name = "Coupures - " + serviceType.Label()
	}
	var buf bytes.Buffer
	err = export.WriteICS(&buf, h.calendarService.Indexer(), incidents, export.ICSOptions{
		Name:   name,
		Domain: h.cfg.ICSDomain,
	})
	if err != nil {
		h.respondError(c, log, err, "Failed to render calendar feed")
		return
	}
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

// @Summary Map markers
// @Description Scheduled or ongoing incidents that have coordinates, with the default map view
// @Tags Map
// @Produce json
// @Param service query string false "water, electricity or all"
// @Success 200 {object} MapResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /map/markers [get]
func (h *Handler) mapMarkers(c *gin.Context) {
	log := h.logger.WithField("method", "mapMarkers")

	serviceType, err := parseServiceType(c.Query("service"))
	if err != nil {
		h.respondError(c, log, err, "Invalid service")
		return
	}

	markers, err := h.calendarService.MapMarkers(c.Request.Context(), serviceType)
	if err != nil {
		h.respondError(c, log, err, "Failed to build map markers")
		return
	}
	c.JSON(http.StatusOK, MapResponse{
		Center:  MapCenter{Latitude: h.cfg.MapCenterLat, Longitude: h.cfg.MapCenterLon},
		Zoom:    h.cfg.MapZoom,
		Markers: markers,
	})
}
