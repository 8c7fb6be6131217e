package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Публичные маршруты: сообщения жителей и просмотр инцидентов
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.reportIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/ongoing/sectors", h.ongoingBySector)
		incidents.GET("/stream", h.streamIncidents)
		incidents.GET("/:id", h.getIncident)
	}

	calendar := api.Group("/calendar")
	{
		calendar.GET("", h.calendarDays)
		calendar.GET("/days/:day", h.calendarDay)
	}
	api.GET("/calendar.ics", h.calendarICS)
	api.GET("/map/markers", h.mapMarkers)
	api.GET("/sectors", h.listSectors)

	// Маршруты администратора, требуют API-ключ
	admin := api.Group("/admin", APIKeyAuthMiddleware(h.cfg, h.logger))
	{
		admin.PUT("/incidents/:id", h.updateIncident)
		admin.PATCH("/incidents/:id/status", h.updateStatus)
		admin.GET("/incidents/export", h.exportIncidents)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
