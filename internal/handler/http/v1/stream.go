package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/internal/realtime"
)

const heartbeatInterval = 25 * time.Second

// @Summary Incident change stream
// @Description Server-sent events. A "refresh" event means incidents changed and must be refetched in full.
// @Tags Incidents
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stream [get]
func (h *Handler) streamIncidents(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.logger.WithField("method", "streamIncidents").WithField("client_ip", c.ClientIP())

	refresh := make(chan struct{}, 1)
	debouncer := realtime.NewDebouncer(h.cfg.RefreshDebounce, func() {
		select {
		case refresh <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	sub, err := h.changes.Subscribe(ctx, models.IncidentsTable, func(models.ChangeEvent) {
		debouncer.Trigger()
	})
	if err != nil {
		h.respondError(c, log, err, "Failed to subscribe to incident changes")
		return
	}
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.SSEvent("ready", models.IncidentsTable)
	c.Writer.Flush()
	log.Debug("Stream opened")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Stream closed")
			return
		case <-refresh:
			c.SSEvent("refresh", models.IncidentsTable)
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
		}
		c.Writer.Flush()
	}
}
