package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finack/acc-smartlink/internal/service"
)

const (
	statusOK = "ok"

	errGetReadings  = "failed to load readings"
	errGetLatest    = "failed to load latest reading"
	errNoReadingYet = "no reading collected yet"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List readings
// @Description  Readings inside a timestamp window (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). Date-only 'to' is treated as end-of-day inclusive.
// @Tags         readings
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2025-08-01)
// @Param        to    query   string  false  "End of range"    example(2025-08-31)
// @Success      200   {object}  map[string]interface{}  "count, readings"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/readings [get]
// @Security     BearerAuth
func (h *Handler) getReadings(c *gin.Context) {
	ctx := c.Request.Context()

	from, to, ok := h.parseTimeWindow(c)
	if !ok {
		return
	}

	readings, err := h.services.Monitoring.List(ctx, service.ReadingFilter{
		From: from,
		To:   to,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetReadings, "readings_list_failed", err, "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      Latest reading
// @Tags         readings
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/readings/latest [get]
// @Security     BearerAuth
func (h *Handler) getLatestReading(c *gin.Context) {
	ctx := c.Request.Context()

	reading, err := h.services.Monitoring.Latest(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetLatest, "readings_latest_failed", err)
		return
	}
	if reading == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoReadingYet})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reading": reading})
}
