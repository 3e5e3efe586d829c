package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

const statusOK = "ok"

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

// @Summary      Database status
// @Description  Pings the backing store and reports connectivity.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /db-status [get]
func (h *Handler) dbStatus(c *gin.Context) {
	if err := h.services.System.DBStatus(c.Request.Context()); err != nil {
		if h.log != nil {
			h.log.Errorw("db_status_failed", "err", err)
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "connected",
		"database": viper.GetString("db.path"),
	})
}
