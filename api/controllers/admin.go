package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/langpoll/langpoll/api/models"
	"github.com/langpoll/langpoll/logging"
	"github.com/langpoll/langpoll/tally"
)

type AdminController struct {
	service *tally.Service
}

func NewAdminController(service *tally.Service) *AdminController {
	return &AdminController{
		service: service,
	}
}

func (c *AdminController) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/logs", c.getLogs)
	engine.POST("/reset", c.resetHistory)
}

// getLogs godoc
// @Summary Vote history
// @Description Returns the chronological vote log
// @Tags admin
// @Produce json
// @Success 200 {object} models.HistoryResponse
// @Failure 500 {object} models.HistoryResponse "Storage backend unreachable"
// @Router /logs [get]
func (c *AdminController) getLogs(g *gin.Context) {
	entries, err := c.service.History(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to read history: %v", err)
		g.JSON(http.StatusInternalServerError, models.HistoryResponse{Error: "could not load vote history"})
		return
	}

	logging.Log.Infof("ADMIN: listed %d log entries", len(entries))
	g.JSON(http.StatusOK, models.TransformHistoryToResponse(entries))
}

// resetHistory godoc
// @Summary Clear the poll
// @Description Resets every count to zero and empties the vote log when the shared admin key matches
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.ResetRequest true "Reset request"
// @Success 200 {object} models.HistoryResponse
// @Failure 401 {object} models.HistoryResponse "Key mismatch, state untouched"
// @Failure 500 {object} models.HistoryResponse "Storage backend unreachable"
// @Router /reset [post]
func (c *AdminController) resetHistory(g *gin.Context) {
	var req models.ResetRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Warnf("ADMIN: unreadable reset payload: %v", err)
		req.Key = ""
	}

	entries, err := c.service.ResetHistory(g.Request.Context(), req.Key)
	if err != nil {
		if errors.Is(err, tally.ErrAuthFailed) {
			response := models.TransformHistoryToResponse(entries)
			response.Failed = true
			g.JSON(http.StatusUnauthorized, response)
			return
		}
		logging.Log.Errorf("ADMIN: failed to reset history: %v", err)
		g.JSON(http.StatusInternalServerError, models.HistoryResponse{Error: "could not reset vote history"})
		return
	}

	logging.Log.Info("ADMIN: vote history reset")
	g.JSON(http.StatusOK, models.TransformHistoryToResponse(entries))
}
