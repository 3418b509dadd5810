package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/langpoll/langpoll/api/models"
	"github.com/langpoll/langpoll/logging"
	"github.com/langpoll/langpoll/tally"
)

type PollController struct {
	service *tally.Service
}

func NewPollController(service *tally.Service) *PollController {
	return &PollController{
		service: service,
	}
}

func (c *PollController) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/", c.getPoll)
	engine.POST("/", c.castVote)
}

// getPoll godoc
// @Summary Current poll standings
// @Description Returns option names and their pick counts as parallel arrays
// @Tags poll
// @Produce json
// @Success 200 {object} models.PollResponse
// @Failure 500 {object} models.PollResponse "Storage backend unreachable"
// @Router / [get]
func (c *PollController) getPoll(g *gin.Context) {
	options, err := c.service.ListOptions(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("POLL: failed to load options: %v", err)
		g.JSON(http.StatusInternalServerError, models.PollResponse{Error: "could not load poll options"})
		return
	}

	response := models.TransformOptionsToPollResponse(options)
	// a reachable but unseeded store means the poll still needs setting up
	response.Setup = len(options) == 0
	g.JSON(http.StatusOK, response)
}

// castVote godoc
// @Summary Cast a vote
// @Description Records a vote for the named language and returns the refreshed tally. An empty or missing language records nothing.
// @Tags poll
// @Accept json
// @Produce json
// @Param vote body models.VoteRequest true "Vote submission"
// @Success 200 {object} models.PollResponse
// @Failure 500 {object} models.PollResponse "Storage backend unreachable"
// @Router / [post]
func (c *PollController) castVote(g *gin.Context) {
	var req models.VoteRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		// a malformed body counts as "no vote", the results still come back
		logging.Log.Warnf("POLL: unreadable vote payload: %v", err)
		req.Language = ""
	}

	options, err := c.service.RecordVote(g.Request.Context(), req.Language)
	if err != nil {
		logging.Log.Errorf("POLL: failed to record vote: %v", err)
		g.JSON(http.StatusInternalServerError, models.PollResponse{Error: "could not record vote"})
		return
	}

	response := models.TransformOptionsToPollResponse(options)
	response.Results = true
	g.JSON(http.StatusOK, response)
}
