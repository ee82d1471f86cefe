package handlers

import (
	"net/http"

	"runway-agent/internal/analysis"
	"runway-agent/internal/api/models"
	"runway-agent/internal/model"

	"github.com/gin-gonic/gin"
)

// CheckFeasibility handles POST /api/v1/feasibility
func CheckFeasibility(c *gin.Context) {
	var req models.FeasibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	buffer := analysis.DefaultBufferMonths
	if req.BufferMonths != nil {
		buffer = *req.BufferMonths
	}
	if err := analysis.ValidateFeasibilityArgs(req.RunwayMonths, req.ProjectDuration, buffer); err != nil {
		respondErr(c, err, "FEASIBILITY_ERROR")
		return
	}
	c.JSON(http.StatusOK, analysis.CheckFeasibility(req.RunwayMonths, req.ProjectDuration, buffer))
}

// ScoreCompetitiveness handles POST /api/v1/competitiveness
func ScoreCompetitiveness(c *gin.Context) {
	var req model.CompetitiveInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	score, err := analysis.ScoreCompetitiveness(req)
	if err != nil {
		respondErr(c, err, "COMPETITIVENESS_ERROR")
		return
	}
	c.JSON(http.StatusOK, score)
}
