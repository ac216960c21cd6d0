package controller

import (
	"strconv"

	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary Aggregated reporting over a quiz's completed submissions
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{quizId}/analytics [get]
func (c *AnalyticsController) QuizAnalytics(ctx *gin.Context) {
	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	analytics, err := c.AnalyticsService.GetQuizAnalytics(ctx, uint(quizID))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}
