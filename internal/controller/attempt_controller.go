package controller

import (
	"strconv"

	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

type startAttemptRequest struct {
	EnrollmentID uint `json:"enrollmentId" binding:"required"`
}

// @Summary Start or resume a quiz attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param body body startAttemptRequest true "enrollment"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId}/attempts/start [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	var body startAttemptRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AttemptService.StartAttempt(uint(quizID), user.UserID, body.EnrollmentID)
	if err != nil {
		monitoring.AttemptsStarted.WithLabelValues("rejected").Inc()
		util.RespondError(ctx, err)
		return
	}
	if result.Resumed {
		monitoring.AttemptsStarted.WithLabelValues("resumed").Inc()
	} else {
		monitoring.AttemptsStarted.WithLabelValues("created").Inc()
	}
	util.Success(ctx, result)
}

// @Summary Resume an in-progress attempt with saved answers
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param enrollmentId query int true "Enrollment ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId}/attempts/resume [get]
func (c *AttemptController) Resume(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	enrollmentID := util.MustParseUint(ctx.Query("enrollmentId"))
	if enrollmentID == 0 {
		util.BadRequest(ctx, "invalid enrollment id")
		return
	}

	result, err := c.AttemptService.ResumeAttempt(uint(quizID), user.UserID, enrollmentID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

type saveAnswerRequest struct {
	SubmissionID uint `json:"submissionId" binding:"required"`
	QuestionID   uint `json:"questionId" binding:"required"`
	AnswerID     uint `json:"answerId" binding:"required"`
}

// @Summary Auto-save the answer for one question
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param body body saveAnswerRequest true "answer"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId}/attempts/save [put]
func (c *AttemptController) Save(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	var body saveAnswerRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AttemptService.SaveAnswer(uint(quizID), user.UserID, body.SubmissionID, body.QuestionID, body.AnswerID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

type completeAttemptRequest struct {
	EnrollmentID uint                       `json:"enrollmentId" binding:"required"`
	Answers      []service.AnswerSubmission `json:"answers"`
}

// @Summary Submit the open attempt for grading
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param body body completeAttemptRequest true "enrollment and fallback answers"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId}/attempts/complete [post]
func (c *AttemptController) Complete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	var body completeAttemptRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AttemptService.CompleteAttempt(uint(quizID), user.UserID, body.EnrollmentID, body.Answers); err != nil {
		util.RespondError(ctx, err)
		return
	}
	monitoring.AttemptsCompleted.Inc()
	util.Success(ctx, gin.H{"completed": true})
}

// @Summary Latest graded results with per-question breakdown
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId}/results [get]
func (c *AttemptController) Results(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	results, err := c.AttemptService.GetResults(uint(quizID), user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// @Summary Completed submissions awaiting manual review
// @Tags grading
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{quizId}/submissions [get]
func (c *AttemptController) SubmissionsForReview(ctx *gin.Context) {
	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	items, err := c.AttemptService.SubmissionsForReview(uint(quizID))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

type manualGradeRequest struct {
	Marks []service.QuestionMark `json:"marks" binding:"required"`
}

// @Summary Record manual grades for essay questions of a submission
// @Tags grading
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submissionId path int true "Submission ID"
// @Param body body manualGradeRequest true "per-question verdicts"
// @Success 200 {object} util.Response
// @Router /api/teacher/submissions/{submissionId}/grade [post]
func (c *AttemptController) ManualGrade(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	submissionID, err := strconv.Atoi(ctx.Param("submissionId"))
	if err != nil {
		util.BadRequest(ctx, "invalid submission id")
		return
	}
	var body manualGradeRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AttemptService.ManualGrade(user.UserID, uint(submissionID), body.Marks); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"graded": true})
}
