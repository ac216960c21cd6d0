package controller

import (
	"strconv"

	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService  *service.CourseService
	ContentService *service.ContentService
}

func NewCourseController(courseService *service.CourseService, contentService *service.ContentService) *CourseController {
	return &CourseController{CourseService: courseService, ContentService: contentService}
}

// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CourseCreateRequest true "course"
// @Success 201 {object} util.Response
// @Router /api/teacher/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.CourseCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(user.UserID, &req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Summary List published courses
// @Tags courses
// @Produce json
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := c.CourseService.ListCourses(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// @Summary Course with ordered lessons and content
// @Tags courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	courseID, err := strconv.Atoi(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	course, err := c.CourseService.GetCourse(uint(courseID))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary Add a lesson to a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param body body service.LessonCreateRequest true "lesson"
// @Success 201 {object} util.Response
// @Router /api/teacher/courses/{courseId}/lessons [post]
func (c *CourseController) AddLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, err := strconv.Atoi(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}
	var req service.LessonCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.AddLesson(user.UserID, uint(courseID), &req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary Delete a lesson and its content
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/{lessonId} [delete]
func (c *CourseController) DeleteLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	lessonID, err := strconv.Atoi(ctx.Param("lessonId"))
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	if err := c.CourseService.DeleteLesson(user.UserID, uint(lessonID)); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary Lesson with ordered videos and quizzes
// @Tags courses
// @Produce json
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{lessonId} [get]
func (c *CourseController) GetLesson(ctx *gin.Context) {
	lessonID, err := strconv.Atoi(ctx.Param("lessonId"))
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	lesson, err := c.CourseService.GetLesson(uint(lessonID))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary Enroll the current student in a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 201 {object} util.Response
// @Router /api/courses/{courseId}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, err := strconv.Atoi(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	enrollment, err := c.CourseService.Enroll(user.UserID, uint(courseID))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// @Summary List the current student's enrollments with progress
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/enrollments [get]
func (c *CourseController) MyEnrollments(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.CourseService.MyEnrollments(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

type completeVideoRequest struct {
	EnrollmentID uint `json:"enrollmentId" binding:"required"`
}

// @Summary Mark a lesson video as watched
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "Video ID"
// @Param body body completeVideoRequest true "enrollment"
// @Success 200 {object} util.Response
// @Router /api/videos/{videoId}/complete [post]
func (c *CourseController) CompleteVideo(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	videoID, err := strconv.Atoi(ctx.Param("videoId"))
	if err != nil {
		util.BadRequest(ctx, "invalid video id")
		return
	}
	var body completeVideoRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CourseService.CompleteVideo(user.UserID, body.EnrollmentID, uint(videoID)); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"completed": true})
}

// @Summary Upload a lesson video
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "Lesson ID"
// @Param file formData file true "video file"
// @Param title formData string true "video title"
// @Param orderIndex formData int false "position within the lesson"
// @Success 201 {object} util.Response
// @Router /api/teacher/lessons/{lessonId}/videos [post]
func (c *CourseController) UploadVideo(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	lessonID, err := strconv.Atoi(ctx.Param("lessonId"))
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing video file")
		return
	}
	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "missing title")
		return
	}
	orderIndex, _ := strconv.Atoi(ctx.DefaultPostForm("orderIndex", "0"))

	video, err := c.ContentService.UploadLessonVideo(ctx, file, uint(lessonID), title, orderIndex)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, video)
}

// @Summary Upload one chunk of a resumable video upload
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/{lessonId}/videos/chunk [post]
func (c *CourseController) UploadVideoChunk(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	lessonID, err := strconv.Atoi(ctx.Param("lessonId"))
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}
	file, err := ctx.FormFile("chunk")
	if err != nil {
		util.BadRequest(ctx, "missing chunk")
		return
	}
	chunkNumber, _ := strconv.Atoi(ctx.PostForm("chunkNumber"))
	totalChunks, _ := strconv.Atoi(ctx.PostForm("totalChunks"))
	identifier := ctx.PostForm("identifier")
	filename := ctx.PostForm("filename")
	title := ctx.PostForm("title")
	orderIndex, _ := strconv.Atoi(ctx.DefaultPostForm("orderIndex", "0"))
	if totalChunks <= 0 || identifier == "" || filename == "" {
		util.BadRequest(ctx, "missing chunk metadata")
		return
	}

	progress, video, err := c.ContentService.UploadVideoChunk(ctx, file, chunkNumber, totalChunks, identifier, filename, uint(lessonID), title, orderIndex)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"progress": progress, "video": video})
}

// @Summary Progress of a resumable upload
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param identifier path string true "upload identifier"
// @Success 200 {object} util.Response
// @Router /api/teacher/uploads/{identifier}/progress [get]
func (c *CourseController) UploadProgress(ctx *gin.Context) {
	identifier := ctx.Param("identifier")
	progress, err := c.ContentService.GetUploadProgress(ctx, identifier)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
