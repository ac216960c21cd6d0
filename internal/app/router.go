package app

import (
	"learnhub_backend/docs"
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/middleware"
	"learnhub_backend/internal/model"
	"learnhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.Use(func(ctx *gin.Context) {
		ctx.Set("config", cfg)
		ctx.Next()
	})

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/courses", c.course.List)
		public.GET("/courses/:courseId", c.course.Get)
		public.GET("/lessons/:lessonId", c.course.GetLesson)
	}

	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(), middleware.ActivityMiddleware(repos.user))
	{
		authorized.GET("/profile", c.auth.Profile)
		authorized.GET("/enrollments", c.course.MyEnrollments)
		authorized.POST("/courses/:courseId/enroll", c.course.Enroll)
		authorized.POST("/videos/:videoId/complete", c.course.CompleteVideo)

		authorized.GET("/quizzes/:quizId", c.quiz.GetForStudent)
		authorized.POST("/quizzes/:quizId/attempts/start", c.attempt.Start)
		authorized.GET("/quizzes/:quizId/attempts/resume", c.attempt.Resume)
		authorized.PUT("/quizzes/:quizId/attempts/save", c.attempt.Save)
		authorized.POST("/quizzes/:quizId/attempts/complete", c.attempt.Complete)
		authorized.GET("/quizzes/:quizId/results", c.attempt.Results)
	}

	teacher := router.Group("/api/teacher")
	teacher.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/courses", c.course.Create)
		teacher.POST("/courses/:courseId/lessons", c.course.AddLesson)
		teacher.DELETE("/lessons/:lessonId", c.course.DeleteLesson)
		teacher.POST("/lessons/:lessonId/videos", c.course.UploadVideo)
		teacher.POST("/lessons/:lessonId/videos/chunk", c.course.UploadVideoChunk)
		teacher.GET("/uploads/:identifier/progress", c.course.UploadProgress)

		teacher.POST("/quizzes", c.quiz.Create)
		teacher.GET("/quizzes/:quizId", c.quiz.GetForTeacher)
		teacher.PUT("/quizzes/:quizId", c.quiz.Update)
		teacher.DELETE("/quizzes/:quizId", c.quiz.Delete)
		teacher.POST("/quizzes/:quizId/questions", c.quiz.AddQuestion)
		teacher.DELETE("/quizzes/:quizId/questions/:questionId", c.quiz.DeleteQuestion)

		teacher.GET("/quizzes/:quizId/submissions", c.attempt.SubmissionsForReview)
		teacher.POST("/submissions/:submissionId/grade", c.attempt.ManualGrade)
		teacher.GET("/quizzes/:quizId/analytics", c.analytics.QuizAnalytics)
	}
}
