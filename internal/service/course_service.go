package service

import (
	"errors"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CourseService covers the catalog side: courses, lessons, enrollments, and
// video completion, the second trigger of the progress cascade.
type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Progress       *ProgressService
	DB             *gorm.DB
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progress *ProgressService,
	db *gorm.DB,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Progress:       progress,
		DB:             db,
	}
}

type CourseCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPublished bool   `json:"isPublished"`
}

type LessonCreateRequest struct {
	Title      string `json:"title" binding:"required"`
	OrderIndex int    `json:"orderIndex"`
}

func (s *CourseService) CreateCourse(teacherID uint, req *CourseCreateRequest) (*model.Course, error) {
	course := &model.Course{
		TeacherID:   teacherID,
		Title:       req.Title,
		Description: req.Description,
		IsPublished: req.IsPublished,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	logger.Log.Info("course created", zap.Uint("courseId", course.ID), zap.Uint("teacherId", teacherID))
	return course, nil
}

func (s *CourseService) GetCourse(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithLessons(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListCourses(page, limit int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.ListPublished(page, limit)
}

func (s *CourseService) AddLesson(teacherID, courseID uint, req *LessonCreateRequest) (*model.Lesson, error) {
	if err := s.requireOwner(courseID, teacherID); err != nil {
		return nil, err
	}
	lesson := &model.Lesson{
		CourseID:   courseID,
		Title:      req.Title,
		OrderIndex: req.OrderIndex,
	}
	if err := s.CourseRepo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) DeleteLesson(teacherID, lessonID uint) error {
	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}
	if err := s.requireOwner(lesson.CourseID, teacherID); err != nil {
		return err
	}
	return s.CourseRepo.DeleteLesson(lesson)
}

func (s *CourseService) GetLesson(lessonID uint) (*model.Lesson, error) {
	lesson, err := s.CourseRepo.FindLessonWithContent(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) Enroll(studentID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	enrollment := &model.Enrollment{StudentID: studentID, CourseID: course.ID}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}

	logger.Log.Info("student enrolled", zap.Uint("studentId", studentID), zap.Uint("courseId", course.ID))
	return enrollment, nil
}

func (s *CourseService) MyEnrollments(studentID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByStudent(studentID)
}

// CompleteVideo records that the student watched a video and runs the lesson
// cascade in the same transaction. Watching twice is a no-op thanks to the
// on-conflict insert, and the cascade itself is idempotent.
func (s *CourseService) CompleteVideo(studentID, enrollmentID, videoID uint) error {
	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentNotFound
		}
		return err
	}
	if enrollment.StudentID != studentID {
		return util.ErrEnrollmentNotFound
	}

	video, err := s.CourseRepo.FindVideoByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrVideoNotFound
		}
		return err
	}

	lesson, err := s.CourseRepo.FindLessonByID(video.LessonID)
	if err != nil {
		return err
	}
	if lesson.CourseID != enrollment.CourseID {
		return util.ErrVideoNotFound
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		completion := model.StudentVideoCompletion{
			EnrollmentID: enrollment.ID,
			VideoID:      video.ID,
			CompletedAt:  &now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "video_id"}},
			DoNothing: true,
		}).Create(&completion).Error; err != nil {
			return err
		}
		return s.Progress.HandleLessonEvent(tx, enrollment.ID, lesson.ID, TriggerVideo)
	})
}

func (s *CourseService) requireOwner(courseID, teacherID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if course.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	return nil
}
