package service

import (
	"math"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionTrigger names the lesson item whose completion fired the cascade.
type CompletionTrigger string

const (
	TriggerQuiz  CompletionTrigger = "quiz"
	TriggerVideo CompletionTrigger = "video"
)

// ProgressService marks lessons complete and recomputes course progress when
// a quiz or video finishes. Every method takes the caller's transaction so
// the cascade commits or rolls back together with the triggering write.
type ProgressService struct{}

func NewProgressService() *ProgressService {
	return &ProgressService{}
}

// HandleLessonEvent runs after a quiz submission or video completion has been
// written inside tx. A lesson is complete once every one of its videos is
// watched and every one of its quizzes has a completed submission; the
// triggering item is already recorded, so for a single-item lesson the check
// passes immediately. The completion insert is on-conflict-do-nothing, making
// the whole cascade safe to re-run.
func (s *ProgressService) HandleLessonEvent(tx *gorm.DB, enrollmentID, lessonID uint, trigger CompletionTrigger) error {
	var lesson model.Lesson
	if err := tx.Preload("Videos").Preload("Quizzes").First(&lesson, lessonID).Error; err != nil {
		return err
	}

	complete, err := s.lessonComplete(tx, enrollmentID, &lesson)
	if err != nil {
		return err
	}
	if !complete {
		logger.Log.Debug("lesson not yet complete after item completion",
			zap.Uint("enrollmentId", enrollmentID),
			zap.Uint("lessonId", lessonID),
			zap.String("trigger", string(trigger)))
		return nil
	}

	now := time.Now()
	completion := model.StudentLessonCompletion{
		EnrollmentID: enrollmentID,
		LessonID:     lessonID,
		CompletedAt:  &now,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&completion).Error; err != nil {
		return err
	}

	return s.recomputeProgress(tx, enrollmentID)
}

// lessonComplete checks that every video of the lesson is watched and every
// quiz has at least one completed submission for this enrollment.
func (s *ProgressService) lessonComplete(tx *gorm.DB, enrollmentID uint, lesson *model.Lesson) (bool, error) {
	for _, video := range lesson.Videos {
		var count int64
		err := tx.Model(&model.StudentVideoCompletion{}).
			Where("enrollment_id = ? AND video_id = ?", enrollmentID, video.ID).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		if count == 0 {
			return false, nil
		}
	}

	for _, quiz := range lesson.Quizzes {
		var count int64
		err := tx.Model(&model.QuizSubmission{}).
			Where("enrollment_id = ? AND quiz_id = ? AND completed = ?", enrollmentID, quiz.ID, true).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		if count == 0 {
			return false, nil
		}
	}

	return true, nil
}

// recomputeProgress derives the enrollment's percentage from completed lesson
// count over the course's lesson total, rounded to the nearest integer. A
// course with no lessons stays at zero rather than dividing by it.
func (s *ProgressService) recomputeProgress(tx *gorm.DB, enrollmentID uint) error {
	var enrollment model.Enrollment
	if err := tx.First(&enrollment, enrollmentID).Error; err != nil {
		return err
	}

	var course model.Course
	if err := tx.First(&course, enrollment.CourseID).Error; err != nil {
		return err
	}

	var completed int64
	err := tx.Model(&model.StudentLessonCompletion{}).
		Where("enrollment_id = ?", enrollmentID).
		Count(&completed).Error
	if err != nil {
		return err
	}

	progress := 0
	if course.LessonsCount > 0 {
		progress = int(math.Round(100 * float64(completed) / float64(course.LessonsCount)))
	}

	logger.Log.Info("enrollment progress updated",
		zap.Uint("enrollmentId", enrollmentID),
		zap.Int64("completedLessons", completed),
		zap.Int("progress", progress))

	return tx.Model(&model.Enrollment{}).
		Where("id = ?", enrollmentID).
		Update("progress", progress).Error
}
