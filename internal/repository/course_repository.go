package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var c model.Course
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) FindByIDWithLessons(id uint) (*model.Course, error) {
	var c model.Course
	err := r.DB.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.order_index ASC")
		}).
		Preload("Lessons.Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_videos.order_index ASC")
		}).
		Preload("Lessons.Quizzes").
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) ListPublished(page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{}).Where("is_published = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Offset((page - 1) * limit).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// CreateLesson inserts the lesson and bumps the course's denormalized lesson
// counter in the same transaction.
func (r *CourseRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lesson).Error; err != nil {
			return err
		}
		return tx.Model(&model.Course{}).Where("id = ?", lesson.CourseID).
			UpdateColumn("lessons_count", gorm.Expr("lessons_count + 1")).Error
	})
}

// DeleteLesson removes the lesson's children before the lesson itself, then
// decrements the course counter.
func (r *CourseRepository) DeleteLesson(lesson *model.Lesson) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var quizzes []model.Quiz
		if err := tx.Where("lesson_id = ?", lesson.ID).Find(&quizzes).Error; err != nil {
			return err
		}
		for _, quiz := range quizzes {
			if err := deleteQuizCascade(tx, quiz.ID); err != nil {
				return err
			}
		}
		if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&model.LessonVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Lesson{}, lesson.ID).Error; err != nil {
			return err
		}
		return tx.Model(&model.Course{}).Where("id = ? AND lessons_count > 0", lesson.CourseID).
			UpdateColumn("lessons_count", gorm.Expr("lessons_count - 1")).Error
	})
}

func (r *CourseRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var l model.Lesson
	if err := r.DB.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *CourseRepository) FindLessonWithContent(id uint) (*model.Lesson, error) {
	var l model.Lesson
	err := r.DB.
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_videos.order_index ASC")
		}).
		Preload("Quizzes").
		First(&l, id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *CourseRepository) CreateVideo(video *model.LessonVideo) error {
	return r.DB.Create(video).Error
}

func (r *CourseRepository) FindVideoByID(id uint) (*model.LessonVideo, error) {
	var v model.LessonVideo
	if err := r.DB.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *CourseRepository) VideosByLesson(lessonID uint) ([]model.LessonVideo, error) {
	var videos []model.LessonVideo
	err := r.DB.Where("lesson_id = ?", lessonID).Order("order_index ASC").Find(&videos).Error
	return videos, err
}
