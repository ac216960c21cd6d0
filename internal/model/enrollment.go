package model

import "time"

// swagger:model Enrollment
type Enrollment struct {
	BaseModel

	StudentID uint `gorm:"uniqueIndex:idx_student_course;type:bigint unsigned" json:"studentId"`
	CourseID  uint `gorm:"uniqueIndex:idx_student_course;type:bigint unsigned" json:"courseId"`
	// Progress is the 0-100 completion percentage recomputed by the progress
	// cascade after every lesson-completing event.
	Progress int `gorm:"default:0" json:"progress"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// swagger:model StudentLessonCompletion
type StudentLessonCompletion struct {
	BaseModel

	EnrollmentID uint       `gorm:"uniqueIndex:idx_enrollment_lesson;type:bigint unsigned" json:"enrollmentId"`
	LessonID     uint       `gorm:"uniqueIndex:idx_enrollment_lesson;type:bigint unsigned" json:"lessonId"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func (StudentLessonCompletion) TableName() string {
	return "student_lesson_completions"
}

// swagger:model StudentVideoCompletion
type StudentVideoCompletion struct {
	BaseModel

	EnrollmentID uint       `gorm:"uniqueIndex:idx_enrollment_video;type:bigint unsigned" json:"enrollmentId"`
	VideoID      uint       `gorm:"uniqueIndex:idx_enrollment_video;type:bigint unsigned" json:"videoId"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func (StudentVideoCompletion) TableName() string {
	return "student_video_completions"
}
