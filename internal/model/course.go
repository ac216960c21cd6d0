package model

// swagger:model Course
type Course struct {
	BaseModel

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	TeacherID   uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
	// LessonsCount is a denormalized counter maintained on lesson create/delete;
	// the progress computation divides by it, so it must track lessons exactly.
	LessonsCount int      `gorm:"default:0" json:"lessonsCount"`
	IsPublished  bool     `gorm:"default:false" json:"isPublished"`
	Lessons      []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel

	CourseID   uint          `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title      string        `gorm:"size:255;not null" json:"title"`
	OrderIndex int           `gorm:"default:0" json:"orderIndex"`
	Videos     []LessonVideo `gorm:"foreignKey:LessonID" json:"videos,omitempty"`
	Quizzes    []Quiz        `gorm:"foreignKey:LessonID" json:"quizzes,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// swagger:model LessonVideo
type LessonVideo struct {
	BaseModel

	LessonID        uint   `gorm:"index;type:bigint unsigned" json:"lessonId"`
	Title           string `gorm:"size:255;not null" json:"title"`
	URL             string `gorm:"size:500;not null" json:"url"`
	DurationSeconds int    `gorm:"default:0" json:"durationSeconds"`
	OrderIndex      int    `gorm:"default:0" json:"orderIndex"`
}

func (LessonVideo) TableName() string {
	return "lesson_videos"
}
