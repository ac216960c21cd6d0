package model

type QuestionType string

const (
	QuestionMCQ       QuestionType = "mcq"
	QuestionTrueFalse QuestionType = "true_false"
	// QuestionEssay is accepted when authoring but never auto-graded; essay
	// answers are scored through teacher grade overrides only.
	QuestionEssay QuestionType = "essay"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel

	LessonID              uint           `gorm:"index;type:bigint unsigned" json:"lessonId"`
	Title                 string         `gorm:"size:255;not null" json:"title"`
	DurationMinutes       int            `gorm:"not null" json:"durationMinutes"`
	AllowMultipleAttempts bool           `gorm:"default:false" json:"allowMultipleAttempts"`
	Questions             []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel

	QuizID       uint         `gorm:"index;type:bigint unsigned" json:"quizId"`
	QuestionText string       `gorm:"type:text;not null" json:"questionText"`
	QuestionType QuestionType `gorm:"size:20;not null" json:"questionType"`
	OrderIndex   int          `gorm:"default:0" json:"orderIndex"`
	Answers      []QuizAnswer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// swagger:model QuizAnswer
type QuizAnswer struct {
	BaseModel

	QuestionID uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	AnswerText string `gorm:"type:text;not null" json:"answerText"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
