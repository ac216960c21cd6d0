package model

import "time"

// QuizSubmission is one attempt at a quiz by an enrolled student. The unique
// index over (enrollment_id, quiz_id, attempt) is what resolves concurrent
// start requests: the losing insert fails with a duplicate-key error and the
// caller reloads the surviving row.
// swagger:model QuizSubmission
type QuizSubmission struct {
	BaseModel

	EnrollmentID uint       `gorm:"uniqueIndex:idx_enrollment_quiz_attempt;type:bigint unsigned" json:"enrollmentId"`
	QuizID       uint       `gorm:"uniqueIndex:idx_enrollment_quiz_attempt;index;type:bigint unsigned" json:"quizId"`
	StudentID    uint       `gorm:"index;type:bigint unsigned" json:"studentId"`
	Attempt      int        `gorm:"uniqueIndex:idx_enrollment_quiz_attempt;not null" json:"attempt"`
	StartedAt    time.Time  `json:"startedAt"`
	Completed    bool       `gorm:"default:false" json:"completed"`
	Score        *float64   `gorm:"type:decimal(6,4)" json:"score,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}

// QuizResponse is the auto-saved working answer for one question of an
// in-progress submission. Overwritten in place on every save (upsert on the
// (submission_id, question_id) key); kept as a draft trail after submit.
// swagger:model QuizResponse
type QuizResponse struct {
	BaseModel

	SubmissionID uint `gorm:"uniqueIndex:idx_submission_question;type:bigint unsigned" json:"submissionId"`
	QuestionID   uint `gorm:"uniqueIndex:idx_submission_question;type:bigint unsigned" json:"questionId"`
	AnswerID     uint `gorm:"type:bigint unsigned" json:"answerId"`
}

func (QuizResponse) TableName() string {
	return "quiz_responses"
}

// SubmittedQuestionAnswer is the locked final answer written exactly once at
// submit time. Never updated afterwards.
// swagger:model SubmittedQuestionAnswer
type SubmittedQuestionAnswer struct {
	BaseModel

	SubmissionID uint `gorm:"uniqueIndex:idx_question_answer_submission;type:bigint unsigned" json:"submissionId"`
	QuestionID   uint `gorm:"uniqueIndex:idx_question_answer_submission;type:bigint unsigned" json:"questionId"`
	AnswerID     uint `gorm:"uniqueIndex:idx_question_answer_submission;type:bigint unsigned" json:"answerId"`
}

func (SubmittedQuestionAnswer) TableName() string {
	return "submitted_question_answers"
}

// QuestionGradeOverride stores a teacher's per-question correctness verdict for
// question types the engine cannot auto-grade. Upserted, so re-grading replaces
// the previous verdict instead of stacking on it.
// swagger:model QuestionGradeOverride
type QuestionGradeOverride struct {
	BaseModel

	SubmissionID uint       `gorm:"uniqueIndex:idx_submission_question_override;type:bigint unsigned" json:"submissionId"`
	QuestionID   uint       `gorm:"uniqueIndex:idx_submission_question_override;type:bigint unsigned" json:"questionId"`
	IsCorrect    bool       `gorm:"default:false" json:"isCorrect"`
	GraderID     uint       `gorm:"type:bigint unsigned" json:"graderId"`
	GradedAt     *time.Time `json:"gradedAt,omitempty"`
}

func (QuestionGradeOverride) TableName() string {
	return "question_grade_overrides"
}
