package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// QuestionAnswerStat is one row of the per-question difficulty aggregation.
type QuestionAnswerStat struct {
	QuestionID uint  `json:"questionId"`
	Total      int64 `json:"total"`
	Correct    int64 `json:"correct"`
}

func (r *AnalyticsRepository) CompletedSubmissions(quizID uint) ([]model.QuizSubmission, error) {
	var submissions []model.QuizSubmission
	err := r.DB.Where("quiz_id = ? AND completed = ?", quizID, true).
		Order("id ASC").
		Find(&submissions).Error
	return submissions, err
}

// QuestionAnswerStats aggregates locked answers of completed submissions of a
// quiz, counting per question how many were given and how many hit a row
// marked correct. Questions nobody answered do not appear; the service fills
// those in with zeros.
func (r *AnalyticsRepository) QuestionAnswerStats(quizID uint) ([]QuestionAnswerStat, error) {
	var stats []QuestionAnswerStat
	err := r.DB.
		Table("submitted_question_answers AS sqa").
		Select("sqa.question_id AS question_id, COUNT(*) AS total, SUM(CASE WHEN qa.is_correct THEN 1 ELSE 0 END) AS correct").
		Joins("JOIN quiz_answers qa ON qa.id = sqa.answer_id").
		Joins("JOIN quiz_submissions qs ON qs.id = sqa.submission_id").
		Where("qs.quiz_id = ? AND qs.completed = ? AND sqa.deleted_at IS NULL", quizID, true).
		Group("sqa.question_id").
		Scan(&stats).Error
	return stats, err
}
