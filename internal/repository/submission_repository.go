package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.QuizSubmission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) Update(submission *model.QuizSubmission) error {
	return r.DB.Save(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.QuizSubmission, error) {
	var s model.QuizSubmission
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindInProgress returns the single non-completed submission for an
// enrollment/quiz pair, if any exists.
func (r *SubmissionRepository) FindInProgress(enrollmentID, quizID uint) (*model.QuizSubmission, error) {
	var s model.QuizSubmission
	err := r.DB.Where("enrollment_id = ? AND quiz_id = ? AND completed = ?", enrollmentID, quizID, false).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// MaxAttempt returns the highest attempt number recorded for the pair, 0 when
// none exist.
func (r *SubmissionRepository) MaxAttempt(enrollmentID, quizID uint) (int, error) {
	var max *int
	err := r.DB.Model(&model.QuizSubmission{}).
		Where("enrollment_id = ? AND quiz_id = ?", enrollmentID, quizID).
		Select("MAX(attempt)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// UpsertResponse writes the working answer for one question, replacing any
// previous answer for the same (submission, question) key in a single
// statement. Expressed as an on-conflict update rather than read-then-write
// so concurrent saves cannot interleave.
func (r *SubmissionRepository) UpsertResponse(response *model.QuizResponse) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "submission_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer_id", "updated_at"}),
	}).Create(response).Error
}

func (r *SubmissionRepository) GetResponses(submissionID uint) ([]model.QuizResponse, error) {
	var responses []model.QuizResponse
	err := r.DB.Where("submission_id = ?", submissionID).Find(&responses).Error
	return responses, err
}

func (r *SubmissionRepository) GetSubmittedAnswers(submissionID uint) ([]model.SubmittedQuestionAnswer, error) {
	var answers []model.SubmittedQuestionAnswer
	err := r.DB.Where("submission_id = ?", submissionID).Find(&answers).Error
	return answers, err
}

// LatestCompleted returns the most recent graded submission of a student for
// a quiz.
func (r *SubmissionRepository) LatestCompleted(quizID, studentID uint) (*model.QuizSubmission, error) {
	var s model.QuizSubmission
	err := r.DB.Where("quiz_id = ? AND student_id = ? AND completed = ?", quizID, studentID, true).
		Order("attempt DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) ListCompletedByQuiz(quizID uint) ([]model.QuizSubmission, error) {
	var submissions []model.QuizSubmission
	err := r.DB.Where("quiz_id = ? AND completed = ?", quizID, true).Find(&submissions).Error
	return submissions, err
}

// UpsertGradeOverrides replaces the teacher's verdict per (submission,
// question); re-grading the same question overwrites instead of stacking.
func (r *SubmissionRepository) UpsertGradeOverrides(overrides []model.QuestionGradeOverride) error {
	if len(overrides) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "submission_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_correct", "grader_id", "graded_at", "updated_at"}),
	}).Create(&overrides).Error
}

func (r *SubmissionRepository) GetGradeOverrides(submissionID uint) ([]model.QuestionGradeOverride, error) {
	var overrides []model.QuestionGradeOverride
	err := r.DB.Where("submission_id = ?", submissionID).Find(&overrides).Error
	return overrides, err
}
