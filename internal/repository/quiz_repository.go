package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var q model.Quiz
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// FindByIDWithQuestions loads the quiz with its full question/answer key in
// display order. Every attempt operation reads the quiz fresh through here so
// teacher edits (duration, attempt policy) take effect immediately.
func (r *QuizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var q model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.order_index ASC")
		}).
		Preload("Questions.Answers").
		First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.QuizQuestion, error) {
	var q model.QuizQuestion
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuizRepository) FindAnswerByID(id uint) (*model.QuizAnswer, error) {
	var a model.QuizAnswer
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes a quiz and all of its children. Children go first so a
// partial failure never leaves orphaned answer rows behind.
func (r *QuizRepository) Delete(quizID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return deleteQuizCascade(tx, quizID)
	})
}

func deleteQuizCascade(tx *gorm.DB, quizID uint) error {
	var questionIDs []uint
	if err := tx.Model(&model.QuizQuestion{}).Where("quiz_id = ?", quizID).
		Pluck("id", &questionIDs).Error; err != nil {
		return err
	}
	if len(questionIDs) > 0 {
		if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.QuizAnswer{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("quiz_id = ?", quizID).Delete(&model.QuizQuestion{}).Error; err != nil {
		return err
	}

	var submissionIDs []uint
	if err := tx.Model(&model.QuizSubmission{}).Where("quiz_id = ?", quizID).
		Pluck("id", &submissionIDs).Error; err != nil {
		return err
	}
	if len(submissionIDs) > 0 {
		if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&model.QuizResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&model.SubmittedQuestionAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&model.QuestionGradeOverride{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.QuizSubmission{}).Error; err != nil {
			return err
		}
	}

	return tx.Delete(&model.Quiz{}, quizID).Error
}

// DeleteQuestion removes one question and its answers (answers first).
func (r *QuizRepository) DeleteQuestion(questionID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&model.QuizAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.QuizQuestion{}, questionID).Error
	})
}
