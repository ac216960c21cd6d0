package service

import (
	"testing"

	"learnhub_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func mcq(id uint, correctAnswerID, wrongAnswerID uint) model.QuizQuestion {
	return model.QuizQuestion{
		BaseModel:    model.BaseModel{ID: id},
		QuestionType: model.QuestionMCQ,
		Answers: []model.QuizAnswer{
			{BaseModel: model.BaseModel{ID: correctAnswerID}, IsCorrect: true},
			{BaseModel: model.BaseModel{ID: wrongAnswerID}, IsCorrect: false},
		},
	}
}

func essay(id uint) model.QuizQuestion {
	return model.QuizQuestion{
		BaseModel:    model.BaseModel{ID: id},
		QuestionType: model.QuestionEssay,
	}
}

func TestGradeAnswers(t *testing.T) {
	questions := []model.QuizQuestion{
		mcq(1, 11, 12),
		mcq(2, 21, 22),
		mcq(3, 31, 32),
		mcq(4, 41, 42),
	}

	t.Run("correctness decided by the chosen answer row", func(t *testing.T) {
		result := GradeAnswers(questions, map[uint]uint{1: 11, 2: 22, 3: 31, 4: 42})
		assert.Equal(t, 2, result.CorrectCount)
		assert.Equal(t, 4, result.TotalQuestions)
		assert.InDelta(t, 0.5, result.Score, 1e-9)
	})

	t.Run("unanswered questions stay in the denominator", func(t *testing.T) {
		result := GradeAnswers(questions, map[uint]uint{1: 11})
		assert.Equal(t, 1, result.CorrectCount)
		assert.Equal(t, 4, result.TotalQuestions)
		assert.InDelta(t, 0.25, result.Score, 1e-9)
	})

	t.Run("all correct", func(t *testing.T) {
		result := GradeAnswers(questions, map[uint]uint{1: 11, 2: 21, 3: 31, 4: 41})
		assert.InDelta(t, 1.0, result.Score, 1e-9)
	})

	t.Run("another question's correct answer never scores", func(t *testing.T) {
		result := GradeAnswers(questions, map[uint]uint{1: 11, 2: 11, 3: 11, 4: 11})
		assert.Equal(t, 1, result.CorrectCount)
		assert.InDelta(t, 0.25, result.Score, 1e-9)
	})

	t.Run("answers for unknown questions are ignored", func(t *testing.T) {
		result := GradeAnswers(questions, map[uint]uint{99: 11})
		assert.Equal(t, 0, result.CorrectCount)
		assert.InDelta(t, 0.0, result.Score, 1e-9)
	})

	t.Run("empty quiz scores zero without dividing", func(t *testing.T) {
		result := GradeAnswers(nil, map[uint]uint{1: 11})
		assert.Equal(t, 0, result.TotalQuestions)
		assert.Equal(t, 0.0, result.Score)
	})
}

func TestApplyOverrides(t *testing.T) {
	questions := []model.QuizQuestion{
		mcq(1, 11, 12),
		mcq(2, 21, 22),
		essay(3),
		essay(4),
	}
	auto := GradeAnswers(questions, map[uint]uint{1: 11, 2: 22})
	assert.InDelta(t, 0.25, auto.Score, 1e-9)

	t.Run("correct essay verdicts add to the auto score", func(t *testing.T) {
		merged := ApplyOverrides(auto, questions, []model.QuestionGradeOverride{
			{QuestionID: 3, IsCorrect: true},
			{QuestionID: 4, IsCorrect: false},
		})
		assert.Equal(t, 2, merged.CorrectCount)
		assert.InDelta(t, 0.5, merged.Score, 1e-9)
	})

	t.Run("overrides on auto-gradable questions are ignored", func(t *testing.T) {
		merged := ApplyOverrides(auto, questions, []model.QuestionGradeOverride{
			{QuestionID: 2, IsCorrect: true},
		})
		assert.Equal(t, auto.CorrectCount, merged.CorrectCount)
		assert.InDelta(t, auto.Score, merged.Score, 1e-9)
	})

	t.Run("merging is idempotent", func(t *testing.T) {
		overrides := []model.QuestionGradeOverride{{QuestionID: 3, IsCorrect: true}}
		once := ApplyOverrides(auto, questions, overrides)
		twice := ApplyOverrides(auto, questions, overrides)
		assert.Equal(t, once, twice)
	})
}
