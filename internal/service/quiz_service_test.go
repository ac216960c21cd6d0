package service

import (
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuiz(t *testing.T) {
	t.Run("nested questions and answers in one shot", func(t *testing.T) {
		f := newFixture(t, 30, false)

		quiz, err := f.quizzes.CreateQuiz(f.teacher.ID, &QuizCreateRequest{
			LessonID:        f.lesson.ID,
			Title:           "Maps quiz",
			DurationMinutes: 15,
			Questions: []QuestionRequest{
				{
					QuestionText: "What does len return for a nil map?",
					QuestionType: string(model.QuestionMCQ),
					OrderIndex:   1,
					Answers: []AnswerRequest{
						{AnswerText: "0", IsCorrect: true},
						{AnswerText: "panic", IsCorrect: false},
					},
				},
			},
		})
		require.NoError(t, err)
		assert.NotZero(t, quiz.ID)

		var count int64
		require.NoError(t, f.db.Model(&model.QuizAnswer{}).Count(&count).Error)
		assert.EqualValues(t, 10, count) // 8 seeded + 2 new
	})

	t.Run("duration must be positive", func(t *testing.T) {
		f := newFixture(t, 30, false)

		_, err := f.quizzes.CreateQuiz(f.teacher.ID, &QuizCreateRequest{
			LessonID:        f.lesson.ID,
			Title:           "bad",
			DurationMinutes: 0,
		})
		assert.ErrorIs(t, err, util.ErrInvalidDuration)
	})

	t.Run("only the course owner may author", func(t *testing.T) {
		f := newFixture(t, 30, false)

		_, err := f.quizzes.CreateQuiz(f.student.ID, &QuizCreateRequest{
			LessonID:        f.lesson.ID,
			Title:           "not mine",
			DurationMinutes: 10,
		})
		assert.ErrorIs(t, err, util.ErrPermissionDenied)
	})
}

func TestUpdateQuiz(t *testing.T) {
	f := newFixture(t, 30, false)

	shorter := 5
	repeats := true
	quiz, err := f.quizzes.UpdateQuiz(f.teacher.ID, f.quiz.ID, &QuizUpdateRequest{
		DurationMinutes:       &shorter,
		AllowMultipleAttempts: &repeats,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, quiz.DurationMinutes)
	assert.True(t, quiz.AllowMultipleAttempts)

	// A duration edit applies to the in-flight attempt on its next read.
	started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, started.TimeRemainingSeconds, 300)

	bad := -1
	_, err = f.quizzes.UpdateQuiz(f.teacher.ID, f.quiz.ID, &QuizUpdateRequest{DurationMinutes: &bad})
	assert.ErrorIs(t, err, util.ErrInvalidDuration)
}

func TestGetQuizForStudent(t *testing.T) {
	f := newFixture(t, 30, false)

	view, err := f.quizzes.GetQuizForStudent(f.quiz.ID)
	require.NoError(t, err)
	require.Len(t, view.Questions, 4)
	for _, q := range view.Questions {
		assert.Len(t, q.Answers, 2)
	}
	// The view type carries no correctness flags at all; spot-check the
	// underlying key stayed server-side.
	assert.Equal(t, "Question 1", view.Questions[0].QuestionText)
}

func TestDeleteQuizCascades(t *testing.T) {
	f := newFixture(t, 30, false)

	started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
	require.NoError(t, err)
	question := f.questions(t)[0]
	_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, question.ID, f.correctAnswerID(t, 0))
	require.NoError(t, err)
	require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

	require.NoError(t, f.quizzes.DeleteQuiz(f.teacher.ID, f.quiz.ID))

	for _, m := range []interface{}{
		&model.Quiz{}, &model.QuizQuestion{}, &model.QuizAnswer{},
		&model.QuizSubmission{}, &model.QuizResponse{}, &model.SubmittedQuestionAnswer{},
	} {
		var count int64
		require.NoError(t, f.db.Model(m).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	}
}
