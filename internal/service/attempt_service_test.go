package service

import (
	"errors"
	"testing"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStartAttempt(t *testing.T) {
	t.Run("first start opens attempt one with the full time budget", func(t *testing.T) {
		f := newFixture(t, 30, false)

		result, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Attempt)
		assert.Equal(t, 1800, result.TimeRemainingSeconds)
		assert.False(t, result.Resumed)
		assert.NotZero(t, result.SubmissionID)
	})

	t.Run("second start resumes the open attempt instead of creating", func(t *testing.T) {
		f := newFixture(t, 30, false)

		first, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		second, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)

		assert.Equal(t, first.SubmissionID, second.SubmissionID)
		assert.Equal(t, 1, second.Attempt)
		assert.True(t, second.Resumed)

		var count int64
		require.NoError(t, f.db.Model(&model.QuizSubmission{}).
			Where("enrollment_id = ? AND quiz_id = ? AND completed = ?", f.enrollment.ID, f.quiz.ID, false).
			Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("resumed attempt reports remaining time, not the full budget", func(t *testing.T) {
		f := newFixture(t, 30, false)

		first, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		f.backdateAttempt(t, first.SubmissionID, 10*time.Minute)

		second, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		assert.True(t, second.Resumed)
		assert.LessOrEqual(t, second.TimeRemainingSeconds, 1200)
		assert.Greater(t, second.TimeRemainingSeconds, 1190)
	})

	t.Run("repeat attempt rejected when the quiz disallows it", func(t *testing.T) {
		f := newFixture(t, 30, false)

		_, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

		_, err = f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		assert.ErrorIs(t, err, util.ErrAttemptNotAllowed)
	})

	t.Run("repeat attempt numbered after the highest existing one", func(t *testing.T) {
		f := newFixture(t, 30, true)

		_, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

		result, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Attempt)
	})

	t.Run("unknown quiz and foreign enrollment are both not found", func(t *testing.T) {
		f := newFixture(t, 30, false)

		_, err := f.attempts.StartAttempt(9999, f.student.ID, f.enrollment.ID)
		assert.ErrorIs(t, err, util.ErrQuizNotFound)

		_, err = f.attempts.StartAttempt(f.quiz.ID, f.teacher.ID, f.enrollment.ID)
		assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
	})
}

func TestAttemptUniqueAnchor(t *testing.T) {
	// The (enrollment, quiz, attempt) unique key is the coordination point for
	// concurrent starts: the losing insert must surface as a translated
	// duplicate-key error, which StartAttempt converts into a resume.
	f := newFixture(t, 30, false)

	first := model.QuizSubmission{
		EnrollmentID: f.enrollment.ID,
		QuizID:       f.quiz.ID,
		StudentID:    f.student.ID,
		Attempt:      1,
		StartedAt:    time.Now(),
	}
	require.NoError(t, f.db.Create(&first).Error)

	duplicate := model.QuizSubmission{
		EnrollmentID: f.enrollment.ID,
		QuizID:       f.quiz.ID,
		StudentID:    f.student.ID,
		Attempt:      1,
		StartedAt:    time.Now(),
	}
	err := f.db.Create(&duplicate).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestResumeAttempt(t *testing.T) {
	t.Run("returns saved answers and remaining time", func(t *testing.T) {
		f := newFixture(t, 30, false)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		questions := f.questions(t)

		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, questions[0].ID, f.correctAnswerID(t, 0))
		require.NoError(t, err)
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, questions[1].ID, f.wrongAnswerID(t, 1))
		require.NoError(t, err)

		resumed, err := f.attempts.ResumeAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		assert.Equal(t, started.SubmissionID, resumed.SubmissionID)
		assert.Equal(t, map[uint]uint{
			questions[0].ID: f.correctAnswerID(t, 0),
			questions[1].ID: f.wrongAnswerID(t, 1),
		}, resumed.SavedAnswers)
		assert.Greater(t, resumed.TimeRemainingSeconds, 0)
	})

	t.Run("never creates an attempt", func(t *testing.T) {
		f := newFixture(t, 30, false)

		_, err := f.attempts.ResumeAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		assert.ErrorIs(t, err, util.ErrNoActiveAttempt)

		var count int64
		require.NoError(t, f.db.Model(&model.QuizSubmission{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})
}

func TestSaveAnswer(t *testing.T) {
	t.Run("saving twice replaces the answer for the question", func(t *testing.T) {
		f := newFixture(t, 30, false)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		question := f.questions(t)[0]

		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, question.ID, f.wrongAnswerID(t, 0))
		require.NoError(t, err)
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, question.ID, f.correctAnswerID(t, 0))
		require.NoError(t, err)

		var responses []model.QuizResponse
		require.NoError(t, f.db.Where("submission_id = ?", started.SubmissionID).Find(&responses).Error)
		require.Len(t, responses, 1)
		assert.Equal(t, f.correctAnswerID(t, 0), responses[0].AnswerID)
	})

	t.Run("rejects after the timer ran out without writing", func(t *testing.T) {
		f := newFixture(t, 30, false)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		f.backdateAttempt(t, started.SubmissionID, 31*time.Minute)

		question := f.questions(t)[0]
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, question.ID, f.correctAnswerID(t, 0))
		assert.ErrorIs(t, err, util.ErrTimeExpired)

		var count int64
		require.NoError(t, f.db.Model(&model.QuizResponse{}).
			Where("submission_id = ?", started.SubmissionID).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("rejects mismatched question and answer references", func(t *testing.T) {
		f := newFixture(t, 30, false)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		questions := f.questions(t)

		// Answer belongs to a different question than the one named.
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, questions[0].ID, f.correctAnswerID(t, 1))
		assert.ErrorIs(t, err, util.ErrAnswerNotFound)

		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, 9999, f.correctAnswerID(t, 0))
		assert.ErrorIs(t, err, util.ErrQuestionNotFound)
	})

	t.Run("rejects saves to a completed submission", func(t *testing.T) {
		f := newFixture(t, 30, false)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

		question := f.questions(t)[0]
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, question.ID, f.correctAnswerID(t, 0))
		assert.ErrorIs(t, err, util.ErrSubmissionCompleted)
	})

	t.Run("someone else's submission reads as not found", func(t *testing.T) {
		f := newFixture(t, 30, false)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)

		question := f.questions(t)[0]
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.teacher.ID, started.SubmissionID, question.ID, f.correctAnswerID(t, 0))
		assert.ErrorIs(t, err, util.ErrSubmissionNotFound)
	})
}

func TestCompleteAttempt(t *testing.T) {
	t.Run("grades server-saved answers and locks them", func(t *testing.T) {
		f := newFixture(t, 30, false)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		questions := f.questions(t)

		// Two right, one wrong, one unanswered: 2/4.
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, questions[0].ID, f.correctAnswerID(t, 0))
		require.NoError(t, err)
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, questions[1].ID, f.correctAnswerID(t, 1))
		require.NoError(t, err)
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, questions[2].ID, f.wrongAnswerID(t, 2))
		require.NoError(t, err)

		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

		var submission model.QuizSubmission
		require.NoError(t, f.db.First(&submission, started.SubmissionID).Error)
		assert.True(t, submission.Completed)
		require.NotNil(t, submission.Score)
		assert.InDelta(t, 0.5, *submission.Score, 1e-9)
		require.NotNil(t, submission.CompletedAt)

		var locked int64
		require.NoError(t, f.db.Model(&model.SubmittedQuestionAnswer{}).
			Where("submission_id = ?", started.SubmissionID).Count(&locked).Error)
		assert.EqualValues(t, 3, locked)
	})

	t.Run("an expired timer never rejects a submit", func(t *testing.T) {
		f := newFixture(t, 30, false)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		questions := f.questions(t)
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, questions[0].ID, f.correctAnswerID(t, 0))
		require.NoError(t, err)

		f.backdateAttempt(t, started.SubmissionID, 2*time.Hour)

		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

		var submission model.QuizSubmission
		require.NoError(t, f.db.First(&submission, started.SubmissionID).Error)
		assert.True(t, submission.Completed)
		require.NotNil(t, submission.Score)
		assert.InDelta(t, 0.25, *submission.Score, 1e-9)
	})

	t.Run("client answers used only when no auto-save ever landed", func(t *testing.T) {
		f := newFixture(t, 30, false)

		_, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		questions := f.questions(t)

		answers := []AnswerSubmission{
			{QuestionID: questions[0].ID, AnswerID: f.correctAnswerID(t, 0)},
			{QuestionID: questions[1].ID, AnswerID: f.correctAnswerID(t, 1)},
			{QuestionID: questions[2].ID, AnswerID: f.correctAnswerID(t, 2)},
			{QuestionID: questions[3].ID, AnswerID: f.correctAnswerID(t, 3)},
		}
		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, answers))

		var submission model.QuizSubmission
		require.NoError(t, f.db.
			Where("enrollment_id = ? AND quiz_id = ?", f.enrollment.ID, f.quiz.ID).
			First(&submission).Error)
		require.NotNil(t, submission.Score)
		assert.InDelta(t, 1.0, *submission.Score, 1e-9)
	})

	t.Run("server responses win over the client list", func(t *testing.T) {
		f := newFixture(t, 30, false)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		questions := f.questions(t)
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, questions[0].ID, f.wrongAnswerID(t, 0))
		require.NoError(t, err)

		// Client claims all correct; the one saved (wrong) answer is what counts.
		answers := []AnswerSubmission{
			{QuestionID: questions[0].ID, AnswerID: f.correctAnswerID(t, 0)},
			{QuestionID: questions[1].ID, AnswerID: f.correctAnswerID(t, 1)},
		}
		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, answers))

		var submission model.QuizSubmission
		require.NoError(t, f.db.First(&submission, started.SubmissionID).Error)
		require.NotNil(t, submission.Score)
		assert.InDelta(t, 0.0, *submission.Score, 1e-9)
	})

	t.Run("client answer must belong to its question to score", func(t *testing.T) {
		f := newFixture(t, 30, false)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		questions := f.questions(t)

		// One known-correct answer id replayed under every question. Only the
		// pair where it genuinely belongs may grade or persist.
		forged := f.correctAnswerID(t, 0)
		answers := []AnswerSubmission{
			{QuestionID: questions[0].ID, AnswerID: forged},
			{QuestionID: questions[1].ID, AnswerID: forged},
			{QuestionID: questions[2].ID, AnswerID: forged},
			{QuestionID: questions[3].ID, AnswerID: forged},
		}
		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, answers))

		var submission model.QuizSubmission
		require.NoError(t, f.db.First(&submission, started.SubmissionID).Error)
		require.NotNil(t, submission.Score)
		assert.InDelta(t, 0.25, *submission.Score, 1e-9)

		var locked []model.SubmittedQuestionAnswer
		require.NoError(t, f.db.Where("submission_id = ?", started.SubmissionID).Find(&locked).Error)
		require.Len(t, locked, 1)
		assert.Equal(t, questions[0].ID, locked[0].QuestionID)
	})

	t.Run("a second submit of the same attempt reports no active attempt", func(t *testing.T) {
		f := newFixture(t, 30, false)

		_, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

		err = f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil)
		assert.ErrorIs(t, err, util.ErrNoActiveAttempt)
	})

	t.Run("submitting without an open attempt fails", func(t *testing.T) {
		f := newFixture(t, 30, false)

		err := f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil)
		assert.ErrorIs(t, err, util.ErrNoActiveAttempt)
	})
}

func TestGetResults(t *testing.T) {
	t.Run("latest attempt with per-question breakdown", func(t *testing.T) {
		f := newFixture(t, 30, true)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		questions := f.questions(t)
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, questions[0].ID, f.correctAnswerID(t, 0))
		require.NoError(t, err)
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, questions[1].ID, f.wrongAnswerID(t, 1))
		require.NoError(t, err)
		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

		results, err := f.attempts.GetResults(f.quiz.ID, f.student.ID)
		require.NoError(t, err)
		assert.Equal(t, "0.25", results.Score)
		require.Len(t, results.PerQuestion, 4)

		assert.Equal(t, "Question 1", results.PerQuestion[0].QuestionText)
		assert.Equal(t, "right", results.PerQuestion[0].CorrectAnswer)
		assert.Equal(t, "right", results.PerQuestion[0].SubmittedAnswer)
		assert.Equal(t, "wrong", results.PerQuestion[1].SubmittedAnswer)
		assert.Equal(t, "", results.PerQuestion[2].SubmittedAnswer)
	})

	t.Run("no completed attempt yet", func(t *testing.T) {
		f := newFixture(t, 30, false)

		_, err := f.attempts.GetResults(f.quiz.ID, f.student.ID)
		assert.ErrorIs(t, err, util.ErrSubmissionNotFound)
	})
}

func TestManualGrade(t *testing.T) {
	addEssay := func(t *testing.T, f *fixture) model.QuizQuestion {
		t.Helper()
		question := model.QuizQuestion{
			QuizID:       f.quiz.ID,
			QuestionText: "Explain append semantics",
			QuestionType: model.QuestionEssay,
			OrderIndex:   5,
		}
		require.NoError(t, f.db.Create(&question).Error)
		return question
	}

	t.Run("essay verdicts raise the score and re-grading is idempotent", func(t *testing.T) {
		f := newFixture(t, 30, false)
		addEssay(t, f)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		questions := f.questions(t)
		_, err = f.attempts.SaveAnswer(f.quiz.ID, f.student.ID, started.SubmissionID, questions[0].ID, f.correctAnswerID(t, 0))
		require.NoError(t, err)
		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

		var submission model.QuizSubmission
		require.NoError(t, f.db.First(&submission, started.SubmissionID).Error)
		require.NotNil(t, submission.Score)
		assert.InDelta(t, 0.2, *submission.Score, 1e-9)

		essayQuestion := f.questions(t)[4]
		marks := []QuestionMark{{QuestionID: essayQuestion.ID, IsCorrect: true}}
		require.NoError(t, f.attempts.ManualGrade(f.teacher.ID, started.SubmissionID, marks))

		require.NoError(t, f.db.First(&submission, started.SubmissionID).Error)
		assert.InDelta(t, 0.4, *submission.Score, 1e-9)

		// Same marks again: same score, one override row.
		require.NoError(t, f.attempts.ManualGrade(f.teacher.ID, started.SubmissionID, marks))
		require.NoError(t, f.db.First(&submission, started.SubmissionID).Error)
		assert.InDelta(t, 0.4, *submission.Score, 1e-9)

		var overrides int64
		require.NoError(t, f.db.Model(&model.QuestionGradeOverride{}).
			Where("submission_id = ?", started.SubmissionID).Count(&overrides).Error)
		assert.EqualValues(t, 1, overrides)
	})

	t.Run("reversing a verdict lowers the score again", func(t *testing.T) {
		f := newFixture(t, 30, false)
		essayQ := addEssay(t, f)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

		require.NoError(t, f.attempts.ManualGrade(f.teacher.ID, started.SubmissionID,
			[]QuestionMark{{QuestionID: essayQ.ID, IsCorrect: true}}))
		require.NoError(t, f.attempts.ManualGrade(f.teacher.ID, started.SubmissionID,
			[]QuestionMark{{QuestionID: essayQ.ID, IsCorrect: false}}))

		var submission model.QuizSubmission
		require.NoError(t, f.db.First(&submission, started.SubmissionID).Error)
		require.NotNil(t, submission.Score)
		assert.InDelta(t, 0.0, *submission.Score, 1e-9)
	})

	t.Run("grading an open submission is rejected", func(t *testing.T) {
		f := newFixture(t, 30, false)
		essayQ := addEssay(t, f)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)

		err = f.attempts.ManualGrade(f.teacher.ID, started.SubmissionID,
			[]QuestionMark{{QuestionID: essayQ.ID, IsCorrect: true}})
		assert.ErrorIs(t, err, util.ErrSubmissionNotCompleted)
	})
}

func TestSubmissionsForReview(t *testing.T) {
	addEssay := func(t *testing.T, f *fixture) model.QuizQuestion {
		t.Helper()
		question := model.QuizQuestion{
			QuizID:       f.quiz.ID,
			QuestionText: "Explain append semantics",
			QuestionType: model.QuestionEssay,
			OrderIndex:   5,
		}
		require.NoError(t, f.db.Create(&question).Error)
		return question
	}

	t.Run("quiz without essay questions has nothing to review", func(t *testing.T) {
		f := newFixture(t, 30, false)
		_, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)
		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

		items, err := f.attempts.SubmissionsForReview(f.quiz.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("pending essays listed until a verdict lands", func(t *testing.T) {
		f := newFixture(t, 30, false)
		essayQ := addEssay(t, f)

		started, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
		require.NoError(t, err)

		// Open attempts are not listed.
		items, err := f.attempts.SubmissionsForReview(f.quiz.ID)
		require.NoError(t, err)
		assert.Empty(t, items)

		require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))

		items, err = f.attempts.SubmissionsForReview(f.quiz.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, started.SubmissionID, items[0].SubmissionID)
		assert.Equal(t, f.student.ID, items[0].StudentID)
		assert.Equal(t, []uint{essayQ.ID}, items[0].PendingQuestions)

		require.NoError(t, f.attempts.ManualGrade(f.teacher.ID, started.SubmissionID,
			[]QuestionMark{{QuestionID: essayQ.ID, IsCorrect: true}}))

		items, err = f.attempts.SubmissionsForReview(f.quiz.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Empty(t, items[0].PendingQuestions)
		assert.Equal(t, "0.20", items[0].Score)
	})

	t.Run("unknown quiz is not found", func(t *testing.T) {
		f := newFixture(t, 30, false)
		_, err := f.attempts.SubmissionsForReview(f.quiz.ID + 999)
		assert.ErrorIs(t, err, util.ErrQuizNotFound)
	})
}
