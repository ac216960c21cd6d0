package service

import (
	"context"
	"testing"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCompleted inserts a graded submission with its locked answers directly,
// bypassing the state machine, so the aggregator can be fed exact shapes.
func seedCompleted(t *testing.T, f *fixture, enrollmentID, studentID uint, attempt int, score float64, tookSeconds int, answers map[uint]uint) {
	t.Helper()
	started := time.Now().Add(-time.Duration(tookSeconds) * time.Second)
	completed := time.Now()
	submission := model.QuizSubmission{
		EnrollmentID: enrollmentID,
		QuizID:       f.quiz.ID,
		StudentID:    studentID,
		Attempt:      attempt,
		StartedAt:    started,
		Completed:    true,
		Score:        &score,
		CompletedAt:  &completed,
	}
	require.NoError(t, f.db.Create(&submission).Error)
	for questionID, answerID := range answers {
		require.NoError(t, f.db.Create(&model.SubmittedQuestionAnswer{
			SubmissionID: submission.ID,
			QuestionID:   questionID,
			AnswerID:     answerID,
		}).Error)
	}
}

func newAnalytics(f *fixture) *AnalyticsService {
	return NewAnalyticsService(
		repository.NewAnalyticsRepository(f.db),
		repository.NewQuizRepository(f.db),
		nil,
	)
}

func enrollSecondStudent(t *testing.T, f *fixture) (model.User, model.Enrollment) {
	t.Helper()
	student := model.User{Name: "Sam", Email: "sam@example.com", Password: "x", Role: model.Student}
	require.NoError(t, f.db.Create(&student).Error)
	enrollment := model.Enrollment{StudentID: student.ID, CourseID: f.course.ID}
	require.NoError(t, f.db.Create(&enrollment).Error)
	return student, enrollment
}

func TestQuizAnalytics(t *testing.T) {
	t.Run("no submissions yields zeroes", func(t *testing.T) {
		f := newFixture(t, 30, true)

		analytics, err := newAnalytics(f).GetQuizAnalytics(context.Background(), f.quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, analytics.TotalSubmissions)
		assert.Equal(t, 0.0, analytics.AverageScore)
		assert.Equal(t, 0.0, analytics.CompletionRate)
		require.Len(t, analytics.QuestionDifficulty, 4)
		for _, qd := range analytics.QuestionDifficulty {
			assert.Equal(t, 0.0, qd.Difficulty)
		}
	})

	t.Run("completion rate is unique students over completed submissions", func(t *testing.T) {
		f := newFixture(t, 30, true)
		_, enrollment2 := enrollSecondStudent(t, f)

		seedCompleted(t, f, f.enrollment.ID, f.student.ID, 1, 0.5, 300, nil)
		seedCompleted(t, f, f.enrollment.ID, f.student.ID, 2, 1.0, 200, nil)
		seedCompleted(t, f, enrollment2.ID, enrollment2.StudentID, 1, 0.75, 400, nil)

		analytics, err := newAnalytics(f).GetQuizAnalytics(context.Background(), f.quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, analytics.TotalSubmissions)
		// 2 students / 3 submissions * 100, not students over enrollments.
		assert.InDelta(t, 66.667, analytics.CompletionRate, 0.01)
		assert.InDelta(t, 0.75, analytics.AverageScore, 1e-9)
		assert.Equal(t, map[uint]int{f.student.ID: 2, enrollment2.StudentID: 1}, analytics.AttemptsPerStudent)
	})

	t.Run("question difficulty over submitted answers, two decimals", func(t *testing.T) {
		f := newFixture(t, 30, true)
		_, enrollment2 := enrollSecondStudent(t, f)
		questions := f.questions(t)
		q0 := questions[0].ID

		// Question 0: one correct of three answers. Question 1: untouched.
		seedCompleted(t, f, f.enrollment.ID, f.student.ID, 1, 0.25, 100,
			map[uint]uint{q0: f.correctAnswerID(t, 0)})
		seedCompleted(t, f, f.enrollment.ID, f.student.ID, 2, 0.0, 100,
			map[uint]uint{q0: f.wrongAnswerID(t, 0)})
		seedCompleted(t, f, enrollment2.ID, enrollment2.StudentID, 1, 0.0, 100,
			map[uint]uint{q0: f.wrongAnswerID(t, 0)})

		analytics, err := newAnalytics(f).GetQuizAnalytics(context.Background(), f.quiz.ID)
		require.NoError(t, err)
		require.Len(t, analytics.QuestionDifficulty, 4)
		assert.Equal(t, q0, analytics.QuestionDifficulty[0].QuestionID)
		assert.InDelta(t, 33.33, analytics.QuestionDifficulty[0].Difficulty, 1e-9)
		assert.Equal(t, 0.0, analytics.QuestionDifficulty[1].Difficulty)
	})

	t.Run("time spent distribution with index median", func(t *testing.T) {
		f := newFixture(t, 30, true)

		for i, seconds := range []int{100, 400, 200, 300} {
			seedCompleted(t, f, f.enrollment.ID, f.student.ID, i+1, 0.5, seconds, nil)
		}

		analytics, err := newAnalytics(f).GetQuizAnalytics(context.Background(), f.quiz.ID)
		require.NoError(t, err)
		assert.InDelta(t, 250, analytics.AverageTimeSpentSeconds, 1.0)
		assert.InDelta(t, 100, analytics.TimeSpentDistribution.MinSeconds, 1.0)
		assert.InDelta(t, 400, analytics.TimeSpentDistribution.MaxSeconds, 1.0)
		// Sorted [100 200 300 400]: the element at index len/2, not the
		// interpolated 250.
		assert.InDelta(t, 300, analytics.TimeSpentDistribution.MedianSeconds, 1.0)
	})

	t.Run("unknown quiz", func(t *testing.T) {
		f := newFixture(t, 30, true)

		_, err := newAnalytics(f).GetQuizAnalytics(context.Background(), 9999)
		assert.ErrorIs(t, err, util.ErrQuizNotFound)
	})
}
