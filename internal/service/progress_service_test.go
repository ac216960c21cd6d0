package service

import (
	"testing"

	"learnhub_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addVideo(t *testing.T, f *fixture, lessonID uint) model.LessonVideo {
	t.Helper()
	video := model.LessonVideo{LessonID: lessonID, Title: "intro", URL: "/uploads/intro.mp4", OrderIndex: 1}
	require.NoError(t, f.db.Create(&video).Error)
	return video
}

func lessonCompletions(t *testing.T, f *fixture) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.StudentLessonCompletion{}).
		Where("enrollment_id = ?", f.enrollment.ID).Count(&count).Error)
	return count
}

func enrollmentProgress(t *testing.T, f *fixture) int {
	t.Helper()
	var enrollment model.Enrollment
	require.NoError(t, f.db.First(&enrollment, f.enrollment.ID).Error)
	return enrollment.Progress
}

func completeQuiz(t *testing.T, f *fixture) {
	t.Helper()
	_, err := f.attempts.StartAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID)
	require.NoError(t, err)
	require.NoError(t, f.attempts.CompleteAttempt(f.quiz.ID, f.student.ID, f.enrollment.ID, nil))
}

func TestProgressCascade(t *testing.T) {
	t.Run("quiz-only lesson completes on quiz submit", func(t *testing.T) {
		f := newFixture(t, 30, false)

		completeQuiz(t, f)

		assert.EqualValues(t, 1, lessonCompletions(t, f))
		assert.Equal(t, 100, enrollmentProgress(t, f))
	})

	t.Run("quiz completion waits for the lesson's videos", func(t *testing.T) {
		f := newFixture(t, 30, false)
		video := addVideo(t, f, f.lesson.ID)

		completeQuiz(t, f)
		assert.EqualValues(t, 0, lessonCompletions(t, f))
		assert.Equal(t, 0, enrollmentProgress(t, f))

		// Watching the last companion finishes the lesson.
		require.NoError(t, f.courses.CompleteVideo(f.student.ID, f.enrollment.ID, video.ID))
		assert.EqualValues(t, 1, lessonCompletions(t, f))
		assert.Equal(t, 100, enrollmentProgress(t, f))
	})

	t.Run("video completion waits for the lesson's quizzes", func(t *testing.T) {
		f := newFixture(t, 30, false)
		video := addVideo(t, f, f.lesson.ID)

		require.NoError(t, f.courses.CompleteVideo(f.student.ID, f.enrollment.ID, video.ID))
		assert.EqualValues(t, 0, lessonCompletions(t, f))

		completeQuiz(t, f)
		assert.EqualValues(t, 1, lessonCompletions(t, f))
	})

	t.Run("repeating completions never double-counts", func(t *testing.T) {
		f := newFixture(t, 30, true)
		video := addVideo(t, f, f.lesson.ID)

		require.NoError(t, f.courses.CompleteVideo(f.student.ID, f.enrollment.ID, video.ID))
		completeQuiz(t, f)
		require.NoError(t, f.courses.CompleteVideo(f.student.ID, f.enrollment.ID, video.ID))
		completeQuiz(t, f)

		assert.EqualValues(t, 1, lessonCompletions(t, f))
		assert.Equal(t, 100, enrollmentProgress(t, f))
	})

	t.Run("progress is the rounded share of completed lessons", func(t *testing.T) {
		f := newFixture(t, 30, false)

		// Two more lessons the student has not touched.
		for i := 2; i <= 3; i++ {
			require.NoError(t, f.db.Create(&model.Lesson{CourseID: f.course.ID, Title: "extra", OrderIndex: i}).Error)
		}
		require.NoError(t, f.db.Model(&model.Course{}).
			Where("id = ?", f.course.ID).Update("lessons_count", 3).Error)

		completeQuiz(t, f)

		// 1 of 3 lessons: round(33.33) = 33.
		assert.Equal(t, 33, enrollmentProgress(t, f))
	})

	t.Run("zero lesson counter leaves progress at zero", func(t *testing.T) {
		f := newFixture(t, 30, false)
		require.NoError(t, f.db.Model(&model.Course{}).
			Where("id = ?", f.course.ID).Update("lessons_count", 0).Error)

		completeQuiz(t, f)

		assert.EqualValues(t, 1, lessonCompletions(t, f))
		assert.Equal(t, 0, enrollmentProgress(t, f))
	})
}
