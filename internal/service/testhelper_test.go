package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/pkg/database"
	"learnhub_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// setupTestDB opens a per-test in-memory database with the same error
// translation as production, so duplicate-key handling behaves identically.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db         *gorm.DB
	student    model.User
	teacher    model.User
	course     model.Course
	lesson     model.Lesson
	quiz       model.Quiz
	enrollment model.Enrollment

	attempts *AttemptService
	courses  *CourseService
	quizzes  *QuizService
}

// newFixture seeds one course with one lesson holding a four-question quiz
// (answer keys on the first answer of each question) and one enrolled
// student.
func newFixture(t *testing.T, durationMinutes int, allowRepeats bool) *fixture {
	t.Helper()
	db := setupTestDB(t)

	f := &fixture{db: db}

	f.teacher = model.User{Name: "Dana", Email: "dana@example.com", Password: "x", Role: model.Teacher}
	require.NoError(t, db.Create(&f.teacher).Error)
	f.student = model.User{Name: "Riley", Email: "riley@example.com", Password: "x", Role: model.Student}
	require.NoError(t, db.Create(&f.student).Error)

	f.course = model.Course{Title: "Go Basics", TeacherID: f.teacher.ID, IsPublished: true, LessonsCount: 1}
	require.NoError(t, db.Create(&f.course).Error)
	f.lesson = model.Lesson{CourseID: f.course.ID, Title: "Slices", OrderIndex: 1}
	require.NoError(t, db.Create(&f.lesson).Error)

	f.quiz = model.Quiz{
		LessonID:              f.lesson.ID,
		Title:                 "Slices quiz",
		DurationMinutes:       durationMinutes,
		AllowMultipleAttempts: allowRepeats,
	}
	for i := 1; i <= 4; i++ {
		f.quiz.Questions = append(f.quiz.Questions, model.QuizQuestion{
			QuestionText: fmt.Sprintf("Question %d", i),
			QuestionType: model.QuestionMCQ,
			OrderIndex:   i,
			Answers: []model.QuizAnswer{
				{AnswerText: "right", IsCorrect: true},
				{AnswerText: "wrong", IsCorrect: false},
			},
		})
	}
	require.NoError(t, db.Create(&f.quiz).Error)

	f.enrollment = model.Enrollment{StudentID: f.student.ID, CourseID: f.course.ID}
	require.NoError(t, db.Create(&f.enrollment).Error)

	quizRepo := repository.NewQuizRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	progress := NewProgressService()

	f.attempts = NewAttemptService(quizRepo, submissionRepo, enrollmentRepo, progress, db)
	f.courses = NewCourseService(courseRepo, enrollmentRepo, progress, db)
	f.quizzes = NewQuizService(quizRepo, courseRepo, db)

	return f
}

// correctAnswerID returns the correct answer's id for the i-th question
// (zero-based, in seeded order).
func (f *fixture) correctAnswerID(t *testing.T, i int) uint {
	t.Helper()
	q := f.questions(t)[i]
	for _, a := range q.Answers {
		if a.IsCorrect {
			return a.ID
		}
	}
	t.Fatalf("question %d has no correct answer", i)
	return 0
}

func (f *fixture) wrongAnswerID(t *testing.T, i int) uint {
	t.Helper()
	q := f.questions(t)[i]
	for _, a := range q.Answers {
		if !a.IsCorrect {
			return a.ID
		}
	}
	t.Fatalf("question %d has no wrong answer", i)
	return 0
}

func (f *fixture) questions(t *testing.T) []model.QuizQuestion {
	t.Helper()
	var questions []model.QuizQuestion
	require.NoError(t, f.db.Preload("Answers").
		Where("quiz_id = ?", f.quiz.ID).
		Order("order_index ASC").
		Find(&questions).Error)
	return questions
}

// backdateAttempt moves a submission's start time into the past to simulate
// an expired or long-running timer.
func (f *fixture) backdateAttempt(t *testing.T, submissionID uint, by time.Duration) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.QuizSubmission{}).
		Where("id = ?", submissionID).
		Update("started_at", time.Now().Add(-by)).Error)
}
