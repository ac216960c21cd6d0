package service

import (
	"errors"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizService owns quiz authoring. Attempt-time reads go through
// AttemptService; everything here is the teacher-facing write path plus the
// answer-key-stripped student view.
type QuizService struct {
	QuizRepo   *repository.QuizRepository
	CourseRepo *repository.CourseRepository
	DB         *gorm.DB
}

func NewQuizService(quizRepo *repository.QuizRepository, courseRepo *repository.CourseRepository, db *gorm.DB) *QuizService {
	return &QuizService{QuizRepo: quizRepo, CourseRepo: courseRepo, DB: db}
}

type AnswerRequest struct {
	AnswerText string `json:"answerText" binding:"required"`
	IsCorrect  bool   `json:"isCorrect"`
}

type QuestionRequest struct {
	QuestionText string          `json:"questionText" binding:"required"`
	QuestionType string          `json:"questionType" binding:"required"`
	OrderIndex   int             `json:"orderIndex"`
	Answers      []AnswerRequest `json:"answers"`
}

type QuizCreateRequest struct {
	LessonID              uint              `json:"lessonId" binding:"required"`
	Title                 string            `json:"title" binding:"required"`
	DurationMinutes       int               `json:"durationMinutes" binding:"required"`
	AllowMultipleAttempts bool              `json:"allowMultipleAttempts"`
	Questions             []QuestionRequest `json:"questions"`
}

type QuizUpdateRequest struct {
	Title                 *string `json:"title"`
	DurationMinutes       *int    `json:"durationMinutes"`
	AllowMultipleAttempts *bool   `json:"allowMultipleAttempts"`
}

func validQuestionType(t string, allowEssay bool) bool {
	switch model.QuestionType(t) {
	case model.QuestionMCQ, model.QuestionTrueFalse:
		return true
	case model.QuestionEssay:
		return allowEssay
	}
	return false
}

func (s *QuizService) CreateQuiz(teacherID uint, req *QuizCreateRequest) (*model.Quiz, error) {
	if req.DurationMinutes <= 0 {
		return nil, util.ErrInvalidDuration
	}

	lesson, err := s.CourseRepo.FindLessonByID(req.LessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if err := s.requireCourseOwner(lesson.CourseID, teacherID); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		LessonID:              lesson.ID,
		Title:                 req.Title,
		DurationMinutes:       req.DurationMinutes,
		AllowMultipleAttempts: req.AllowMultipleAttempts,
	}
	for _, q := range req.Questions {
		if !validQuestionType(q.QuestionType, false) {
			return nil, util.ErrInvalidQuestionType
		}
		question := model.QuizQuestion{
			QuestionText: q.QuestionText,
			QuestionType: model.QuestionType(q.QuestionType),
			OrderIndex:   q.OrderIndex,
		}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, model.QuizAnswer{
				AnswerText: a.AnswerText,
				IsCorrect:  a.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}

	logger.Log.Info("quiz created",
		zap.Uint("quizId", quiz.ID),
		zap.Uint("lessonId", lesson.ID),
		zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

// UpdateQuiz edits quiz-level settings. Duration and attempt policy changes
// apply to in-flight attempts on their next request, since every attempt
// operation reads the quiz row fresh.
func (s *QuizService) UpdateQuiz(teacherID, quizID uint, req *QuizUpdateRequest) (*model.Quiz, error) {
	quiz, err := s.findOwnedQuiz(teacherID, quizID)
	if err != nil {
		return nil, err
	}

	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, util.ErrInvalidDuration
		}
		quiz.DurationMinutes = *req.DurationMinutes
	}
	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.AllowMultipleAttempts != nil {
		quiz.AllowMultipleAttempts = *req.AllowMultipleAttempts
	}

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) AddQuestion(teacherID, quizID uint, req *QuestionRequest) (*model.QuizQuestion, error) {
	if _, err := s.findOwnedQuiz(teacherID, quizID); err != nil {
		return nil, err
	}
	// Essay questions are allowed here; they are held out of auto-grading and
	// scored through the manual override path.
	if !validQuestionType(req.QuestionType, true) {
		return nil, util.ErrInvalidQuestionType
	}

	question := &model.QuizQuestion{
		QuizID:       quizID,
		QuestionText: req.QuestionText,
		QuestionType: model.QuestionType(req.QuestionType),
		OrderIndex:   req.OrderIndex,
	}
	for _, a := range req.Answers {
		question.Answers = append(question.Answers, model.QuizAnswer{
			AnswerText: a.AnswerText,
			IsCorrect:  a.IsCorrect,
		})
	}

	if err := s.DB.Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) DeleteQuestion(teacherID, quizID, questionID uint) error {
	if _, err := s.findOwnedQuiz(teacherID, quizID); err != nil {
		return err
	}
	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if question.QuizID != quizID {
		return util.ErrQuestionNotFound
	}
	return s.QuizRepo.DeleteQuestion(questionID)
}

func (s *QuizService) DeleteQuiz(teacherID, quizID uint) error {
	if _, err := s.findOwnedQuiz(teacherID, quizID); err != nil {
		return err
	}
	return s.QuizRepo.Delete(quizID)
}

// StudentView is the quiz as a student sees it before answering: full
// question list, answer options without correctness flags.
type StudentQuestionView struct {
	ID           uint                `json:"id"`
	QuestionText string              `json:"questionText"`
	QuestionType string              `json:"questionType"`
	OrderIndex   int                 `json:"orderIndex"`
	Answers      []StudentAnswerView `json:"answers"`
}

type StudentAnswerView struct {
	ID         uint   `json:"id"`
	AnswerText string `json:"answerText"`
}

type StudentQuizView struct {
	ID                    uint                  `json:"id"`
	Title                 string                `json:"title"`
	DurationMinutes       int                   `json:"durationMinutes"`
	AllowMultipleAttempts bool                  `json:"allowMultipleAttempts"`
	Questions             []StudentQuestionView `json:"questions"`
}

func (s *QuizService) GetQuizForStudent(quizID uint) (*StudentQuizView, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	view := &StudentQuizView{
		ID:                    quiz.ID,
		Title:                 quiz.Title,
		DurationMinutes:       quiz.DurationMinutes,
		AllowMultipleAttempts: quiz.AllowMultipleAttempts,
		Questions:             make([]StudentQuestionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qv := StudentQuestionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: string(q.QuestionType),
			OrderIndex:   q.OrderIndex,
			Answers:      make([]StudentAnswerView, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			qv.Answers = append(qv.Answers, StudentAnswerView{ID: a.ID, AnswerText: a.AnswerText})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view, nil
}

// GetQuizForTeacher returns the quiz with the answer key intact.
func (s *QuizService) GetQuizForTeacher(teacherID, quizID uint) (*model.Quiz, error) {
	if _, err := s.findOwnedQuiz(teacherID, quizID); err != nil {
		return nil, err
	}
	return s.QuizRepo.FindByIDWithQuestions(quizID)
}

func (s *QuizService) findOwnedQuiz(teacherID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	lesson, err := s.CourseRepo.FindLessonByID(quiz.LessonID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCourseOwner(lesson.CourseID, teacherID); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) requireCourseOwner(courseID, teacherID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if course.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}
	return nil
}
