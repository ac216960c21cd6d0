package service

import (
	"errors"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttemptService drives the submission lifecycle: start, resume, auto-save,
// submit. It keeps no in-process state; every invariant is enforced through
// the store's transactions and unique keys, so concurrent requests for the
// same attempt coordinate only through the database.
type AttemptService struct {
	QuizRepo       *repository.QuizRepository
	SubmissionRepo *repository.SubmissionRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Progress       *ProgressService
	DB             *gorm.DB
}

func NewAttemptService(
	quizRepo *repository.QuizRepository,
	submissionRepo *repository.SubmissionRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progress *ProgressService,
	db *gorm.DB,
) *AttemptService {
	return &AttemptService{
		QuizRepo:       quizRepo,
		SubmissionRepo: submissionRepo,
		EnrollmentRepo: enrollmentRepo,
		Progress:       progress,
		DB:             db,
	}
}

type StartAttemptResult struct {
	SubmissionID         uint      `json:"submissionId"`
	Attempt              int       `json:"attempt"`
	StartedAt            time.Time `json:"startedAt"`
	TimeRemainingSeconds int       `json:"timeRemainingSeconds"`
	Resumed              bool      `json:"resumed"`
}

type ResumeAttemptResult struct {
	SubmissionID         uint          `json:"submissionId"`
	Attempt              int           `json:"attempt"`
	StartedAt            time.Time     `json:"startedAt"`
	TimeRemainingSeconds int           `json:"timeRemainingSeconds"`
	SavedAnswers         map[uint]uint `json:"savedAnswers"`
}

type SaveAnswerResult struct {
	TimeRemainingSeconds int `json:"timeRemainingSeconds"`
}

// AnswerSubmission is the client-side fallback answer shape used at submit
// time when no auto-saved responses ever reached the server.
type AnswerSubmission struct {
	QuestionID uint `json:"questionId"`
	AnswerID   uint `json:"answerId"`
}

type QuestionResult struct {
	QuestionText    string `json:"questionText"`
	CorrectAnswer   string `json:"correctAnswer"`
	SubmittedAnswer string `json:"submittedAnswer"`
}

type QuizResults struct {
	Score       string           `json:"score"`
	PerQuestion []QuestionResult `json:"perQuestion"`
}

// loadQuizAndEnrollment reads both aggregates fresh for this request. A quiz
// edited mid-attempt (duration, attempt policy) must be seen immediately, so
// nothing here is cached. Ownership mismatches surface as not-found rather
// than forbidden: a caller probing someone else's enrollment learns nothing.
func (s *AttemptService) loadQuizAndEnrollment(quizID, studentID, enrollmentID uint) (*model.Quiz, *model.Enrollment, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrQuizNotFound
		}
		return nil, nil, err
	}

	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrEnrollmentNotFound
		}
		return nil, nil, err
	}
	if enrollment.StudentID != studentID {
		return nil, nil, util.ErrEnrollmentNotFound
	}

	return quiz, enrollment, nil
}

// StartAttempt begins a timed attempt, or resumes the one already in
// progress, so a second start for an open attempt is idempotent. After a
// completed attempt, a new one is only opened when the quiz allows repeats,
// numbered max existing attempt + 1.
func (s *AttemptService) StartAttempt(quizID, studentID, enrollmentID uint) (*StartAttemptResult, error) {
	now := time.Now()

	quiz, enrollment, err := s.loadQuizAndEnrollment(quizID, studentID, enrollmentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.SubmissionRepo.FindInProgress(enrollment.ID, quiz.ID)
	if err == nil {
		return &StartAttemptResult{
			SubmissionID:         existing.ID,
			Attempt:              existing.Attempt,
			StartedAt:            existing.StartedAt,
			TimeRemainingSeconds: RemainingSeconds(existing.StartedAt, quiz.DurationMinutes, now),
			Resumed:              true,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	maxAttempt, err := s.SubmissionRepo.MaxAttempt(enrollment.ID, quiz.ID)
	if err != nil {
		return nil, err
	}
	nextAttempt := maxAttempt + 1
	if nextAttempt > 1 && !quiz.AllowMultipleAttempts {
		return nil, util.ErrAttemptNotAllowed
	}

	submission := &model.QuizSubmission{
		EnrollmentID: enrollment.ID,
		QuizID:       quiz.ID,
		StudentID:    studentID,
		Attempt:      nextAttempt,
		StartedAt:    now,
	}
	if err := s.SubmissionRepo.Create(submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent start won the insert; its row is the attempt now,
			// so hand that one back instead of failing.
			winner, findErr := s.SubmissionRepo.FindInProgress(enrollment.ID, quiz.ID)
			if findErr != nil {
				return nil, err
			}
			logger.Log.Debug("start attempt lost insert race, resuming winner",
				zap.Uint("quizId", quiz.ID),
				zap.Uint("enrollmentId", enrollment.ID),
				zap.Uint("submissionId", winner.ID))
			return &StartAttemptResult{
				SubmissionID:         winner.ID,
				Attempt:              winner.Attempt,
				StartedAt:            winner.StartedAt,
				TimeRemainingSeconds: RemainingSeconds(winner.StartedAt, quiz.DurationMinutes, now),
				Resumed:              true,
			}, nil
		}
		return nil, err
	}

	return &StartAttemptResult{
		SubmissionID:         submission.ID,
		Attempt:              submission.Attempt,
		StartedAt:            submission.StartedAt,
		TimeRemainingSeconds: quiz.DurationMinutes * 60,
	}, nil
}

// ResumeAttempt returns the open attempt with its saved answers and remaining
// time. Unlike StartAttempt it never creates anything: no open attempt means
// not found.
func (s *AttemptService) ResumeAttempt(quizID, studentID, enrollmentID uint) (*ResumeAttemptResult, error) {
	now := time.Now()

	quiz, enrollment, err := s.loadQuizAndEnrollment(quizID, studentID, enrollmentID)
	if err != nil {
		return nil, err
	}

	submission, err := s.SubmissionRepo.FindInProgress(enrollment.ID, quiz.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNoActiveAttempt
		}
		return nil, err
	}

	responses, err := s.SubmissionRepo.GetResponses(submission.ID)
	if err != nil {
		return nil, err
	}
	saved := make(map[uint]uint, len(responses))
	for _, r := range responses {
		saved[r.QuestionID] = r.AnswerID
	}

	return &ResumeAttemptResult{
		SubmissionID:         submission.ID,
		Attempt:              submission.Attempt,
		StartedAt:            submission.StartedAt,
		TimeRemainingSeconds: RemainingSeconds(submission.StartedAt, quiz.DurationMinutes, now),
		SavedAnswers:         saved,
	}, nil
}

// SaveAnswer upserts the working answer for one question. The write is a
// single on-conflict statement keyed by (submission, question): repeats and
// races between saves are last-write-wins. A save after the timer ran out is
// rejected and writes nothing; submit, by contrast, still goes through.
func (s *AttemptService) SaveAnswer(quizID, studentID, submissionID, questionID, answerID uint) (*SaveAnswerResult, error) {
	now := time.Now()

	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.StudentID != studentID || submission.QuizID != quiz.ID {
		return nil, util.ErrSubmissionNotFound
	}
	if submission.Completed {
		return nil, util.ErrSubmissionCompleted
	}

	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if question.QuizID != quiz.ID {
		return nil, util.ErrQuestionNotFound
	}

	answer, err := s.QuizRepo.FindAnswerByID(answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAnswerNotFound
		}
		return nil, err
	}
	if answer.QuestionID != question.ID {
		return nil, util.ErrAnswerNotFound
	}

	remaining := RemainingSeconds(submission.StartedAt, quiz.DurationMinutes, now)
	if remaining <= 0 {
		return nil, util.ErrTimeExpired
	}

	if err := s.SubmissionRepo.UpsertResponse(&model.QuizResponse{
		SubmissionID: submission.ID,
		QuestionID:   question.ID,
		AnswerID:     answer.ID,
	}); err != nil {
		return nil, err
	}

	return &SaveAnswerResult{TimeRemainingSeconds: remaining}, nil
}

// CompleteAttempt finalizes the open attempt: grade, lock the answer set,
// mark completed, cascade lesson progress, all in one transaction. An
// expired timer never rejects a submit; a late submit is exactly the
// auto-submit path finalizing an attempt whose time ran out while the client
// was disconnected. Server-saved responses are authoritative; the caller's
// answer list is only used when not a single auto-save ever landed.
func (s *AttemptService) CompleteAttempt(quizID, studentID, enrollmentID uint, clientAnswers []AnswerSubmission) error {
	now := time.Now()

	quiz, enrollment, err := s.loadQuizAndEnrollment(quizID, studentID, enrollmentID)
	if err != nil {
		return err
	}

	full, err := s.QuizRepo.FindByIDWithQuestions(quiz.ID)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// Locked read: a concurrent submit for the same attempt waits here
		// and then falls onto the no-active-attempt path instead of hitting
		// the locked-answer unique key.
		var submission model.QuizSubmission
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("enrollment_id = ? AND quiz_id = ? AND completed = ?", enrollment.ID, quiz.ID, false).
			First(&submission).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrNoActiveAttempt
			}
			return err
		}

		var responses []model.QuizResponse
		if err := tx.Where("submission_id = ?", submission.ID).Find(&responses).Error; err != nil {
			return err
		}

		// The fallback list is client-supplied, so each pair must pass the
		// same membership check SaveAnswer enforces: the answer row has to
		// belong to that question. Pairs that fail are dropped, never graded
		// or locked.
		answersByQuestion := make(map[uint]map[uint]bool, len(full.Questions))
		for _, q := range full.Questions {
			ids := make(map[uint]bool, len(q.Answers))
			for _, a := range q.Answers {
				ids[a.ID] = true
			}
			answersByQuestion[q.ID] = ids
		}

		final := make(map[uint]uint)
		if len(responses) > 0 {
			for _, r := range responses {
				final[r.QuestionID] = r.AnswerID
			}
		} else {
			for _, a := range clientAnswers {
				if ids, ok := answersByQuestion[a.QuestionID]; ok && ids[a.AnswerID] {
					final[a.QuestionID] = a.AnswerID
				}
			}
		}

		result := GradeAnswers(full.Questions, final)

		if len(final) > 0 {
			locked := make([]model.SubmittedQuestionAnswer, 0, len(final))
			for questionID, answerID := range final {
				locked = append(locked, model.SubmittedQuestionAnswer{
					SubmissionID: submission.ID,
					QuestionID:   questionID,
					AnswerID:     answerID,
				})
			}
			if err := tx.Create(&locked).Error; err != nil {
				return err
			}
		}

		score := result.Score
		submission.Completed = true
		submission.Score = &score
		submission.CompletedAt = &now
		if err := tx.Save(&submission).Error; err != nil {
			return err
		}

		logger.Log.Info("quiz attempt completed",
			zap.Uint("quizId", quiz.ID),
			zap.Uint("submissionId", submission.ID),
			zap.Int("attempt", submission.Attempt),
			zap.Float64("score", score))

		// The quiz's own completed/score state stands regardless of whether
		// the lesson becomes complete here.
		return s.Progress.HandleLessonEvent(tx, enrollment.ID, quiz.LessonID, TriggerQuiz)
	})
}

// GetResults returns the latest graded attempt with a per-question breakdown
// of submitted versus correct answers.
func (s *AttemptService) GetResults(quizID, studentID uint) (*QuizResults, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	submission, err := s.SubmissionRepo.LatestCompleted(quiz.ID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	locked, err := s.SubmissionRepo.GetSubmittedAnswers(submission.ID)
	if err != nil {
		return nil, err
	}
	chosen := make(map[uint]uint, len(locked))
	for _, a := range locked {
		chosen[a.QuestionID] = a.AnswerID
	}

	answerText := make(map[uint]string)
	for _, q := range quiz.Questions {
		for _, a := range q.Answers {
			answerText[a.ID] = a.AnswerText
		}
	}

	perQuestion := make([]QuestionResult, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		row := QuestionResult{QuestionText: q.QuestionText}
		for _, a := range q.Answers {
			if a.IsCorrect {
				row.CorrectAnswer = a.AnswerText
				break
			}
		}
		if answerID, ok := chosen[q.ID]; ok {
			row.SubmittedAnswer = answerText[answerID]
		}
		perQuestion = append(perQuestion, row)
	}

	score := 0.0
	if submission.Score != nil {
		score = *submission.Score
	}

	return &QuizResults{
		Score:       util.FormatScore(score),
		PerQuestion: perQuestion,
	}, nil
}

// QuestionMark is a teacher's correctness verdict for one manually graded
// question.
type QuestionMark struct {
	QuestionID uint `json:"questionId"`
	IsCorrect  bool `json:"isCorrect"`
}

// ManualGrade records teacher verdicts for essay questions of a graded
// submission and re-derives the score from scratch: auto-graded correctness
// from the locked answers plus the current override set. Grading twice with
// the same marks yields the same score.
func (s *AttemptService) ManualGrade(graderID, submissionID uint, marks []QuestionMark) error {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSubmissionNotFound
		}
		return err
	}
	if !submission.Completed {
		return util.ErrSubmissionNotCompleted
	}

	quiz, err := s.QuizRepo.FindByIDWithQuestions(submission.QuizID)
	if err != nil {
		return err
	}

	now := time.Now()
	overrides := make([]model.QuestionGradeOverride, 0, len(marks))
	for _, m := range marks {
		overrides = append(overrides, model.QuestionGradeOverride{
			SubmissionID: submission.ID,
			QuestionID:   m.QuestionID,
			IsCorrect:    m.IsCorrect,
			GraderID:     graderID,
			GradedAt:     &now,
		})
	}
	if err := s.SubmissionRepo.UpsertGradeOverrides(overrides); err != nil {
		return err
	}

	locked, err := s.SubmissionRepo.GetSubmittedAnswers(submission.ID)
	if err != nil {
		return err
	}
	final := make(map[uint]uint, len(locked))
	for _, a := range locked {
		final[a.QuestionID] = a.AnswerID
	}

	all, err := s.SubmissionRepo.GetGradeOverrides(submission.ID)
	if err != nil {
		return err
	}

	merged := ApplyOverrides(GradeAnswers(quiz.Questions, final), quiz.Questions, all)
	score := merged.Score
	submission.Score = &score
	return s.SubmissionRepo.Update(submission)
}

// ReviewItem summarizes a completed submission of a quiz that carries
// manually graded questions.
type ReviewItem struct {
	SubmissionID     uint       `json:"submissionId"`
	StudentID        uint       `json:"studentId"`
	Attempt          int        `json:"attempt"`
	Score            string     `json:"score"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	PendingQuestions []uint     `json:"pendingQuestions"`
}

// SubmissionsForReview lists completed submissions of a quiz containing essay
// questions, with the question IDs still missing a verdict. Quizzes without
// essay questions have nothing to review and return an empty list.
func (s *AttemptService) SubmissionsForReview(quizID uint) ([]ReviewItem, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	var essayIDs []uint
	for _, q := range quiz.Questions {
		if q.QuestionType == model.QuestionEssay {
			essayIDs = append(essayIDs, q.ID)
		}
	}
	if len(essayIDs) == 0 {
		return []ReviewItem{}, nil
	}

	submissions, err := s.SubmissionRepo.ListCompletedByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewItem, 0, len(submissions))
	for _, sub := range submissions {
		overrides, err := s.SubmissionRepo.GetGradeOverrides(sub.ID)
		if err != nil {
			return nil, err
		}
		graded := make(map[uint]bool, len(overrides))
		for _, o := range overrides {
			graded[o.QuestionID] = true
		}
		pending := make([]uint, 0, len(essayIDs))
		for _, id := range essayIDs {
			if !graded[id] {
				pending = append(pending, id)
			}
		}
		score := 0.0
		if sub.Score != nil {
			score = *sub.Score
		}
		items = append(items, ReviewItem{
			SubmissionID:     sub.ID,
			StudentID:        sub.StudentID,
			Attempt:          sub.Attempt,
			Score:            util.FormatScore(score),
			CompletedAt:      sub.CompletedAt,
			PendingQuestions: pending,
		})
	}
	return items, nil
}
