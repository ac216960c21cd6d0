package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCourseNotFound      = errors.New("course not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrVideoNotFound       = errors.New("video not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrAnswerNotFound      = errors.New("answer not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrAlreadyEnrolled     = errors.New("already enrolled in course")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrNoActiveAttempt     = errors.New("no attempt in progress")
	ErrAttemptNotAllowed   = errors.New("quiz does not allow multiple attempts")
	ErrTimeExpired         = errors.New("time expired")
	ErrSubmissionCompleted = errors.New("submission already completed")

	ErrSubmissionNotCompleted = errors.New("submission not yet completed")
	ErrInvalidDuration        = errors.New("duration must be positive")
	ErrInvalidQuestionType    = errors.New("invalid question type")
	ErrInvalidFileType        = errors.New("unsupported file type")
	ErrUploadProgressNotFound = errors.New("upload progress not found")
)
