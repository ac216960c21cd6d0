package service

import (
	"learnhub_backend/internal/model"
)

// GradeResult is the outcome of scoring one locked answer set against a
// quiz's answer key.
type GradeResult struct {
	CorrectCount   int
	TotalQuestions int
	Score          float64
}

// GradeAnswers scores a final answer set {questionID -> answerID} against the
// quiz's questions. Correctness is decided by identity: the chosen answer row
// must belong to that question and be marked correct, never matched by text
// and never against another question's answer rows. Unanswered questions stay
// in the denominator, so they count as wrong.
func GradeAnswers(questions []model.QuizQuestion, answers map[uint]uint) GradeResult {
	correct := 0
	for _, q := range questions {
		answerID, answered := answers[q.ID]
		if !answered {
			continue
		}
		for _, a := range q.Answers {
			if a.ID == answerID && a.IsCorrect {
				correct++
				break
			}
		}
	}

	total := len(questions)
	score := 0.0
	if total > 0 {
		score = float64(correct) / float64(total)
	}

	return GradeResult{
		CorrectCount:   correct,
		TotalQuestions: total,
		Score:          score,
	}
}

// ApplyOverrides merges teacher verdicts for manually graded questions into
// an auto-graded result. Only questions the auto pass could not score (essay
// types) are considered, and the merge recomputes the score from scratch, so
// calling it again with the same overrides yields the same result.
func ApplyOverrides(auto GradeResult, questions []model.QuizQuestion, overrides []model.QuestionGradeOverride) GradeResult {
	manual := make(map[uint]bool, len(questions))
	for _, q := range questions {
		if q.QuestionType == model.QuestionEssay {
			manual[q.ID] = true
		}
	}

	correct := auto.CorrectCount
	for _, o := range overrides {
		if manual[o.QuestionID] && o.IsCorrect {
			correct++
		}
	}

	score := 0.0
	if auto.TotalQuestions > 0 {
		score = float64(correct) / float64(auto.TotalQuestions)
	}

	return GradeResult{
		CorrectCount:   correct,
		TotalQuestions: auto.TotalQuestions,
		Score:          score,
	}
}
