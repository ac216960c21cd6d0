package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const analyticsCacheTTL = 5 * time.Minute

// AnalyticsService computes teacher-facing reporting over the completed
// submissions of a quiz. Everything is derived on demand from the store;
// results are cached briefly in redis when a client is configured.
type AnalyticsService struct {
	Repo     *repository.AnalyticsRepository
	QuizRepo *repository.QuizRepository
	Redis    *redis.Client
}

func NewAnalyticsService(repo *repository.AnalyticsRepository, quizRepo *repository.QuizRepository, rdb *redis.Client) *AnalyticsService {
	return &AnalyticsService{Repo: repo, QuizRepo: quizRepo, Redis: rdb}
}

type QuestionDifficulty struct {
	QuestionID uint    `json:"questionId"`
	OrderIndex int     `json:"orderIndex"`
	Difficulty float64 `json:"difficulty"`
}

type TimeSpentDistribution struct {
	MinSeconds    float64 `json:"minSeconds"`
	MaxSeconds    float64 `json:"maxSeconds"`
	MedianSeconds float64 `json:"medianSeconds"`
}

type QuizAnalytics struct {
	QuizID                  uint                  `json:"quizId"`
	TotalSubmissions        int                   `json:"totalSubmissions"`
	AverageScore            float64               `json:"averageScore"`
	CompletionRate          float64               `json:"completionRate"`
	AttemptsPerStudent      map[uint]int          `json:"attemptsPerStudent"`
	QuestionDifficulty      []QuestionDifficulty  `json:"questionDifficulty"`
	AverageTimeSpentSeconds float64               `json:"averageTimeSpentSeconds"`
	TimeSpentDistribution   TimeSpentDistribution `json:"timeSpentDistribution"`
}

// GetQuizAnalytics aggregates all completed submissions of the quiz. The
// completion rate is unique students over completed submissions, times 100:
// a submissions-per-student normalization, not a percentage of enrolled
// students; reporting consumers depend on this exact figure.
func (s *AnalyticsService) GetQuizAnalytics(ctx context.Context, quizID uint) (*QuizAnalytics, error) {
	cacheKey := fmt.Sprintf("quiz_analytics:%d", quizID)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var analytics QuizAnalytics
			if err := json.Unmarshal([]byte(cached), &analytics); err == nil {
				return &analytics, nil
			}
		}
	}

	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	submissions, err := s.Repo.CompletedSubmissions(quiz.ID)
	if err != nil {
		return nil, err
	}

	analytics := &QuizAnalytics{
		QuizID:             quiz.ID,
		TotalSubmissions:   len(submissions),
		AttemptsPerStudent: make(map[uint]int),
		QuestionDifficulty: make([]QuestionDifficulty, 0, len(quiz.Questions)),
	}

	scoreSum := 0.0
	students := make(map[uint]bool)
	durations := make([]float64, 0, len(submissions))
	for _, sub := range submissions {
		if sub.Score != nil {
			scoreSum += *sub.Score
		}
		students[sub.StudentID] = true
		analytics.AttemptsPerStudent[sub.StudentID]++
		if sub.CompletedAt != nil {
			durations = append(durations, sub.CompletedAt.Sub(sub.StartedAt).Seconds())
		}
	}

	if len(submissions) > 0 {
		analytics.AverageScore = scoreSum / float64(len(submissions))
		analytics.CompletionRate = float64(len(students)) / float64(len(submissions)) * 100
	}

	stats, err := s.Repo.QuestionAnswerStats(quiz.ID)
	if err != nil {
		return nil, err
	}
	statByQuestion := make(map[uint]repository.QuestionAnswerStat, len(stats))
	for _, st := range stats {
		statByQuestion[st.QuestionID] = st
	}
	for _, q := range quiz.Questions {
		difficulty := 0.0
		if st, ok := statByQuestion[q.ID]; ok && st.Total > 0 {
			difficulty = round2(float64(st.Correct) / float64(st.Total) * 100)
		}
		analytics.QuestionDifficulty = append(analytics.QuestionDifficulty, QuestionDifficulty{
			QuestionID: q.ID,
			OrderIndex: q.OrderIndex,
			Difficulty: difficulty,
		})
	}

	if len(durations) > 0 {
		sort.Float64s(durations)
		sum := 0.0
		for _, d := range durations {
			sum += d
		}
		analytics.AverageTimeSpentSeconds = sum / float64(len(durations))
		analytics.TimeSpentDistribution = TimeSpentDistribution{
			MinSeconds: durations[0],
			MaxSeconds: durations[len(durations)-1],
			// Median is the element at index n/2 of the sorted array, not an
			// interpolated midpoint for even lengths.
			MedianSeconds: durations[len(durations)/2],
		}
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(analytics); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, payload, analyticsCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache quiz analytics",
					zap.Uint("quizId", quiz.ID), zap.Error(err))
			}
		}
	}

	return analytics, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
