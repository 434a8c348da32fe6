// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/stepclass/stepclass-hub/internal/domain/badge"
	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
	"github.com/stepclass/stepclass-hub/internal/domain/leaderboard"
	"github.com/stepclass/stepclass-hub/internal/domain/student"
	"github.com/stepclass/stepclass-hub/pkg/logger"
	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Строит рейтинг по всей популяции студентов на момент запроса.
// Рейтинг никогда не кешируется: каждый запрос - полный пересчёт от записей.
// Окно метрик - скользящие 7 дней включая сегодня; бейджи считаются за всё
// время. Студенты без записей в окне участвуют с нулями.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery содержит параметры запроса рейтинга.
type GetLeaderboardQuery struct {
	// Category - категория рейтинга. Пустая строка означает сводный рейтинг.
	Category string

	// Limit ограничивает число строк ответа (0 = без ограничения).
	Limit int
}

// GetLeaderboardResult содержит построенный рейтинг.
type GetLeaderboardResult struct {
	Category leaderboard.Category
	Window   exercise.Window

	// Composite заполнен для сводного рейтинга, Entries - для категорийного.
	Composite []leaderboard.Entry
	Entries   []leaderboard.CategoryEntry

	ComputedAt time.Time
}

// GetLeaderboardHandler обрабатывает GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	studentRepo  student.Repository
	exerciseRepo exercise.Repository
	badgeRepo    badge.Repository
	clock        timeutil.Clock
	log          *logger.Logger
}

// NewGetLeaderboardHandler создаёт новый GetLeaderboardHandler.
func NewGetLeaderboardHandler(
	studentRepo student.Repository,
	exerciseRepo exercise.Repository,
	badgeRepo badge.Repository,
	clock timeutil.Clock,
	log *logger.Logger,
) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{
		studentRepo:  studentRepo,
		exerciseRepo: exerciseRepo,
		badgeRepo:    badgeRepo,
		clock:        clock,
		log:          log.With(logger.Component("get_leaderboard")),
	}
}

// Handle выполняет запрос рейтинга.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	category := leaderboard.CategoryComposite
	if q.Category != "" {
		parsed, err := leaderboard.ParseCategory(q.Category)
		if err != nil {
			return nil, err
		}
		category = parsed
	}

	now := h.clock.Now()
	today := timeutil.StartOfDay(now)
	window := exercise.WeekWindow(today)

	population, err := h.loadPopulation(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: %w", err)
	}

	result := &GetLeaderboardResult{
		Category:   category,
		Window:     window,
		ComputedAt: now,
	}

	if category == leaderboard.CategoryComposite {
		entries := leaderboard.RankComposite(population)
		if q.Limit > 0 && q.Limit < len(entries) {
			entries = entries[:q.Limit]
		}
		result.Composite = entries
	} else {
		entries, err := leaderboard.RankByCategory(category, population)
		if err != nil {
			return nil, err
		}
		if q.Limit > 0 && q.Limit < len(entries) {
			entries = entries[:q.Limit]
		}
		result.Entries = entries
	}

	h.log.Debug("leaderboard computed",
		logger.String("category", category.String()),
		logger.Int("population", len(population)),
		logger.Latency(time.Since(now)),
	)
	return result, nil
}

// loadPopulation собирает входные данные рейтинга: всех студентов в порядке
// идентификатора, их записи в окне и число бейджей за всё время.
// Порядок по идентификатору - стабильный tiebreak при равных очках.
func (h *GetLeaderboardHandler) loadPopulation(ctx context.Context, w exercise.Window) ([]leaderboard.Input, error) {
	students, err := h.studentRepo.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}

	records, err := h.exerciseRepo.ListAllInWindow(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	byStudent := make(map[string][]exercise.Record, len(students))
	for _, r := range records {
		id := r.StudentID.String()
		byStudent[id] = append(byStudent[id], r)
	}

	population := make([]leaderboard.Input, 0, len(students))
	for _, s := range students {
		awards, err := h.badgeRepo.AwardsFor(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("load awards for %s: %w", s.ID, err)
		}

		population = append(population, leaderboard.Input{
			StudentID:  s.ID,
			Name:       s.Name,
			ClassName:  s.ClassName,
			Grade:      s.Grade,
			BadgeCount: len(awards),
			Totals:     exercise.SumInWindow(byStudent[s.ID], w),
		})
	}
	return population, nil
}
