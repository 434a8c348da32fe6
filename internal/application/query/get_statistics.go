package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
	"github.com/stepclass/stepclass-hub/pkg/logger"
	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STATISTICS QUERY
// Сводка по одному студенту за период day/week/month. Период "day" - только
// сегодня, "week" - скользящие 7 дней, "month" - скользящие 30 дней, всегда
// включая сегодня. Пустое окно - нулевая сводка, не ошибка.
// ══════════════════════════════════════════════════════════════════════════════

// GetStatisticsQuery содержит параметры запроса сводки.
type GetStatisticsQuery struct {
	StudentID string

	// Period - "day", "week" или "month". Неизвестное значение - ошибка.
	Period string
}

// Validate проверяет параметры запроса.
func (q GetStatisticsQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("get_statistics: student_id is required")
	}
	if q.Period == "" {
		return errors.New("get_statistics: period is required")
	}
	return nil
}

// GetStatisticsResult содержит сводку.
type GetStatisticsResult struct {
	Summary exercise.Summary
}

// GetStatisticsHandler обрабатывает GetStatisticsQuery.
type GetStatisticsHandler struct {
	exerciseRepo exercise.Repository
	clock        timeutil.Clock
	log          *logger.Logger
}

// NewGetStatisticsHandler создаёт новый GetStatisticsHandler.
func NewGetStatisticsHandler(
	exerciseRepo exercise.Repository,
	clock timeutil.Clock,
	log *logger.Logger,
) *GetStatisticsHandler {
	return &GetStatisticsHandler{
		exerciseRepo: exerciseRepo,
		clock:        clock,
		log:          log.With(logger.Component("get_statistics")),
	}
}

// Handle выполняет запрос сводки.
func (h *GetStatisticsHandler) Handle(ctx context.Context, q GetStatisticsQuery) (*GetStatisticsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	period, err := exercise.ParsePeriod(q.Period)
	if err != nil {
		return nil, err
	}

	today := timeutil.Today(h.clock)
	window := exercise.ResolveWindow(period, today)

	records, err := h.exerciseRepo.ListByStudentInWindow(ctx, exercise.StudentID(q.StudentID), window)
	if err != nil {
		return nil, fmt.Errorf("get_statistics: load records: %w", err)
	}

	summary := exercise.Summarize(exercise.StudentID(q.StudentID), records, period, today)

	h.log.Debug("statistics computed",
		logger.StudentID(q.StudentID),
		logger.Period(period.String()),
		logger.Int("days", summary.TotalDays),
	)
	return &GetStatisticsResult{Summary: summary}, nil
}
