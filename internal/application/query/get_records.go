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
// GET RECORDS QUERY
// История записей студента, свежие сверху. Опциональный период сужает
// выборку тем же окном, что и статистика.
// ══════════════════════════════════════════════════════════════════════════════

// GetRecordsQuery содержит параметры запроса истории.
type GetRecordsQuery struct {
	StudentID string

	// Period - опциональное окно ("day", "week", "month"). Пустая строка
	// означает всю историю.
	Period string
}

// Validate проверяет параметры запроса.
func (q GetRecordsQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("get_records: student_id is required")
	}
	return nil
}

// GetRecordsResult содержит записи.
type GetRecordsResult struct {
	Records []exercise.Record
}

// GetRecordsHandler обрабатывает GetRecordsQuery.
type GetRecordsHandler struct {
	exerciseRepo exercise.Repository
	clock        timeutil.Clock
	log          *logger.Logger
}

// NewGetRecordsHandler создаёт новый GetRecordsHandler.
func NewGetRecordsHandler(
	exerciseRepo exercise.Repository,
	clock timeutil.Clock,
	log *logger.Logger,
) *GetRecordsHandler {
	return &GetRecordsHandler{
		exerciseRepo: exerciseRepo,
		clock:        clock,
		log:          log.With(logger.Component("get_records")),
	}
}

// Handle выполняет запрос истории.
func (h *GetRecordsHandler) Handle(ctx context.Context, q GetRecordsQuery) (*GetRecordsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	studentID := exercise.StudentID(q.StudentID)

	if q.Period == "" {
		records, err := h.exerciseRepo.ListByStudent(ctx, studentID)
		if err != nil {
			return nil, fmt.Errorf("get_records: %w", err)
		}
		return &GetRecordsResult{Records: records}, nil
	}

	period, err := exercise.ParsePeriod(q.Period)
	if err != nil {
		return nil, err
	}
	window := exercise.ResolveWindow(period, timeutil.Today(h.clock))

	records, err := h.exerciseRepo.ListByStudentInWindow(ctx, studentID, window)
	if err != nil {
		return nil, fmt.Errorf("get_records: %w", err)
	}
	return &GetRecordsResult{Records: records}, nil
}
