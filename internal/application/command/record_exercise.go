package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
	"github.com/stepclass/stepclass-hub/internal/domain/shared"
	"github.com/stepclass/stepclass-hub/pkg/logger"
	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD EXERCISE COMMANDS
// Create, update and delete of daily exercise records. Create and update
// trigger badge evaluation synchronously after the write; delete does not,
// so earned badges survive the removal of the records that justified them.
// ══════════════════════════════════════════════════════════════════════════════

// BadgeEvaluator is the slice of the badge pipeline the record write path
// needs. Satisfied by AwardBadgesHandler.
type BadgeEvaluator interface {
	Handle(ctx context.Context, cmd AwardBadgesCommand) (*AwardBadgesResult, error)
}

// CreateRecordCommand contains the data for a new daily record.
type CreateRecordCommand struct {
	StudentID string
	// Date is the calendar day being logged, format YYYY-MM-DD.
	Date    string
	Metrics exercise.Metrics
}

// Validate validates the command.
func (c CreateRecordCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("record_exercise: student_id is required")
	}
	if c.Date == "" {
		return errors.New("record_exercise: date is required")
	}
	return c.Metrics.Validate()
}

// UpdateRecordCommand rewrites the metrics of an existing record.
type UpdateRecordCommand struct {
	RecordID  string
	StudentID string
	Metrics   exercise.Metrics
}

// Validate validates the command.
func (c UpdateRecordCommand) Validate() error {
	if c.RecordID == "" {
		return errors.New("record_exercise: record_id is required")
	}
	if c.StudentID == "" {
		return errors.New("record_exercise: student_id is required")
	}
	return c.Metrics.Validate()
}

// DeleteRecordCommand removes a record.
type DeleteRecordCommand struct {
	RecordID  string
	StudentID string
}

// Validate validates the command.
func (c DeleteRecordCommand) Validate() error {
	if c.RecordID == "" {
		return errors.New("record_exercise: record_id is required")
	}
	return nil
}

// RecordResult reports the persisted record plus any badges the write earned.
type RecordResult struct {
	Record  *exercise.Record
	Badges  *AwardBadgesResult
	Created bool
}

// RecordExerciseHandler handles record create/update/delete.
type RecordExerciseHandler struct {
	exerciseRepo exercise.Repository
	evaluator    BadgeEvaluator
	log          *logger.Logger
}

// NewRecordExerciseHandler creates a new RecordExerciseHandler.
func NewRecordExerciseHandler(
	exerciseRepo exercise.Repository,
	evaluator BadgeEvaluator,
	log *logger.Logger,
) *RecordExerciseHandler {
	return &RecordExerciseHandler{
		exerciseRepo: exerciseRepo,
		evaluator:    evaluator,
		log:          log.With(logger.Component("record_exercise")),
	}
}

// HandleCreate creates a record and evaluates badges.
// One record per student per day: a second write for the same day fails
// with shared.ErrDuplicateRecord instead of silently overwriting.
func (h *RecordExerciseHandler) HandleCreate(ctx context.Context, cmd CreateRecordCommand) (*RecordResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_exercise: validation failed: %w", err)
	}

	date, err := timeutil.ParseDateAlmaty(cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("record_exercise: %w: %q", shared.ErrInvalidDate, cmd.Date)
	}

	record, err := exercise.NewRecord(uuid.NewString(), exercise.StudentID(cmd.StudentID), date, cmd.Metrics)
	if err != nil {
		return nil, fmt.Errorf("record_exercise: %w", err)
	}

	if err := h.exerciseRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("record_exercise: save: %w", err)
	}

	h.log.Info("record created",
		logger.StudentID(cmd.StudentID),
		logger.RecordDate(record.Day()),
	)

	return &RecordResult{
		Record:  record,
		Badges:  h.evaluate(ctx, cmd.StudentID),
		Created: true,
	}, nil
}

// HandleUpdate rewrites a record's metrics and re-evaluates badges.
// Badges earned from the old values are kept even if the new values no
// longer satisfy their rules.
func (h *RecordExerciseHandler) HandleUpdate(ctx context.Context, cmd UpdateRecordCommand) (*RecordResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_exercise: validation failed: %w", err)
	}

	record, err := h.exerciseRepo.GetByID(ctx, cmd.RecordID)
	if err != nil {
		return nil, fmt.Errorf("record_exercise: load: %w", err)
	}
	if record.StudentID.String() != cmd.StudentID {
		return nil, shared.ErrRecordNotFound
	}

	if err := record.Apply(cmd.Metrics); err != nil {
		return nil, fmt.Errorf("record_exercise: %w", err)
	}

	if err := h.exerciseRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("record_exercise: update: %w", err)
	}

	h.log.Info("record updated",
		logger.StudentID(cmd.StudentID),
		logger.RecordDate(record.Day()),
	)

	return &RecordResult{
		Record: record,
		Badges: h.evaluate(ctx, cmd.StudentID),
	}, nil
}

// HandleDelete removes a record. No badge evaluation runs: badges are
// never revoked, and absence of records cannot newly satisfy any rule.
func (h *RecordExerciseHandler) HandleDelete(ctx context.Context, cmd DeleteRecordCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("record_exercise: validation failed: %w", err)
	}

	if cmd.StudentID != "" {
		record, err := h.exerciseRepo.GetByID(ctx, cmd.RecordID)
		if err != nil {
			return fmt.Errorf("record_exercise: load: %w", err)
		}
		if record.StudentID.String() != cmd.StudentID {
			return shared.ErrRecordNotFound
		}
	}

	if err := h.exerciseRepo.Delete(ctx, cmd.RecordID); err != nil {
		return fmt.Errorf("record_exercise: delete: %w", err)
	}

	h.log.Info("record deleted", logger.F("record_id", cmd.RecordID))
	return nil
}

// evaluate runs badge evaluation after a successful write. An evaluation
// failure is logged and swallowed: the record write already succeeded and
// the next write will evaluate again.
func (h *RecordExerciseHandler) evaluate(ctx context.Context, studentID string) *AwardBadgesResult {
	start := time.Now()
	result, err := h.evaluator.Handle(ctx, AwardBadgesCommand{StudentID: studentID})
	if err != nil {
		h.log.Error("badge evaluation failed",
			logger.StudentID(studentID),
			logger.Err(err),
		)
		return nil
	}
	if len(result.Awarded) > 0 {
		h.log.Info("badges earned",
			logger.StudentID(studentID),
			logger.Int("count", len(result.Awarded)),
			logger.Latency(time.Since(start)),
		)
	}
	return result
}
