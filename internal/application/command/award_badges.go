// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/stepclass/stepclass-hub/internal/domain/badge"
	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
	"github.com/stepclass/stepclass-hub/pkg/logger"
	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// AWARD BADGES COMMAND
// Evaluates the full badge catalog against a student's exercise history and
// persists any newly earned badges. Runs synchronously after every record
// create/update. The evaluation is idempotent: running it twice in a row
// changes nothing the second time.
// ══════════════════════════════════════════════════════════════════════════════

// AwardBadgesCommand identifies the student to evaluate.
type AwardBadgesCommand struct {
	// StudentID is the id of the student whose history is evaluated.
	StudentID string
}

// Validate validates the command.
func (c AwardBadgesCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("award_badges: student_id is required")
	}
	return nil
}

// AwardBadgesResult reports what the evaluation did.
type AwardBadgesResult struct {
	// StudentID is the evaluated student.
	StudentID string

	// Awarded lists codes of badges persisted by this run.
	Awarded []badge.Code

	// AlreadyEarned counts badges skipped because the student holds them.
	AlreadyEarned int

	// Failed lists codes whose award attempt hit a storage error.
	// A failure of one badge never blocks the others.
	Failed []badge.Code
}

// AwardBadgesHandler handles the AwardBadgesCommand.
type AwardBadgesHandler struct {
	badgeRepo    badge.Repository
	exerciseRepo exercise.Repository
	clock        timeutil.Clock
	log          *logger.Logger
}

// NewAwardBadgesHandler creates a new AwardBadgesHandler.
func NewAwardBadgesHandler(
	badgeRepo badge.Repository,
	exerciseRepo exercise.Repository,
	clock timeutil.Clock,
	log *logger.Logger,
) *AwardBadgesHandler {
	return &AwardBadgesHandler{
		badgeRepo:    badgeRepo,
		exerciseRepo: exerciseRepo,
		clock:        clock,
		log:          log.With(logger.Component("award_badges")),
	}
}

// Handle executes the award badges command.
//
// Per-badge ordering inside one run: already-earned check first, then the
// predicate, then the insert. A duplicate on insert (a concurrent evaluation
// won the race) is a benign no-op, not a failure.
func (h *AwardBadgesHandler) Handle(ctx context.Context, cmd AwardBadgesCommand) (*AwardBadgesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("award_badges: validation failed: %w", err)
	}

	history, err := h.exerciseRepo.ListByStudent(ctx, exercise.StudentID(cmd.StudentID))
	if err != nil {
		return nil, fmt.Errorf("award_badges: load history: %w", err)
	}

	catalog, err := h.badgeRepo.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("award_badges: load catalog: %w", err)
	}

	awards, err := h.badgeRepo.AwardsFor(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("award_badges: load awards: %w", err)
	}

	earned := make(map[badge.Code]struct{}, len(awards))
	for _, a := range awards {
		earned[a.Code] = struct{}{}
	}

	predicates := badge.Predicates()
	now := h.clock.Now()
	today := timeutil.StartOfDay(now)

	result := &AwardBadgesResult{StudentID: cmd.StudentID}

	for _, def := range catalog {
		if _, ok := earned[def.Code]; ok {
			result.AlreadyEarned++
			continue
		}

		pred, ok := predicates[def.Code]
		if !ok {
			// Catalog entries without a rule never fire.
			continue
		}

		if !pred(history, today) {
			continue
		}

		award := badge.NewAward(cmd.StudentID, def, now)
		if err := h.badgeRepo.Award(ctx, award); err != nil {
			if errors.Is(err, badge.ErrAlreadyEarned) {
				result.AlreadyEarned++
				continue
			}
			h.log.Error("badge award failed",
				logger.StudentID(cmd.StudentID),
				logger.BadgeCode(def.Code.String()),
				logger.Err(err),
			)
			result.Failed = append(result.Failed, def.Code)
			continue
		}

		h.log.Info("badge awarded",
			logger.StudentID(cmd.StudentID),
			logger.BadgeCode(def.Code.String()),
		)
		result.Awarded = append(result.Awarded, def.Code)
	}

	return result, nil
}
