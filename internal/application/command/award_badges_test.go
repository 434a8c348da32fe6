package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepclass/stepclass-hub/internal/domain/badge"
	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
	"github.com/stepclass/stepclass-hub/pkg/logger"
	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

type fakeBadgeRepo struct {
	catalog []badge.Definition
	awards  map[string]map[badge.Code]badge.Award
	// failWith forces Award to fail for specific codes.
	failWith map[badge.Code]error
}

func newFakeBadgeRepo() *fakeBadgeRepo {
	catalog := badge.Catalog()
	for i := range catalog {
		catalog[i].ID = int64(i + 1)
	}
	return &fakeBadgeRepo{
		catalog:  catalog,
		awards:   make(map[string]map[badge.Code]badge.Award),
		failWith: make(map[badge.Code]error),
	}
}

func (r *fakeBadgeRepo) Catalog(_ context.Context) ([]badge.Definition, error) {
	return r.catalog, nil
}

func (r *fakeBadgeRepo) GetByCode(_ context.Context, code badge.Code) (*badge.Definition, error) {
	for i := range r.catalog {
		if r.catalog[i].Code == code {
			return &r.catalog[i], nil
		}
	}
	return nil, badge.ErrInvalidCode
}

func (r *fakeBadgeRepo) AwardsFor(_ context.Context, studentID string) ([]badge.Award, error) {
	var out []badge.Award
	for _, a := range r.awards[studentID] {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeBadgeRepo) Award(_ context.Context, a badge.Award) error {
	if err, ok := r.failWith[a.Code]; ok {
		return err
	}
	if _, ok := r.awards[a.StudentID][a.Code]; ok {
		return badge.ErrAlreadyEarned
	}
	if r.awards[a.StudentID] == nil {
		r.awards[a.StudentID] = make(map[badge.Code]badge.Award)
	}
	r.awards[a.StudentID][a.Code] = a
	return nil
}

type fakeExerciseRepo struct {
	history []exercise.Record
}

func (r *fakeExerciseRepo) Save(context.Context, *exercise.Record) error   { return nil }
func (r *fakeExerciseRepo) Update(context.Context, *exercise.Record) error { return nil }
func (r *fakeExerciseRepo) Delete(context.Context, string) error           { return nil }

func (r *fakeExerciseRepo) GetByID(context.Context, string) (*exercise.Record, error) {
	return nil, nil
}

func (r *fakeExerciseRepo) GetByStudentAndDate(context.Context, exercise.StudentID, time.Time) (*exercise.Record, error) {
	return nil, nil
}

func (r *fakeExerciseRepo) ListByStudent(context.Context, exercise.StudentID) ([]exercise.Record, error) {
	return r.history, nil
}

func (r *fakeExerciseRepo) ListByStudentInWindow(context.Context, exercise.StudentID, exercise.Window) ([]exercise.Record, error) {
	return r.history, nil
}

func (r *fakeExerciseRepo) ListAllInWindow(context.Context, exercise.Window) ([]exercise.Record, error) {
	return r.history, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

var awardTestToday = timeutil.Date(2026, 3, 15)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func historyRecord(daysAgo int, m exercise.Metrics) exercise.Record {
	return exercise.Record{
		ID:              fmt.Sprintf("rec-%d", daysAgo),
		StudentID:       "student-1",
		Date:            awardTestToday.AddDate(0, 0, -daysAgo),
		Steps:           m.Steps,
		ExerciseMinutes: m.ExerciseMinutes,
		Calories:        m.Calories,
		DistanceKM:      m.DistanceKM,
	}
}

func newAwardHandler(badges *fakeBadgeRepo, records *fakeExerciseRepo) *AwardBadgesHandler {
	clock := timeutil.NewFixedClock(awardTestToday)
	return NewAwardBadgesHandler(badges, records, clock, testLogger())
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestAwardBadges_FirstRecord(t *testing.T) {
	badges := newFakeBadgeRepo()
	records := &fakeExerciseRepo{history: []exercise.Record{
		historyRecord(0, exercise.Metrics{Steps: 100}),
	}}
	h := newAwardHandler(badges, records)

	result, err := h.Handle(context.Background(), AwardBadgesCommand{StudentID: "student-1"})
	require.NoError(t, err)

	assert.Equal(t, []badge.Code{badge.CodeFirstStep}, result.Awarded)
	assert.Zero(t, result.AlreadyEarned)
	assert.Empty(t, result.Failed)
}

func TestAwardBadges_Idempotent(t *testing.T) {
	badges := newFakeBadgeRepo()
	records := &fakeExerciseRepo{history: []exercise.Record{
		historyRecord(0, exercise.Metrics{Steps: 12_000, DistanceKM: 6.0}),
	}}
	h := newAwardHandler(badges, records)

	first, err := h.Handle(context.Background(), AwardBadgesCommand{StudentID: "student-1"})
	require.NoError(t, err)
	require.NotEmpty(t, first.Awarded)

	// Повторный прогон без изменений истории ничего не выдаёт.
	second, err := h.Handle(context.Background(), AwardBadgesCommand{StudentID: "student-1"})
	require.NoError(t, err)
	assert.Empty(t, second.Awarded)
	assert.Equal(t, len(first.Awarded), second.AlreadyEarned)
	assert.Empty(t, second.Failed)
}

func TestAwardBadges_DuplicateOnInsertIsBenign(t *testing.T) {
	// Конкурирующий прогон успел вставить бейдж первым: дубликат при
	// вставке - не ошибка, а учтённый пропуск.
	badges := newFakeBadgeRepo()
	badges.failWith[badge.CodeFirstStep] = badge.ErrAlreadyEarned
	records := &fakeExerciseRepo{history: []exercise.Record{
		historyRecord(0, exercise.Metrics{Steps: 100}),
	}}
	h := newAwardHandler(badges, records)

	result, err := h.Handle(context.Background(), AwardBadgesCommand{StudentID: "student-1"})
	require.NoError(t, err)

	assert.Empty(t, result.Awarded)
	assert.Empty(t, result.Failed)
	assert.Equal(t, 1, result.AlreadyEarned)
}

func TestAwardBadges_OneFailureDoesNotBlockOthers(t *testing.T) {
	badges := newFakeBadgeRepo()
	badges.failWith[badge.CodeFirstStep] = errors.New("connection reset")
	records := &fakeExerciseRepo{history: []exercise.Record{
		historyRecord(0, exercise.Metrics{Steps: 10_000}),
	}}
	h := newAwardHandler(badges, records)

	result, err := h.Handle(context.Background(), AwardBadgesCommand{StudentID: "student-1"})
	require.NoError(t, err)

	assert.Equal(t, []badge.Code{badge.CodeFirstStep}, result.Failed)
	assert.Contains(t, result.Awarded, badge.CodeSteps10K)
}

func TestAwardBadges_NeverRevokes(t *testing.T) {
	badges := newFakeBadgeRepo()
	records := &fakeExerciseRepo{history: []exercise.Record{
		historyRecord(0, exercise.Metrics{Steps: 100}),
	}}
	h := newAwardHandler(badges, records)

	_, err := h.Handle(context.Background(), AwardBadgesCommand{StudentID: "student-1"})
	require.NoError(t, err)

	// История опустела (запись удалили), но выданный бейдж остаётся.
	records.history = nil
	result, err := h.Handle(context.Background(), AwardBadgesCommand{StudentID: "student-1"})
	require.NoError(t, err)

	assert.Empty(t, result.Awarded)
	assert.Equal(t, 1, result.AlreadyEarned)

	awards, err := badges.AwardsFor(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Len(t, awards, 1)
	assert.Equal(t, badge.CodeFirstStep, awards[0].Code)
}

func TestAwardBadges_SpecialBadgesNeverFire(t *testing.T) {
	// Каталог содержит бейджи без правила: они засеяны, но не выдаются.
	badges := newFakeBadgeRepo()
	var history []exercise.Record
	for d := 0; d < 120; d++ {
		history = append(history, historyRecord(d, exercise.Metrics{
			Steps:           25_000,
			ExerciseMinutes: 200,
			Calories:        2000,
			DistanceKM:      20,
		}))
	}
	records := &fakeExerciseRepo{history: history}
	h := newAwardHandler(badges, records)

	result, err := h.Handle(context.Background(), AwardBadgesCommand{StudentID: "student-1"})
	require.NoError(t, err)

	assert.NotContains(t, result.Awarded, badge.CodeEarlyBird)
	assert.NotContains(t, result.Awarded, badge.CodeWeekendWarrior)
	assert.Empty(t, result.Failed)
}

func TestAwardBadges_RequiresStudentID(t *testing.T) {
	h := newAwardHandler(newFakeBadgeRepo(), &fakeExerciseRepo{})

	_, err := h.Handle(context.Background(), AwardBadgesCommand{})
	assert.Error(t, err)
}
