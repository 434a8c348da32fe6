package query

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepclass/stepclass-hub/internal/domain/badge"
	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
	"github.com/stepclass/stepclass-hub/internal/domain/leaderboard"
	"github.com/stepclass/stepclass-hub/internal/domain/shared"
	"github.com/stepclass/stepclass-hub/internal/domain/student"
	"github.com/stepclass/stepclass-hub/pkg/logger"
	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

var queryToday = timeutil.Date(2026, 3, 15)

type fakeStudentRepo struct {
	students []student.Student
}

func (r *fakeStudentRepo) Save(context.Context, *student.Student) error { return nil }

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (*student.Student, error) {
	for i := range r.students {
		if r.students[i].ID == id {
			return &r.students[i], nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

func (r *fakeStudentRepo) GetByUsername(_ context.Context, username string) (*student.Student, error) {
	for i := range r.students {
		if r.students[i].Username == username {
			return &r.students[i], nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

func (r *fakeStudentRepo) ListStudents(context.Context) ([]student.Student, error) {
	return r.students, nil
}

type fakeExerciseRepo struct {
	records []exercise.Record
}

func (r *fakeExerciseRepo) Save(context.Context, *exercise.Record) error   { return nil }
func (r *fakeExerciseRepo) Update(context.Context, *exercise.Record) error { return nil }
func (r *fakeExerciseRepo) Delete(context.Context, string) error           { return nil }

func (r *fakeExerciseRepo) GetByID(context.Context, string) (*exercise.Record, error) {
	return nil, shared.ErrRecordNotFound
}

func (r *fakeExerciseRepo) GetByStudentAndDate(context.Context, exercise.StudentID, time.Time) (*exercise.Record, error) {
	return nil, shared.ErrRecordNotFound
}

func (r *fakeExerciseRepo) ListByStudent(_ context.Context, studentID exercise.StudentID) ([]exercise.Record, error) {
	var out []exercise.Record
	for _, rec := range r.records {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) ListByStudentInWindow(ctx context.Context, studentID exercise.StudentID, w exercise.Window) ([]exercise.Record, error) {
	all, _ := r.ListByStudent(ctx, studentID)
	var out []exercise.Record
	for _, rec := range all {
		if w.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) ListAllInWindow(_ context.Context, w exercise.Window) ([]exercise.Record, error) {
	var out []exercise.Record
	for _, rec := range r.records {
		if w.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeBadgeRepo struct {
	awards map[string][]badge.Award
}

func (r *fakeBadgeRepo) Catalog(context.Context) ([]badge.Definition, error) {
	return badge.Catalog(), nil
}

func (r *fakeBadgeRepo) GetByCode(context.Context, badge.Code) (*badge.Definition, error) {
	return nil, shared.ErrBadgeNotFound
}

func (r *fakeBadgeRepo) AwardsFor(_ context.Context, studentID string) ([]badge.Award, error) {
	return r.awards[studentID], nil
}

func (r *fakeBadgeRepo) Award(context.Context, badge.Award) error { return nil }

func queryLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func queryRecord(studentID string, daysAgo int, m exercise.Metrics) exercise.Record {
	return exercise.Record{
		ID:              studentID + "-rec",
		StudentID:       exercise.StudentID(studentID),
		Date:            queryToday.AddDate(0, 0, -daysAgo),
		Steps:           m.Steps,
		ExerciseMinutes: m.ExerciseMinutes,
		Calories:        m.Calories,
		DistanceKM:      m.DistanceKM,
	}
}

func badgeAwards(studentID string, codes ...badge.Code) []badge.Award {
	out := make([]badge.Award, 0, len(codes))
	for _, c := range codes {
		out = append(out, badge.Award{StudentID: studentID, Code: c, EarnedAt: queryToday})
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func newLeaderboardHandler(students *fakeStudentRepo, records *fakeExerciseRepo, badges *fakeBadgeRepo) *GetLeaderboardHandler {
	clock := timeutil.NewFixedClock(queryToday)
	return NewGetLeaderboardHandler(students, records, badges, clock, queryLogger())
}

func TestGetLeaderboard_Composite(t *testing.T) {
	students := &fakeStudentRepo{students: []student.Student{
		{ID: "s1", Name: "Aliya", Role: student.RoleStudent},
		{ID: "s2", Name: "Bolat", Role: student.RoleStudent},
	}}
	records := &fakeExerciseRepo{records: []exercise.Record{
		queryRecord("s2", 0, exercise.Metrics{Steps: 15_000, ExerciseMinutes: 90, Calories: 800, DistanceKM: 5}),
		queryRecord("s2", 1, exercise.Metrics{Steps: 0}),
		queryRecord("s2", 2, exercise.Metrics{Steps: 0}),
	}}
	badges := &fakeBadgeRepo{awards: map[string][]badge.Award{
		"s1": badgeAwards("s1", badge.CodeFirstStep, badge.CodeSteps10K),
	}}
	h := newLeaderboardHandler(students, records, badges)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{})
	require.NoError(t, err)

	assert.Equal(t, leaderboard.CategoryComposite, result.Category)
	require.Len(t, result.Composite, 2)

	// s2: 15 + 180 + 80 + 50 + 150 = 475, s1: два бейджа = 200.
	assert.Equal(t, "s2", result.Composite[0].StudentID)
	assert.Equal(t, 475, result.Composite[0].Scores.Total)
	assert.Equal(t, "s1", result.Composite[1].StudentID)
	assert.Equal(t, 200, result.Composite[1].Scores.Total)
}

func TestGetLeaderboard_WindowExcludesOldRecords(t *testing.T) {
	students := &fakeStudentRepo{students: []student.Student{
		{ID: "s1", Name: "Aliya", Role: student.RoleStudent},
	}}
	records := &fakeExerciseRepo{records: []exercise.Record{
		queryRecord("s1", 6, exercise.Metrics{Steps: 1000}),
		queryRecord("s1", 7, exercise.Metrics{Steps: 99_000}),
	}}
	h := newLeaderboardHandler(students, records, &fakeBadgeRepo{})

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{})
	require.NoError(t, err)
	require.Len(t, result.Composite, 1)

	// Запись восьмидневной давности за окно не считается.
	assert.Equal(t, 1000, result.Composite[0].Steps)
}

func TestGetLeaderboard_Category(t *testing.T) {
	students := &fakeStudentRepo{students: []student.Student{
		{ID: "s1", Name: "Aliya", Role: student.RoleStudent},
		{ID: "s2", Name: "Bolat", Role: student.RoleStudent},
	}}
	records := &fakeExerciseRepo{records: []exercise.Record{
		queryRecord("s1", 0, exercise.Metrics{Steps: 4000}),
		queryRecord("s2", 0, exercise.Metrics{Steps: 9000}),
	}}
	h := newLeaderboardHandler(students, records, &fakeBadgeRepo{})

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{Category: "steps"})
	require.NoError(t, err)

	assert.Empty(t, result.Composite)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "s2", result.Entries[0].StudentID)
	assert.Equal(t, 9000.0, result.Entries[0].Value)
}

func TestGetLeaderboard_UnknownCategoryRejected(t *testing.T) {
	h := newLeaderboardHandler(&fakeStudentRepo{}, &fakeExerciseRepo{}, &fakeBadgeRepo{})

	_, err := h.Handle(context.Background(), GetLeaderboardQuery{Category: "weight"})
	assert.ErrorIs(t, err, leaderboard.ErrInvalidCategory)
}

func TestGetLeaderboard_Limit(t *testing.T) {
	students := &fakeStudentRepo{students: []student.Student{
		{ID: "s1", Role: student.RoleStudent},
		{ID: "s2", Role: student.RoleStudent},
		{ID: "s3", Role: student.RoleStudent},
	}}
	h := newLeaderboardHandler(students, &fakeExerciseRepo{}, &fakeBadgeRepo{})

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, result.Composite, 2)
}

func TestGetLeaderboard_StableTiesByStudentID(t *testing.T) {
	// Все с нулями: порядок из каталога студентов сохраняется.
	students := &fakeStudentRepo{students: []student.Student{
		{ID: "s1", Role: student.RoleStudent},
		{ID: "s2", Role: student.RoleStudent},
		{ID: "s3", Role: student.RoleStudent},
	}}
	h := newLeaderboardHandler(students, &fakeExerciseRepo{}, &fakeBadgeRepo{})

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{})
	require.NoError(t, err)
	require.Len(t, result.Composite, 3)
	assert.Equal(t, "s1", result.Composite[0].StudentID)
	assert.Equal(t, "s2", result.Composite[1].StudentID)
	assert.Equal(t, "s3", result.Composite[2].StudentID)
	assert.Equal(t, leaderboard.Rank(3), result.Composite[2].Rank)
}

// ══════════════════════════════════════════════════════════════════════════════
// STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

func TestGetStatistics_Week(t *testing.T) {
	records := &fakeExerciseRepo{records: []exercise.Record{
		queryRecord("s1", 0, exercise.Metrics{Steps: 5000, ExerciseMinutes: 30}),
		queryRecord("s1", 3, exercise.Metrics{Steps: 7000, ExerciseMinutes: 50}),
		queryRecord("s1", 10, exercise.Metrics{Steps: 11_000}),
	}}
	clock := timeutil.NewFixedClock(queryToday)
	h := NewGetStatisticsHandler(records, clock, queryLogger())

	result, err := h.Handle(context.Background(), GetStatisticsQuery{StudentID: "s1", Period: "week"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.TotalDays)
	assert.Equal(t, 12_000, result.Summary.TotalSteps)
	assert.Equal(t, 80, result.Summary.TotalMinutes)
	assert.InDelta(t, 6000, result.Summary.AvgSteps, 1e-9)
}

func TestGetStatistics_EmptyWindow(t *testing.T) {
	clock := timeutil.NewFixedClock(queryToday)
	h := NewGetStatisticsHandler(&fakeExerciseRepo{}, clock, queryLogger())

	result, err := h.Handle(context.Background(), GetStatisticsQuery{StudentID: "s1", Period: "day"})
	require.NoError(t, err)
	assert.True(t, result.Summary.IsEmpty())
}

func TestGetStatistics_UnknownPeriod(t *testing.T) {
	clock := timeutil.NewFixedClock(queryToday)
	h := NewGetStatisticsHandler(&fakeExerciseRepo{}, clock, queryLogger())

	_, err := h.Handle(context.Background(), GetStatisticsQuery{StudentID: "s1", Period: "year"})
	assert.ErrorIs(t, err, exercise.ErrUnknownPeriod)
}
