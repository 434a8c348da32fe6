package badge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

var testToday = timeutil.Date(2026, 3, 15)

// recordOn builds a record N days before testToday.
func recordOn(daysAgo int, m exercise.Metrics) exercise.Record {
	return exercise.Record{
		ID:              "r",
		StudentID:       "s1",
		Date:            testToday.AddDate(0, 0, -daysAgo),
		Steps:           m.Steps,
		ExerciseMinutes: m.ExerciseMinutes,
		Calories:        m.Calories,
		DistanceKM:      m.DistanceKM,
	}
}

func consecutiveDays(n int) []exercise.Record {
	records := make([]exercise.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, recordOn(i, exercise.Metrics{Steps: 5000}))
	}
	return records
}

func TestPredicates_CoverCatalogExceptSpecial(t *testing.T) {
	preds := Predicates()

	for _, def := range Catalog() {
		_, ok := preds[def.Code]
		if def.Code == CodeEarlyBird || def.Code == CodeWeekendWarrior {
			assert.False(t, ok, "special badge %s must not have a rule", def.Code)
			continue
		}
		assert.True(t, ok, "badge %s has no rule", def.Code)
	}
}

func TestFirstStep(t *testing.T) {
	pred := Predicates()[CodeFirstStep]

	assert.False(t, pred(nil, testToday))
	assert.True(t, pred(consecutiveDays(1), testToday))
}

func TestStreak_ConsecutiveDays(t *testing.T) {
	pred := Predicates()[CodeStreak3]

	assert.False(t, pred(consecutiveDays(2), testToday))
	assert.True(t, pred(consecutiveDays(3), testToday))
	assert.True(t, pred(consecutiveDays(10), testToday))
}

func TestStreak_GapBreaksRun(t *testing.T) {
	pred := Predicates()[CodeStreak3]

	// Day 0, day 1, then a hole, then day 3.
	records := []exercise.Record{
		recordOn(0, exercise.Metrics{}),
		recordOn(1, exercise.Metrics{}),
		recordOn(3, exercise.Metrics{}),
	}
	assert.False(t, pred(records, testToday))
}

func TestStreak_OldRunDoesNotCount(t *testing.T) {
	// A 7-day run ending 10 days ago must not satisfy the rule: the scan
	// starts at the most recent record and stops at the first gap.
	pred := Predicates()[CodeStreak7]

	records := []exercise.Record{recordOn(0, exercise.Metrics{})}
	for i := 10; i < 17; i++ {
		records = append(records, recordOn(i, exercise.Metrics{}))
	}
	assert.False(t, pred(records, testToday))
}

func TestStreak_OrderInsensitive(t *testing.T) {
	pred := Predicates()[CodeStreak3]

	// Same three days, shuffled input order.
	records := []exercise.Record{
		recordOn(1, exercise.Metrics{}),
		recordOn(0, exercise.Metrics{}),
		recordOn(2, exercise.Metrics{}),
	}
	assert.True(t, pred(records, testToday))
}

func TestStreak30(t *testing.T) {
	pred := Predicates()[CodeStreak30]

	assert.False(t, pred(consecutiveDays(29), testToday))
	assert.True(t, pred(consecutiveDays(30), testToday))
}

func TestPerfectWeek(t *testing.T) {
	pred := Predicates()[CodePerfectWeek]

	assert.False(t, pred(consecutiveDays(6), testToday), "6 of 7 days is not a perfect week")
	assert.True(t, pred(consecutiveDays(7), testToday))
}

func TestPerfectWeek_OutsideWindowIgnored(t *testing.T) {
	pred := Predicates()[CodePerfectWeek]

	// Six days in the window plus one record 8 days ago: still not perfect.
	records := consecutiveDays(6)
	records = append(records, recordOn(8, exercise.Metrics{}))
	assert.False(t, pred(records, testToday))
}

func TestSingleDayThresholds(t *testing.T) {
	tests := []struct {
		name    string
		code    Code
		metrics exercise.Metrics
		earned  bool
	}{
		{"steps 10k met", CodeSteps10K, exercise.Metrics{Steps: 10_000}, true},
		{"steps 10k below", CodeSteps10K, exercise.Metrics{Steps: 9_999}, false},
		{"steps 20k met", CodeSteps20K, exercise.Metrics{Steps: 20_000}, true},
		{"minutes 120 met", CodeExercise120, exercise.Metrics{ExerciseMinutes: 120}, true},
		{"minutes 120 below", CodeExercise120, exercise.Metrics{ExerciseMinutes: 119}, false},
		{"minutes 180 met", CodeExercise180, exercise.Metrics{ExerciseMinutes: 180}, true},
		{"calories 1000 met", CodeCalories1000, exercise.Metrics{Calories: 1000}, true},
		{"calories 1500 below", CodeCalories1500, exercise.Metrics{Calories: 1499.9}, false},
		{"distance 5k met", CodeDistance5K, exercise.Metrics{DistanceKM: 5}, true},
		{"distance 10k below", CodeDistance10K, exercise.Metrics{DistanceKM: 9.99}, false},
		{"distance 15k met", CodeDistance15K, exercise.Metrics{DistanceKM: 15}, true},
	}

	preds := Predicates()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []exercise.Record{recordOn(0, tt.metrics)}
			assert.Equal(t, tt.earned, preds[tt.code](records, testToday))
		})
	}
}

func TestSteps10KTimes10(t *testing.T) {
	pred := Predicates()[CodeSteps10KX10]

	var records []exercise.Record
	for i := 0; i < 9; i++ {
		records = append(records, recordOn(i*2, exercise.Metrics{Steps: 12_000}))
	}
	assert.False(t, pred(records, testToday))

	records = append(records, recordOn(20, exercise.Metrics{Steps: 10_000}))
	assert.True(t, pred(records, testToday))
}

func TestTotal100Days(t *testing.T) {
	pred := Predicates()[CodeTotal100Days]

	var records []exercise.Record
	for i := 0; i < 99; i++ {
		records = append(records, recordOn(i*2, exercise.Metrics{}))
	}
	assert.False(t, pred(records, testToday))

	records = append(records, recordOn(300, exercise.Metrics{}))
	assert.True(t, pred(records, testToday))
}

func TestMarathon_Boundary(t *testing.T) {
	pred := Predicates()[CodeMarathon]

	records := []exercise.Record{
		recordOn(0, exercise.Metrics{DistanceKM: 40}),
		recordOn(5, exercise.Metrics{DistanceKM: 2.194}),
	}
	assert.False(t, pred(records, testToday), "42.194 km total is below the marathon distance")

	records = append(records, recordOn(10, exercise.Metrics{DistanceKM: 0.001}))
	assert.True(t, pred(records, testToday))
}

func TestMillionSteps(t *testing.T) {
	pred := Predicates()[CodeTotal1MSteps]

	var records []exercise.Record
	for i := 0; i < 99; i++ {
		records = append(records, recordOn(i, exercise.Metrics{Steps: 10_000}))
	}
	assert.False(t, pred(records, testToday)) // 990,000

	records = append(records, recordOn(100, exercise.Metrics{Steps: 10_000}))
	assert.True(t, pred(records, testToday)) // 1,000,000
}

func TestPredicates_PureOverTime(t *testing.T) {
	// The same history evaluates identically on different days, except for
	// rules anchored to today.
	pred := Predicates()[CodeSteps10K]
	records := []exercise.Record{recordOn(3, exercise.Metrics{Steps: 10_000})}

	assert.True(t, pred(records, testToday))
	assert.True(t, pred(records, testToday.AddDate(0, 1, 0)))
}

func TestCatalog_Validates(t *testing.T) {
	for _, def := range Catalog() {
		require.NoError(t, def.Validate(), "definition %s", def.Code)
	}
	assert.Len(t, Catalog(), 20)
}

func TestNewAward(t *testing.T) {
	def := Definition{ID: 7, Code: CodeStreak3, Category: CategoryStreak}
	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	a := NewAward("s1", def, at)
	assert.Equal(t, "s1", a.StudentID)
	assert.Equal(t, int64(7), a.BadgeID)
	assert.Equal(t, CodeStreak3, a.Code)
	assert.Equal(t, 100, a.Progress)
	assert.Equal(t, at, a.EarnedAt)
}
