package exercise

import (
	"time"
)

// Summary contains windowed rollups for a single student.
// A window with no records yields a zero-valued summary, never an error.
type Summary struct {
	StudentID StudentID
	Period    Period
	Window    Window

	// TotalDays is the count of distinct days with a record in the window.
	TotalDays int

	TotalSteps      int
	TotalMinutes    int
	TotalCalories   float64
	TotalDistanceKM float64

	// Averages are per day-with-record, not per window day.
	AvgSteps      float64
	AvgMinutes    float64
	AvgCalories   float64
	AvgDistanceKM float64
}

// Totals holds plain sums over a set of records, used both by the
// statistics summary and the leaderboard metric inputs.
type Totals struct {
	Days       int
	Steps      int
	Minutes    int
	Calories   float64
	DistanceKM float64
}

// SumInWindow accumulates totals over the records that fall inside the
// window. Records carry unique dates per student, so Days equals the
// count of distinct exercise days.
func SumInWindow(records []Record, w Window) Totals {
	var t Totals
	for _, r := range records {
		if !w.Contains(r.Date) {
			continue
		}
		t.Days++
		t.Steps += r.Steps
		t.Minutes += r.ExerciseMinutes
		t.Calories += r.Calories
		t.DistanceKM += r.DistanceKM
	}
	return t
}

// Summarize computes the statistics summary for one student over the
// period resolved against today.
func Summarize(studentID StudentID, records []Record, p Period, today time.Time) Summary {
	w := ResolveWindow(p, today)
	t := SumInWindow(records, w)

	s := Summary{
		StudentID:       studentID,
		Period:          p,
		Window:          w,
		TotalDays:       t.Days,
		TotalSteps:      t.Steps,
		TotalMinutes:    t.Minutes,
		TotalCalories:   t.Calories,
		TotalDistanceKM: t.DistanceKM,
	}

	if t.Days > 0 {
		days := float64(t.Days)
		s.AvgSteps = float64(t.Steps) / days
		s.AvgMinutes = float64(t.Minutes) / days
		s.AvgCalories = t.Calories / days
		s.AvgDistanceKM = t.DistanceKM / days
	}

	return s
}

// IsEmpty returns true if the window contained no records.
func (s Summary) IsEmpty() bool {
	return s.TotalDays == 0
}
