// Package exercise contains domain entities and business logic for
// per-student, per-date activity records and their windowed aggregates.
// This is a pure domain layer with zero external dependencies.
package exercise

import (
	"errors"
	"time"

	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

// Domain errors for exercise package.
var (
	ErrInvalidStudentID = errors.New("exercise: invalid student ID")
	ErrInvalidRecordID  = errors.New("exercise: invalid record ID")
	ErrZeroDate         = errors.New("exercise: record date is required")
	ErrNegativeMetric   = errors.New("exercise: metrics cannot be negative")
)

// StudentID represents a unique identifier for a student.
type StudentID string

// IsValid checks if the student ID is valid.
func (s StudentID) IsValid() bool {
	return s != ""
}

// String returns the string representation of StudentID.
func (s StudentID) String() string {
	return string(s)
}

// Record represents one day of activity for one student.
// The store enforces at most one record per (student, date) pair, so a
// Record is the atomic input to every badge rule and every aggregate.
type Record struct {
	ID        string
	StudentID StudentID

	// Date is the calendar day of the activity (midnight, Almaty timezone).
	Date time.Time

	Steps           int
	ExerciseMinutes int
	Calories        float64
	DistanceKM      float64
	Notes           string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Metrics bundles the editable numeric values of a record.
type Metrics struct {
	Steps           int
	ExerciseMinutes int
	Calories        float64
	DistanceKM      float64
	Notes           string
}

// Validate checks that no metric is negative.
func (m Metrics) Validate() error {
	if m.Steps < 0 || m.ExerciseMinutes < 0 || m.Calories < 0 || m.DistanceKM < 0 {
		return ErrNegativeMetric
	}
	return nil
}

// NewRecord creates a new exercise record with validation.
// The date is normalized to the start of its Almaty day.
func NewRecord(id string, studentID StudentID, date time.Time, m Metrics) (*Record, error) {
	if id == "" {
		return nil, ErrInvalidRecordID
	}
	if !studentID.IsValid() {
		return nil, ErrInvalidStudentID
	}
	if date.IsZero() {
		return nil, ErrZeroDate
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	now := timeutil.Now()
	return &Record{
		ID:              id,
		StudentID:       studentID,
		Date:            timeutil.StartOfDay(date),
		Steps:           m.Steps,
		ExerciseMinutes: m.ExerciseMinutes,
		Calories:        m.Calories,
		DistanceKM:      m.DistanceKM,
		Notes:           m.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Apply overwrites the record's metrics and bumps UpdatedAt.
func (r *Record) Apply(m Metrics) error {
	if err := m.Validate(); err != nil {
		return err
	}
	r.Steps = m.Steps
	r.ExerciseMinutes = m.ExerciseMinutes
	r.Calories = m.Calories
	r.DistanceKM = m.DistanceKM
	r.Notes = m.Notes
	r.UpdatedAt = timeutil.Now()
	return nil
}

// Day returns the record date formatted as YYYY-MM-DD.
func (r *Record) Day() string {
	return timeutil.FormatDateStr(r.Date)
}

// IsOn checks whether the record belongs to the given calendar day.
func (r *Record) IsOn(day time.Time) bool {
	return timeutil.IsSameDay(r.Date, day)
}
