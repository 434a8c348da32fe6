package exercise

import (
	"context"
	"time"
)

// Repository is the persistence port for exercise records.
type Repository interface {
	// Save persists a new record. Each student may hold at most one
	// record per calendar day; a second record for the same day fails
	// with a duplicate error.
	Save(ctx context.Context, r *Record) error

	// Update rewrites the metrics of an existing record.
	Update(ctx context.Context, r *Record) error

	// Delete removes a record by id.
	Delete(ctx context.Context, id string) error

	// GetByID returns a single record.
	GetByID(ctx context.Context, id string) (*Record, error)

	// GetByStudentAndDate returns the record for one student on one
	// calendar day, or a not-found error.
	GetByStudentAndDate(ctx context.Context, studentID StudentID, day time.Time) (*Record, error)

	// ListByStudent returns the full history of one student ordered by
	// date descending.
	ListByStudent(ctx context.Context, studentID StudentID) ([]Record, error)

	// ListByStudentInWindow returns one student's records inside the
	// window ordered by date descending.
	ListByStudentInWindow(ctx context.Context, studentID StudentID, w Window) ([]Record, error)

	// ListAllInWindow returns every student's records inside the window.
	// Used by the leaderboard aggregation.
	ListAllInWindow(ctx context.Context, w Window) ([]Record, error)
}
