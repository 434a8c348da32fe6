// Package postgres implements the PostgreSQL persistence layer for StepClass Hub.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
	"github.com/stepclass/stepclass-hub/internal/domain/shared"
	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXERCISE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ExerciseRepository implements exercise.Repository for PostgreSQL.
type ExerciseRepository struct {
	conn *Connection
}

// NewExerciseRepository creates a new ExerciseRepository.
func NewExerciseRepository(conn *Connection) *ExerciseRepository {
	return &ExerciseRepository{conn: conn}
}

const recordColumns = `id, student_id, date, steps, exercise_minutes,
	calories, distance_km, COALESCE(notes, ''), created_at, updated_at`

// Save persists a new record. The UNIQUE(student_id, date) constraint is
// the single source of truth for the one-record-per-day rule.
func (r *ExerciseRepository) Save(ctx context.Context, rec *exercise.Record) error {
	query := `
		INSERT INTO exercise_records
			(id, student_id, date, steps, exercise_minutes, calories, distance_km, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)
	`

	_, err := r.conn.Exec(ctx, query,
		rec.ID,
		rec.StudentID.String(),
		rec.Date,
		rec.Steps,
		rec.ExerciseMinutes,
		rec.Calories,
		rec.DistanceKM,
		rec.Notes,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateRecord
		}
		return fmt.Errorf("failed to create exercise record: %w", err)
	}
	return nil
}

// Update rewrites the metrics of an existing record. The date is immutable.
func (r *ExerciseRepository) Update(ctx context.Context, rec *exercise.Record) error {
	query := `
		UPDATE exercise_records SET
			steps = $1,
			exercise_minutes = $2,
			calories = $3,
			distance_km = $4,
			notes = NULLIF($5, ''),
			updated_at = $6
		WHERE id = $7
	`

	tag, err := r.conn.Exec(ctx, query,
		rec.Steps,
		rec.ExerciseMinutes,
		rec.Calories,
		rec.DistanceKM,
		rec.Notes,
		rec.UpdatedAt,
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update exercise record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrRecordNotFound
	}
	return nil
}

// Delete removes a record by id.
func (r *ExerciseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM exercise_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exercise record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrRecordNotFound
	}
	return nil
}

// GetByID returns a single record.
func (r *ExerciseRepository) GetByID(ctx context.Context, id string) (*exercise.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM exercise_records WHERE id = $1`
	return r.scanOne(r.conn.QueryRow(ctx, query, id))
}

// GetByStudentAndDate returns the record for one student on one calendar day.
func (r *ExerciseRepository) GetByStudentAndDate(ctx context.Context, studentID exercise.StudentID, day time.Time) (*exercise.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM exercise_records WHERE student_id = $1 AND date = $2`
	return r.scanOne(r.conn.QueryRow(ctx, query, studentID.String(), timeutil.StartOfDay(day)))
}

// ListByStudent returns the full history of one student, newest first.
func (r *ExerciseRepository) ListByStudent(ctx context.Context, studentID exercise.StudentID) ([]exercise.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM exercise_records WHERE student_id = $1 ORDER BY date DESC`

	rows, err := r.conn.Query(ctx, query, studentID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise records: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByStudentInWindow returns one student's records inside the window, newest first.
func (r *ExerciseRepository) ListByStudentInWindow(ctx context.Context, studentID exercise.StudentID, w exercise.Window) ([]exercise.Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM exercise_records
		WHERE student_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC`

	rows, err := r.conn.Query(ctx, query, studentID.String(), w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise records in window: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListAllInWindow returns every student's records inside the window.
func (r *ExerciseRepository) ListAllInWindow(ctx context.Context, w exercise.Window) ([]exercise.Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM exercise_records
		WHERE date >= $1 AND date <= $2
		ORDER BY student_id, date DESC`

	rows, err := r.conn.Query(ctx, query, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise records in window: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ExerciseRepository) scanOne(row rowScanner) (*exercise.Record, error) {
	var rec exercise.Record
	var studentID string
	err := row.Scan(
		&rec.ID, &studentID, &rec.Date, &rec.Steps, &rec.ExerciseMinutes,
		&rec.Calories, &rec.DistanceKM, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to scan exercise record: %w", err)
	}
	rec.StudentID = exercise.StudentID(studentID)
	// DATE columns come back at UTC midnight; records carry Almaty days.
	rec.Date = timeutil.Date(rec.Date.Year(), int(rec.Date.Month()), rec.Date.Day())
	return &rec, nil
}

func (r *ExerciseRepository) scanAll(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]exercise.Record, error) {
	var records []exercise.Record
	for rows.Next() {
		var rec exercise.Record
		var studentID string
		if err := rows.Scan(
			&rec.ID, &studentID, &rec.Date, &rec.Steps, &rec.ExerciseMinutes,
			&rec.Calories, &rec.DistanceKM, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan exercise record: %w", err)
		}
		rec.StudentID = exercise.StudentID(studentID)
		rec.Date = timeutil.Date(rec.Date.Year(), int(rec.Date.Month()), rec.Date.Day())
		records = append(records, rec)
	}
	return records, rows.Err()
}
