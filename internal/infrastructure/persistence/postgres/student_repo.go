// Package postgres implements the PostgreSQL persistence layer for StepClass Hub.
package postgres

import (
	"context"
	"fmt"

	"github.com/stepclass/stepclass-hub/internal/domain/shared"
	"github.com/stepclass/stepclass-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `id, username, password_hash, role, name,
	COALESCE(class_name, ''), COALESCE(grade, 0),
	COALESCE(email, ''), COALESCE(phone, ''), created_at`

// Save persists a new directory entry.
func (r *StudentRepository) Save(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO users (id, username, password_hash, role, name, class_name, grade, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, 0), NULLIF($8, ''), NULLIF($9, ''), $10)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Username,
		s.PasswordHash,
		s.Role.String(),
		s.Name,
		s.ClassName,
		s.Grade,
		s.Email,
		s.Phone,
		s.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID returns a single entry.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM users WHERE id = $1`

	var s student.Student
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Username, &s.PasswordHash, &s.Role, &s.Name,
		&s.ClassName, &s.Grade, &s.Email, &s.Phone, &s.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &s, nil
}

// GetByUsername returns the entry for a login name.
func (r *StudentRepository) GetByUsername(ctx context.Context, username string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM users WHERE username = $1`

	var s student.Student
	err := r.conn.QueryRow(ctx, query, username).Scan(
		&s.ID, &s.Username, &s.PasswordHash, &s.Role, &s.Name,
		&s.ClassName, &s.Grade, &s.Email, &s.Phone, &s.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &s, nil
}

// ListStudents returns every entry with role=student ordered by id.
// The ordering is the stable tiebreak the leaderboard relies on.
func (r *StudentRepository) ListStudents(ctx context.Context) ([]student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM users WHERE role = 'student' ORDER BY id`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []student.Student
	for rows.Next() {
		var s student.Student
		if err := rows.Scan(
			&s.ID, &s.Username, &s.PasswordHash, &s.Role, &s.Name,
			&s.ClassName, &s.Grade, &s.Email, &s.Phone, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
