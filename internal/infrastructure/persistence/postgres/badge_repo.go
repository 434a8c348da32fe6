// Package postgres implements the PostgreSQL persistence layer for StepClass Hub.
package postgres

import (
	"context"
	"fmt"

	"github.com/stepclass/stepclass-hub/internal/domain/badge"
	"github.com/stepclass/stepclass-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// BadgeRepository implements badge.Repository for PostgreSQL.
type BadgeRepository struct {
	conn *Connection
}

// NewBadgeRepository creates a new BadgeRepository.
func NewBadgeRepository(conn *Connection) *BadgeRepository {
	return &BadgeRepository{conn: conn}
}

// Catalog returns the full badge catalog in seed order.
func (r *BadgeRepository) Catalog(ctx context.Context) ([]badge.Definition, error) {
	query := `SELECT id, code, name, description, icon, category FROM badges ORDER BY id`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}
	defer rows.Close()

	var defs []badge.Definition
	for rows.Next() {
		var d badge.Definition
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.Description, &d.Icon, &d.Category); err != nil {
			return nil, fmt.Errorf("failed to scan badge definition: %w", err)
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// GetByCode returns a badge definition by its code.
func (r *BadgeRepository) GetByCode(ctx context.Context, code badge.Code) (*badge.Definition, error) {
	query := `SELECT id, code, name, description, icon, category FROM badges WHERE code = $1`

	var d badge.Definition
	err := r.conn.QueryRow(ctx, query, code.String()).Scan(
		&d.ID, &d.Code, &d.Name, &d.Description, &d.Icon, &d.Category,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrBadgeNotFound
		}
		return nil, fmt.Errorf("failed to get badge by code: %w", err)
	}
	return &d, nil
}

// AwardsFor returns all of a student's badge awards, newest first.
func (r *BadgeRepository) AwardsFor(ctx context.Context, studentID string) ([]badge.Award, error) {
	query := `
		SELECT sb.id, sb.student_id, sb.badge_id, b.code, sb.earned_at, sb.progress
		FROM student_badges sb
		JOIN badges b ON b.id = sb.badge_id
		WHERE sb.student_id = $1
		ORDER BY sb.earned_at DESC
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load badge awards: %w", err)
	}
	defer rows.Close()

	var awards []badge.Award
	for rows.Next() {
		var a badge.Award
		if err := rows.Scan(&a.ID, &a.StudentID, &a.BadgeID, &a.Code, &a.EarnedAt, &a.Progress); err != nil {
			return nil, fmt.Errorf("failed to scan badge award: %w", err)
		}
		awards = append(awards, a)
	}
	return awards, rows.Err()
}

// Award records a badge grant. The UNIQUE(student_id, badge_id) constraint
// makes a concurrent double-award surface as badge.ErrAlreadyEarned.
func (r *BadgeRepository) Award(ctx context.Context, a badge.Award) error {
	query := `
		INSERT INTO student_badges (student_id, badge_id, earned_at, progress)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query, a.StudentID, a.BadgeID, a.EarnedAt, a.Progress)
	if err != nil {
		if IsUniqueViolation(err) {
			return badge.ErrAlreadyEarned
		}
		return fmt.Errorf("failed to award badge: %w", err)
	}
	return nil
}
